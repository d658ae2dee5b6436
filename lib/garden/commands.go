package garden

import (
	"encoding/json"
	"fmt"
)

type CommandKind string

const (
	CommandMintDenom        CommandKind = "mint_denom"
	CommandSetMetadata      CommandKind = "set_metadata"
	CommandMint             CommandKind = "mint"
	CommandCreatePool       CommandKind = "create_pool"
	CommandProvideLiquidity CommandKind = "provide_liquidity"
	CommandTransfer         CommandKind = "transfer"
)

// Command is an outbound effect addressed to an external system. Commands
// are data: they are only emitted once the operation that produced them
// commits.
type Command interface {
	Kind() CommandKind
}

type MintDenom struct {
	Subdenom string `json:"subdenom"`
}

type DenomUnit struct {
	Denom    string   `json:"denom"`
	Exponent uint32   `json:"exponent"`
	Aliases  []string `json:"aliases"`
}

type SetMetadata struct {
	Description string      `json:"description"`
	DenomUnits  []DenomUnit `json:"denom_units"`
	Base        string      `json:"base"`
	Display     string      `json:"display"`
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	URI         string      `json:"uri"`
}

type Mint struct {
	Coin      Coin   `json:"amount"`
	Recipient string `json:"mint_to_address"`
}

type CreatePool struct {
	Factory string `json:"factory"`
	AssetA  string `json:"asset_a"`
	AssetB  string `json:"asset_b"`
}

type ProvideLiquidity struct {
	Pool   string `json:"pool"`
	Assets []Coin `json:"assets"`
}

type Transfer struct {
	Coin      Coin   `json:"amount"`
	Recipient string `json:"to_address"`
}

func (MintDenom) Kind() CommandKind        { return CommandMintDenom }
func (SetMetadata) Kind() CommandKind      { return CommandSetMetadata }
func (Mint) Kind() CommandKind             { return CommandMint }
func (CreatePool) Kind() CommandKind       { return CommandCreatePool }
func (ProvideLiquidity) Kind() CommandKind { return CommandProvideLiquidity }
func (Transfer) Kind() CommandKind         { return CommandTransfer }

// NewSetMetadata builds the metadata record for an asset. The smallest unit
// is the denom itself; the display unit is the ticker at six decimals.
func NewSetMetadata(denom, ticker, name, url string) SetMetadata {
	return SetMetadata{
		Description: "shitcoin",
		DenomUnits: []DenomUnit{
			{Denom: denom, Exponent: 0, Aliases: []string{}},
			{Denom: ticker, Exponent: Decimals, Aliases: []string{}},
		},
		Base:    denom,
		Display: ticker,
		Name:    name,
		Symbol:  ticker,
		URI:     url,
	}
}

// Envelope is the serialized form of a Command.
type Envelope struct {
	Kind    CommandKind     `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func Wrap(c Command) (Envelope, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Kind: c.Kind(), Payload: payload}, nil
}

func WrapAll(cmds []Command) ([]Envelope, error) {
	envelopes := make([]Envelope, 0, len(cmds))
	for _, c := range cmds {
		e, err := Wrap(c)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, e)
	}
	return envelopes, nil
}

func (e Envelope) Unwrap() (Command, error) {
	var c Command
	switch e.Kind {
	case CommandMintDenom:
		c = &MintDenom{}
	case CommandSetMetadata:
		c = &SetMetadata{}
	case CommandMint:
		c = &Mint{}
	case CommandCreatePool:
		c = &CreatePool{}
	case CommandProvideLiquidity:
		c = &ProvideLiquidity{}
	case CommandTransfer:
		c = &Transfer{}
	default:
		return nil, fmt.Errorf("unknown command kind %q", e.Kind)
	}
	if err := json.Unmarshal(e.Payload, c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.Kind, err)
	}
	return c, nil
}
