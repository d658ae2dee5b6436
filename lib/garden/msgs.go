package garden

import (
	"fmt"

	"github.com/shitcoingarden/garden.go/lib/ledger"
)

type CreateShitcoinMsg struct {
	Ticker string `json:"ticker" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Supply Amount `json:"supply"`
}

type DenomMsg struct {
	Denom string `json:"denom" validate:"required"`
}

type SetURLMsg struct {
	Denom string `json:"denom" validate:"required"`
	URL   string `json:"url"`
}

// ExecuteMsg holds exactly one operation.
type ExecuteMsg struct {
	CreateShitcoin *CreateShitcoinMsg `json:"create_shitcoin,omitempty"`
	EnterPresale   *DenomMsg          `json:"enter_presale,omitempty"`
	ExtendPresale  *DenomMsg          `json:"extend_presale,omitempty"`
	LaunchShitcoin *DenomMsg          `json:"launch_shitcoin,omitempty"`
	ClaimShitcoin  *DenomMsg          `json:"claim_shitcoin,omitempty"`
	SetURL         *SetURLMsg         `json:"set_url,omitempty"`
}

func (m ExecuteMsg) set() int {
	n := 0
	for _, ok := range []bool{
		m.CreateShitcoin != nil, m.EnterPresale != nil, m.ExtendPresale != nil,
		m.LaunchShitcoin != nil, m.ClaimShitcoin != nil, m.SetURL != nil,
	} {
		if ok {
			n++
		}
	}
	return n
}

func (m ExecuteMsg) Validate() error {
	if n := m.set(); n != 1 {
		return validationf(nil, "execute message must hold exactly one operation, got %d", n)
	}
	return nil
}

// Execute dispatches msg to its operation.
func (c *Contract) Execute(store ledger.Store, env Env, caller Caller, msg ExecuteMsg) (*Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case msg.CreateShitcoin != nil:
		m := msg.CreateShitcoin
		return c.CreateShitcoin(store, env, caller, m.Ticker, m.Name, m.Supply)
	case msg.EnterPresale != nil:
		return c.EnterPresale(store, env, caller, msg.EnterPresale.Denom)
	case msg.ExtendPresale != nil:
		return c.ExtendPresale(store, env, msg.ExtendPresale.Denom)
	case msg.LaunchShitcoin != nil:
		return c.LaunchShitcoin(store, env, msg.LaunchShitcoin.Denom)
	case msg.ClaimShitcoin != nil:
		return c.ClaimShitcoin(store, env, caller, msg.ClaimShitcoin.Denom)
	default:
		return c.SetURL(store, caller, msg.SetURL.Denom, msg.SetURL.URL)
	}
}

type ShitcoinsMsg struct {
	Page  *uint64 `json:"page,omitempty"`
	Limit *uint64 `json:"limit,omitempty"`
}

type DegenMsg struct {
	Denom string `json:"denom" validate:"required"`
	Degen string `json:"degen" validate:"required"`
}

// QueryMsg holds exactly one query.
type QueryMsg struct {
	Config           *struct{}     `json:"config,omitempty"`
	ShitcoinMetadata *DenomMsg     `json:"shitcoin_metadata,omitempty"`
	Shitcoins        *ShitcoinsMsg `json:"shitcoins,omitempty"`
	DegenMetadata    *DegenMsg     `json:"degen_metadata,omitempty"`
}

func (c *Contract) Query(r ledger.Reader, env Env, msg QueryMsg) (interface{}, error) {
	n := 0
	for _, ok := range []bool{msg.Config != nil, msg.ShitcoinMetadata != nil, msg.Shitcoins != nil, msg.DegenMetadata != nil} {
		if ok {
			n++
		}
	}
	if n != 1 {
		return nil, validationf(nil, "query message must hold exactly one query, got %d", n)
	}
	switch {
	case msg.Config != nil:
		return c.Config(r)
	case msg.ShitcoinMetadata != nil:
		return c.ShitcoinMetadata(r, env, msg.ShitcoinMetadata.Denom)
	case msg.Shitcoins != nil:
		return c.Shitcoins(r, env, msg.Shitcoins.Page, msg.Shitcoins.Limit)
	default:
		return c.DegenMetadata(r, msg.DegenMetadata.Denom, msg.DegenMetadata.Degen)
	}
}

func (m QueryMsg) String() string {
	switch {
	case m.Config != nil:
		return "config"
	case m.ShitcoinMetadata != nil:
		return fmt.Sprintf("shitcoin_metadata(%s)", m.ShitcoinMetadata.Denom)
	case m.Shitcoins != nil:
		return "shitcoins"
	case m.DegenMetadata != nil:
		return fmt.Sprintf("degen_metadata(%s, %s)", m.DegenMetadata.Denom, m.DegenMetadata.Degen)
	}
	return "empty"
}
