package garden

import (
	"errors"
	"fmt"

	"github.com/shitcoingarden/garden.go/lib/ledger"
)

const (
	// Decimals is the precision of every asset the garden creates.
	Decimals = 6
	// FeeRateDenominator expresses presale fee rates in basis points.
	FeeRateDenominator = 10_000
	// MaxPresaleFeeRate is exclusive: rates must stay below 1%.
	MaxPresaleFeeRate = 100
)

var decimalScale = NewAmount(1_000_000)

// Params is the immutable global configuration, written once at instantiation.
type Params struct {
	PoolFactoryAddress string `json:"pool_factory_address" envconfig:"POOL_FACTORY_ADDRESS"`
	FeeRecipient       string `json:"fee_recipient" envconfig:"FEE_RECIPIENT"`
	CreateFeeDenom     string `json:"create_fee_denom" envconfig:"CREATE_FEE_DENOM" default:"untrn"`
	CreateFee          Amount `json:"create_fee" envconfig:"CREATE_FEE" default:"1000000"`
	PresaleDenom       string `json:"presale_denom" envconfig:"PRESALE_DENOM" default:"untrn"`
	PresaleLength      uint64 `json:"presale_length" envconfig:"PRESALE_LENGTH" default:"86400"`
	PresaleFeeRate     uint32 `json:"presale_fee_rate" envconfig:"PRESALE_FEE_RATE" default:"50"`
}

// Decode lets envconfig read amounts from the environment.
func (a *Amount) Decode(value string) error {
	parsed, err := ParseAmount(value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (p Params) Validate(addrs AddressValidator) error {
	if p.PresaleLength == 0 {
		return validationf(nil, "presale length must be positive")
	}
	if p.PresaleFeeRate >= MaxPresaleFeeRate {
		return validationf(nil, "presale fee rate must be below %d bps, got %d", MaxPresaleFeeRate, p.PresaleFeeRate)
	}
	if p.CreateFeeDenom == "" || p.PresaleDenom == "" {
		return validationf(nil, "fee denoms must not be empty")
	}
	if err := addrs.ValidateAddress(p.FeeRecipient); err != nil {
		return err
	}
	return addrs.ValidateAddress(p.PoolFactoryAddress)
}

// Instantiate validates params and writes the configuration cells.
func Instantiate(store ledger.Store, params Params, addrs AddressValidator) error {
	if err := params.Validate(addrs); err != nil {
		return err
	}
	ledger.SetPoolFactoryAddress(store, params.PoolFactoryAddress)
	ledger.SetPlatformFeeRecipient(store, params.FeeRecipient)
	ledger.SetCreateFeeDenom(store, params.CreateFeeDenom)
	ledger.SetCreateFee(store, params.CreateFee.Uint128())
	ledger.SetPresaleDenom(store, params.PresaleDenom)
	ledger.SetPresaleLength(store, params.PresaleLength)
	ledger.SetPresaleFeeRate(store, params.PresaleFeeRate)
	return nil
}

func IsInstantiated(r ledger.Reader) (bool, error) {
	_, err := ledger.PoolFactoryAddress(r)
	if errors.Is(err, ledger.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func LoadParams(r ledger.Reader) (Params, error) {
	var (
		p   Params
		err error
	)
	if p.PoolFactoryAddress, err = ledger.PoolFactoryAddress(r); err != nil {
		return p, loadErr("pool factory", err)
	}
	if p.FeeRecipient, err = ledger.PlatformFeeRecipient(r); err != nil {
		return p, loadErr("fee recipient", err)
	}
	if p.CreateFeeDenom, err = ledger.CreateFeeDenom(r); err != nil {
		return p, loadErr("create fee denom", err)
	}
	fee, err := ledger.CreateFee(r)
	if err != nil {
		return p, loadErr("create fee", err)
	}
	p.CreateFee = AmountFromUint128(fee)
	if p.PresaleDenom, err = ledger.PresaleDenom(r); err != nil {
		return p, loadErr("presale denom", err)
	}
	if p.PresaleLength, err = ledger.PresaleLength(r); err != nil {
		return p, loadErr("presale length", err)
	}
	if p.PresaleFeeRate, err = ledger.PresaleFeeRate(r); err != nil {
		return p, loadErr("presale fee rate", err)
	}
	return p, nil
}

func loadErr(field string, err error) error {
	if errors.Is(err, ledger.ErrNotFound) {
		return ErrNotInitialized
	}
	return fmt.Errorf("load %s: %w", field, err)
}
