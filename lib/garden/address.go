package garden

import (
	"github.com/btcsuite/btcutil/bech32"
)

const DefaultAddressPrefix = "neutron"

type AddressValidator interface {
	ValidateAddress(addr string) error
}

// Bech32Validator accepts bech32 addresses carrying Prefix as their
// human-readable part.
type Bech32Validator struct {
	Prefix string
}

func (v Bech32Validator) ValidateAddress(addr string) error {
	hrp, _, err := bech32.Decode(addr)
	if err != nil {
		return validationf(ErrInvalidAddress, "invalid address %s: %v", addr, err)
	}
	if hrp != v.Prefix {
		return validationf(ErrInvalidAddress, "invalid address %s: expected prefix %s", addr, v.Prefix)
	}
	return nil
}

// EncodeAddress renders raw address bytes as bech32 under prefix.
func EncodeAddress(prefix string, raw []byte) (string, error) {
	data, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(prefix, data)
}
