package ledger

import (
	"errors"

	"lukechampine.com/uint128"
)

func getString(r Reader, key []byte) (string, error) {
	b, err := r.Get(key)
	if err != nil {
		return "", err
	}
	return DecodeString(b)
}

func getU128(r Reader, key []byte) (uint128.Uint128, error) {
	b, err := r.Get(key)
	if err != nil {
		return uint128.Zero, err
	}
	return DecodeU128(b)
}

func getU64(r Reader, key []byte) (uint64, error) {
	b, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	return DecodeU64(b)
}

func getU32(r Reader, key []byte) (uint32, error) {
	b, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	return DecodeU32(b)
}

// getBool treats an absent cell as false.
func getBool(r Reader, key []byte) (bool, error) {
	b, err := r.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return DecodeBool(b)
}

// Global configuration.

func PoolFactoryAddress(r Reader) (string, error) { return getString(r, Key(TagPoolFactory)) }
func SetPoolFactoryAddress(s Store, v string)     { s.Set(Key(TagPoolFactory), []byte(v)) }

func PlatformFeeRecipient(r Reader) (string, error) {
	return getString(r, Key(TagPlatformFeeRecipient))
}
func SetPlatformFeeRecipient(s Store, v string) { s.Set(Key(TagPlatformFeeRecipient), []byte(v)) }

func CreateFeeDenom(r Reader) (string, error) { return getString(r, Key(TagCreateFeeDenom)) }
func SetCreateFeeDenom(s Store, v string)     { s.Set(Key(TagCreateFeeDenom), []byte(v)) }

func CreateFee(r Reader) (uint128.Uint128, error) { return getU128(r, Key(TagCreateFee)) }
func SetCreateFee(s Store, v uint128.Uint128)     { s.Set(Key(TagCreateFee), EncodeU128(v)) }

func PresaleDenom(r Reader) (string, error) { return getString(r, Key(TagPresaleDenom)) }
func SetPresaleDenom(s Store, v string)     { s.Set(Key(TagPresaleDenom), []byte(v)) }

func PresaleLength(r Reader) (uint64, error) { return getU64(r, Key(TagPresaleLength)) }
func SetPresaleLength(s Store, v uint64)     { s.Set(Key(TagPresaleLength), EncodeU64(v)) }

func PresaleFeeRate(r Reader) (uint32, error) { return getU32(r, Key(TagPresaleFeeRate)) }
func SetPresaleFeeRate(s Store, v uint32)     { s.Set(Key(TagPresaleFeeRate), EncodeU32(v)) }

// Per-asset presale state.

func PresaleEnd(r Reader, denom string) (uint64, error) { return getU64(r, PresaleEndKey(denom)) }
func SetPresaleEnd(s Store, denom string, v uint64)     { s.Set(PresaleEndKey(denom), EncodeU64(v)) }

func PresaleRaise(r Reader, denom string) (uint128.Uint128, error) {
	return getU128(r, PresaleRaiseKey(denom))
}
func SetPresaleRaise(s Store, denom string, v uint128.Uint128) {
	s.Set(PresaleRaiseKey(denom), EncodeU128(v))
}

// PresaleSubmission is zero for a participant that never entered.
func PresaleSubmission(r Reader, denom, participant string) (uint128.Uint128, error) {
	v, err := getU128(r, PresaleSubmissionKey(denom, participant))
	if errors.Is(err, ErrNotFound) {
		return uint128.Zero, nil
	}
	return v, err
}
func SetPresaleSubmission(s Store, denom, participant string, v uint128.Uint128) {
	s.Set(PresaleSubmissionKey(denom, participant), EncodeU128(v))
}

func PresaleClaimed(r Reader, denom, participant string) (bool, error) {
	return getBool(r, PresaleClaimedKey(denom, participant))
}
func SetPresaleClaimed(s Store, denom, participant string, v bool) {
	s.Set(PresaleClaimedKey(denom, participant), EncodeBool(v))
}

// Asset registry.

// ShitcoinCount is zero before the first asset is created.
func ShitcoinCount(r Reader) (uint64, error) {
	v, err := getU64(r, Key(TagShitcoinCount))
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return v, err
}
func SetShitcoinCount(s Store, v uint64) { s.Set(Key(TagShitcoinCount), EncodeU64(v)) }

func ShitcoinDenom(r Reader, index uint64) (string, error) {
	return getString(r, ShitcoinDenomKey(index))
}
func SetShitcoinDenom(s Store, index uint64, denom string) {
	s.Set(ShitcoinDenomKey(index), []byte(denom))
}

func ShitcoinCreator(r Reader, denom string) (string, error) {
	return getString(r, ShitcoinCreatorKey(denom))
}
func SetShitcoinCreator(s Store, denom, v string) { s.Set(ShitcoinCreatorKey(denom), []byte(v)) }

func ShitcoinTicker(r Reader, denom string) (string, error) {
	return getString(r, ShitcoinTickerKey(denom))
}
func SetShitcoinTicker(s Store, denom, v string) { s.Set(ShitcoinTickerKey(denom), []byte(v)) }

func ShitcoinName(r Reader, denom string) (string, error) {
	return getString(r, ShitcoinNameKey(denom))
}
func SetShitcoinName(s Store, denom, v string) { s.Set(ShitcoinNameKey(denom), []byte(v)) }

func ShitcoinURL(r Reader, denom string) (string, error) {
	return getString(r, ShitcoinURLKey(denom))
}
func SetShitcoinURL(s Store, denom, v string) { s.Set(ShitcoinURLKey(denom), []byte(v)) }

func ShitcoinSupply(r Reader, denom string) (uint128.Uint128, error) {
	return getU128(r, ShitcoinSupplyKey(denom))
}
func SetShitcoinSupply(s Store, denom string, v uint128.Uint128) {
	s.Set(ShitcoinSupplyKey(denom), EncodeU128(v))
}

func ShitcoinLaunched(r Reader, denom string) (bool, error) {
	return getBool(r, ShitcoinLaunchedKey(denom))
}
func SetShitcoinLaunched(s Store, denom string, v bool) {
	s.Set(ShitcoinLaunchedKey(denom), EncodeBool(v))
}
