package ledger

import (
	"bytes"
	"strconv"
	"strings"
)

// Storage tags. The key layout is read byte-for-byte by external observers,
// so these values must never change.
const (
	TagPoolFactory          = "POOL_FACTORY"
	TagPlatformFeeRecipient = "PLATFORM_FEE_RECIPIENT"

	TagCreateFeeDenom = "CREATE_FEE_DENOM"
	TagCreateFee      = "CREATE_FEE"

	TagPresaleDenom      = "PRESALE_DENOM"
	TagPresaleLength     = "PRESALE_LENGTH"
	TagPresaleFeeRate    = "PRESALE_FEE_RATE"
	TagPresaleEnd        = "PRESALE_END"
	TagPresaleRaise      = "PRESALE_RAISE"
	TagPresaleSubmission = "PRESALE_SUBMISSION"
	TagPresaleClaimed    = "PRESALE_CLAIMED"

	TagShitcoinCount    = "SHITCOIN_COUNT"
	TagShitcoinDenom    = "SHITCOIN_DENOM"
	TagShitcoinCreator  = "SHITCOIN_CREATOR"
	TagShitcoinTicker   = "SHITCOIN_TICKER"
	TagShitcoinName     = "SHITCOIN_NAME"
	TagShitcoinURL      = "SHITCOIN_URL"
	TagShitcoinSupply   = "SHITCOIN_SUPPLY"
	TagShitcoinLaunched = "SHITCOIN_LAUNCHED"
)

// Delimiter separates key segments.
const Delimiter = ':'

// Key joins segments with the delimiter: tag ':' denom [':' participant-or-index].
func Key(segments ...string) []byte {
	return []byte(strings.Join(segments, string(Delimiter)))
}

// IndexSegment renders a creation index the way it appears inside a key.
func IndexSegment(index uint64) string {
	return strconv.FormatUint(index, 10)
}

// SplitKey is the inverse of Key.
func SplitKey(key []byte) []string {
	parts := bytes.Split(key, []byte{Delimiter})
	segments := make([]string, len(parts))
	for i, p := range parts {
		segments[i] = string(p)
	}
	return segments
}

func PresaleEndKey(denom string) []byte   { return Key(TagPresaleEnd, denom) }
func PresaleRaiseKey(denom string) []byte { return Key(TagPresaleRaise, denom) }
func PresaleSubmissionKey(denom, participant string) []byte {
	return Key(TagPresaleSubmission, denom, participant)
}
func PresaleClaimedKey(denom, participant string) []byte {
	return Key(TagPresaleClaimed, denom, participant)
}
func ShitcoinDenomKey(index uint64) []byte   { return Key(TagShitcoinDenom, IndexSegment(index)) }
func ShitcoinCreatorKey(denom string) []byte { return Key(TagShitcoinCreator, denom) }
func ShitcoinTickerKey(denom string) []byte  { return Key(TagShitcoinTicker, denom) }
func ShitcoinNameKey(denom string) []byte    { return Key(TagShitcoinName, denom) }
func ShitcoinURLKey(denom string) []byte     { return Key(TagShitcoinURL, denom) }
func ShitcoinSupplyKey(denom string) []byte  { return Key(TagShitcoinSupply, denom) }
func ShitcoinLaunchedKey(denom string) []byte {
	return Key(TagShitcoinLaunched, denom)
}
