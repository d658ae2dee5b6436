package ledger

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestU128IsLittleEndian(t *testing.T) {
	b := EncodeU128(uint128.From64(1))
	assert.Len(t, b, 16)
	assert.Equal(t, byte(1), b[0])
	assert.Equal(t, byte(0), b[15])

	v, err := DecodeU128(b)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), v.Big().Uint64())
}

func TestU64AndU32AreLittleEndian(t *testing.T) {
	assert.Equal(t, []byte{0x10, 0x0e, 0, 0, 0, 0, 0, 0}, EncodeU64(3600))
	assert.Equal(t, []byte{0x64, 0, 0, 0}, EncodeU32(100))

	v, err := DecodeU64(EncodeU64(1_700_000_000))
	assert.NoError(t, err)
	assert.Equal(t, uint64(1_700_000_000), v)
}

func TestDecodeRejectsWrongWidth(t *testing.T) {
	_, err := DecodeU128([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = DecodeU64([]byte{1})
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = DecodeU32(nil)
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = DecodeBool([]byte{1, 1})
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = DecodeString([]byte{0xff, 0xfe})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestKeyLayout(t *testing.T) {
	denom := "factory/neutron1contract/doge"
	assert.Equal(t, "PRESALE_END:factory/neutron1contract/doge", string(PresaleEndKey(denom)))
	assert.Equal(t, "PRESALE_SUBMISSION:factory/neutron1contract/doge:neutron1degen",
		string(PresaleSubmissionKey(denom, "neutron1degen")))
	assert.Equal(t, "SHITCOIN_DENOM:12", string(ShitcoinDenomKey(12)))
	assert.Equal(t, []string{"PRESALE_CLAIMED", denom, "neutron1degen"},
		SplitKey(PresaleClaimedKey(denom, "neutron1degen")))
}

func TestPageJSONIsHex(t *testing.T) {
	page := Page{
		Models:  []Model{{Key: PresaleEndKey("factory/x/abc"), Value: EncodeU64(7)}},
		NextKey: []byte("SHITCOIN"),
	}
	data, err := json.Marshal(page)
	require.NoError(t, err)
	assert.Contains(t, string(data), hex.EncodeToString(page.Models[0].Key))
	assert.Contains(t, string(data), `"next_key":"`+hex.EncodeToString([]byte("SHITCOIN"))+`"`)

	var decoded Page
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, page, decoded)

	data, err = json.Marshal(Page{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"models":[]}`, string(data))
}
