package garden

import (
	"strconv"
	"testing"

	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }

func TestShitcoinMetadata(t *testing.T) {
	f := newFixture(t)
	denom := f.create(t, start, "DOGE", 7)

	m, err := f.contract.ShitcoinMetadata(f.store, Env{Now: start + 1}, denom)
	require.NoError(t, err)
	assert.Equal(t, ShitcoinMetadata{
		Denom:        denom,
		Creator:      f.creator,
		Ticker:       "DOGE",
		Name:         "DOGE coin",
		PresaleEnd:   start + 3600,
		PresaleRaise: NewAmount(0),
		Supply:       NewAmount(7_000_000),
	}, m)

	m, err = f.contract.ShitcoinMetadata(f.store, Env{Now: start + 3600}, denom)
	require.NoError(t, err)
	assert.True(t, m.Ended)

	_, err = f.contract.ShitcoinMetadata(f.store, Env{Now: start}, "factory/x/y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShitcoinsPaging(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.create(t, start, "T"+strconv.Itoa(i), 1)
	}
	env := Env{Now: start}

	page, err := f.contract.Shitcoins(f.store, env, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), page.Page)
	assert.Equal(t, uint64(10), page.Limit)
	assert.Equal(t, uint64(25), page.Total)
	require.Len(t, page.Shitcoins, 10)
	assert.Equal(t, "T0", page.Shitcoins[0].Ticker)

	page, err = f.contract.Shitcoins(f.store, env, u64(2), nil)
	require.NoError(t, err)
	require.Len(t, page.Shitcoins, 5)
	assert.Equal(t, "T20", page.Shitcoins[0].Ticker)
	assert.Equal(t, "T24", page.Shitcoins[4].Ticker)

	page, err = f.contract.Shitcoins(f.store, env, u64(3), nil)
	require.NoError(t, err)
	assert.Empty(t, page.Shitcoins)

	page, err = f.contract.Shitcoins(f.store, env, u64(0), u64(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(25), page.Limit)
	assert.Len(t, page.Shitcoins, 25)

	page, err = f.contract.Shitcoins(f.store, env, u64(1), u64(0))
	require.NoError(t, err)
	assert.Empty(t, page.Shitcoins)

	page, err = f.contract.Shitcoins(f.store, env, u64(1<<63), u64(7))
	require.NoError(t, err)
	assert.Empty(t, page.Shitcoins)
}

func TestShitcoinsEmpty(t *testing.T) {
	f := newFixture(t)
	page, err := f.contract.Shitcoins(f.store, Env{Now: start}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), page.Limit)
	assert.Empty(t, page.Shitcoins)
}

func TestDegenMetadata(t *testing.T) {
	f := newFixture(t)
	denom := f.create(t, start, "DOGE", 1)

	m, err := f.contract.DegenMetadata(f.store, denom, f.alice)
	require.NoError(t, err)
	assert.Equal(t, DegenMetadata{PresaleSubmission: NewAmount(0)}, m)

	_, err = f.enter(start, denom, f.alice, 10_000)
	require.NoError(t, err)
	m, err = f.contract.DegenMetadata(f.store, denom, f.alice)
	require.NoError(t, err)
	assert.Equal(t, NewAmount(9_950), m.PresaleSubmission)

	_, err = f.contract.DegenMetadata(f.store, "factory/x/y", f.alice)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfigQuery(t *testing.T) {
	f := newFixture(t)
	res, err := f.contract.Query(f.store, Env{}, QueryMsg{Config: &struct{}{}})
	require.NoError(t, err)
	assert.Equal(t, f.params, res)

	_, err = f.contract.Query(f.store, Env{}, QueryMsg{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInstantiateValidation(t *testing.T) {
	f := newFixture(t)
	addrs := Bech32Validator{Prefix: DefaultAddressPrefix}

	p := f.params
	p.PresaleLength = 0
	assert.ErrorIs(t, Instantiate(ledger.NewMemStore(), p, addrs), ErrValidation)

	p = f.params
	p.PresaleFeeRate = 100
	assert.ErrorIs(t, Instantiate(ledger.NewMemStore(), p, addrs), ErrValidation)

	p = f.params
	p.FeeRecipient = "cosmos1notours"
	assert.ErrorIs(t, Instantiate(ledger.NewMemStore(), p, addrs), ErrInvalidAddress)

	empty := ledger.NewMemStore()
	ok, err := IsInstantiated(empty)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = LoadParams(empty)
	assert.ErrorIs(t, err, ErrNotInitialized)

	loaded, err := LoadParams(f.store)
	require.NoError(t, err)
	assert.Equal(t, f.params, loaded)
}

func TestBech32Validator(t *testing.T) {
	v := Bech32Validator{Prefix: "neutron"}
	assert.NoError(t, v.ValidateAddress(testAddress(t, 9)))

	other, err := EncodeAddress("cosmos", make([]byte, 20))
	require.NoError(t, err)
	assert.ErrorIs(t, v.ValidateAddress(other), ErrInvalidAddress)
	assert.ErrorIs(t, v.ValidateAddress("neutron1garbage"), ErrInvalidAddress)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	cmd := ProvideLiquidity{Pool: "p", Assets: []Coin{NewCoin("a", NewAmount(1)), NewCoin("b", NewAmount(2))}}
	env, err := Wrap(cmd)
	require.NoError(t, err)
	assert.Equal(t, CommandProvideLiquidity, env.Kind)

	back, err := env.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, &cmd, back)

	_, err = Envelope{Kind: "nope"}.Unwrap()
	assert.Error(t, err)
}
