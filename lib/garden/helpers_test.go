package garden

import (
	"bytes"
	"testing"

	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T, b byte) string {
	addr, err := EncodeAddress(DefaultAddressPrefix, bytes.Repeat([]byte{b}, 20))
	require.NoError(t, err)
	return addr
}

type fakePools map[[2]string]string

func (f fakePools) PairAddress(a, b string) (string, error) {
	addr, ok := f[[2]string{a, b}]
	if !ok {
		return "", notFound(a + "/" + b)
	}
	return addr, nil
}

type fixture struct {
	store    *ledger.MemStore
	contract *Contract
	pools    fakePools
	params   Params
	creator  string
	alice    string
	bob      string
}

func newFixture(t *testing.T) *fixture {
	addrs := Bech32Validator{Prefix: DefaultAddressPrefix}
	f := &fixture{
		store:   ledger.NewMemStore(),
		pools:   fakePools{},
		creator: testAddress(t, 1),
		alice:   testAddress(t, 2),
		bob:     testAddress(t, 3),
	}
	f.params = Params{
		PoolFactoryAddress: testAddress(t, 10),
		FeeRecipient:       testAddress(t, 11),
		CreateFeeDenom:     "untrn",
		CreateFee:          NewAmount(1_000_000),
		PresaleDenom:       "untrn",
		PresaleLength:      3600,
		PresaleFeeRate:     50,
	}
	f.contract = NewContract(testAddress(t, 20), f.pools, addrs)
	require.NoError(t, Instantiate(f.store, f.params, addrs))
	return f
}

// run executes op on a staged cache and applies its writes only on success.
func (f *fixture) run(op func(ledger.Store) (*Response, error)) (*Response, error) {
	cache := ledger.NewCache(f.store)
	res, err := op(cache)
	if err != nil {
		return nil, err
	}
	f.store.Apply(cache.Writes())
	return res, nil
}

func (f *fixture) create(t *testing.T, now uint64, ticker string, supply uint64) string {
	res, err := f.run(func(s ledger.Store) (*Response, error) {
		return f.contract.CreateShitcoin(s, Env{Now: now}, Caller{
			Sender: f.creator,
			Funds:  []Coin{NewCoin("untrn", NewAmount(1_000_000))},
		}, ticker, ticker+" coin", NewAmount(supply))
	})
	require.NoError(t, err)
	f.pools[[2]string{res.Event.Denom, "untrn"}] = "pool-" + ticker
	return res.Event.Denom
}

func (f *fixture) enter(now uint64, denom, who string, amount uint64) (*Response, error) {
	return f.run(func(s ledger.Store) (*Response, error) {
		return f.contract.EnterPresale(s, Env{Now: now}, Caller{
			Sender: who,
			Funds:  []Coin{NewCoin("untrn", NewAmount(amount))},
		}, denom)
	})
}

func (f *fixture) launch(now uint64, denom string) (*Response, error) {
	return f.run(func(s ledger.Store) (*Response, error) {
		return f.contract.LaunchShitcoin(s, Env{Now: now}, denom)
	})
}

func (f *fixture) claim(now uint64, denom, who string) (*Response, error) {
	return f.run(func(s ledger.Store) (*Response, error) {
		return f.contract.ClaimShitcoin(s, Env{Now: now}, Caller{Sender: who}, denom)
	})
}

func (f *fixture) extend(now uint64, denom string) (*Response, error) {
	return f.run(func(s ledger.Store) (*Response, error) {
		return f.contract.ExtendPresale(s, Env{Now: now}, denom)
	})
}
