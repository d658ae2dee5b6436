package mirror

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"
)

const start = uint64(1_700_000_000)

func address(t *testing.T, b byte) string {
	addr, err := garden.EncodeAddress(garden.DefaultAddressPrefix, bytes.Repeat([]byte{b}, 20))
	require.NoError(t, err)
	return addr
}

// host is a garden host on the in-memory backend.
type host struct {
	svc     *service.GardenService
	backend *service.MemoryBackend
	clock   *service.ManualClock
	creator string
	alice   string
	bob     string
}

func newHost(t *testing.T) *host {
	h := &host{
		backend: service.NewMemoryBackend(),
		clock:   service.NewManualClock(start),
		creator: address(t, 1),
		alice:   address(t, 2),
		bob:     address(t, 3),
	}
	h.svc = &service.GardenService{
		Config:      &service.Config{ContractAddress: address(t, 20)},
		Backend:     h.backend,
		Clock:       h.clock,
		Addrs:       garden.Bech32Validator{Prefix: garden.DefaultAddressPrefix},
		Logger:      lecho.New(io.Discard),
		EventPubSub: service.NewPubsub(),
	}
	require.NoError(t, h.svc.Instantiate(context.Background(), garden.Params{
		PoolFactoryAddress: address(t, 10),
		FeeRecipient:       address(t, 11),
		CreateFeeDenom:     "untrn",
		CreateFee:          garden.NewAmount(1_000_000),
		PresaleDenom:       "untrn",
		PresaleLength:      3600,
		PresaleFeeRate:     50,
	}))
	return h
}

func (h *host) exec(t *testing.T, sender string, msg garden.ExecuteMsg, funds ...garden.Coin) garden.Event {
	res, err := h.svc.Execute(context.Background(), garden.Caller{Sender: sender, Funds: funds}, msg)
	require.NoError(t, err)
	return res.Event
}

func (h *host) create(t *testing.T, ticker string) garden.Event {
	return h.exec(t, h.creator, garden.ExecuteMsg{CreateShitcoin: &garden.CreateShitcoinMsg{
		Ticker: ticker, Name: ticker + " coin", Supply: garden.NewAmount(1_000_000),
	}}, garden.NewCoin("untrn", garden.NewAmount(1_000_000)))
}

func (h *host) enter(t *testing.T, sender, denom string, amount uint64) garden.Event {
	return h.exec(t, sender, garden.ExecuteMsg{EnterPresale: &garden.DenomMsg{Denom: denom}},
		garden.NewCoin("untrn", garden.NewAmount(amount)))
}

func (h *host) source() *LedgerSource {
	return &LedgerSource{Ledger: h.backend, Clock: h.clock}
}

func (h *host) engine(m *Mirror, feed Feed, pub Publisher) *Engine {
	return &Engine{
		Mirror:    m,
		Source:    h.source(),
		Feed:      feed,
		Publisher: pub,
		Logger:    lecho.New(io.Discard),
		PageLimit: 3,
	}
}

type recorder struct {
	updates chan Update
}

func newRecorder() *recorder { return &recorder{updates: make(chan Update, 100)} }

func (r *recorder) Publish(u Update) { r.updates <- u }

// chanFeed hands every subscription channel to the test.
type chanFeed struct {
	subs chan chan garden.Event
}

func newChanFeed() *chanFeed { return &chanFeed{subs: make(chan chan garden.Event, 10)} }

func (f *chanFeed) Subscribe(ctx context.Context) (<-chan garden.Event, error) {
	ch := make(chan garden.Event, 10)
	f.subs <- ch
	return ch, nil
}

// flakySource fails on demand.
type flakySource struct {
	Source
	mu       sync.Mutex
	scanErr  error
	clockErr error
}

func (s *flakySource) Scan(ctx context.Context, start []byte, limit int) (ledger.Page, error) {
	s.mu.Lock()
	err := s.scanErr
	s.mu.Unlock()
	if err != nil {
		return ledger.Page{}, err
	}
	return s.Source.Scan(ctx, start, limit)
}

func (s *flakySource) LatestBlockTime(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	err := s.clockErr
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return s.Source.LatestBlockTime(ctx)
}

func (s *flakySource) failClock(err error) {
	s.mu.Lock()
	s.clockErr = err
	s.mu.Unlock()
}
