package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/shitcoingarden/garden.go/rabbitmq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"
)

const start = uint64(1_700_000_000)

func address(t *testing.T, b byte) string {
	addr, err := garden.EncodeAddress(garden.DefaultAddressPrefix, bytes.Repeat([]byte{b}, 20))
	require.NoError(t, err)
	return addr
}

func newTestService(t *testing.T) (*GardenService, *MemoryBackend, *ManualClock) {
	backend := NewMemoryBackend()
	clock := NewManualClock(start)
	svc := &GardenService{
		Config: &Config{
			ContractAddress:      address(t, 20),
			OutboxRelayBatchSize: 100,
		},
		Backend:     backend,
		Clock:       clock,
		Addrs:       garden.Bech32Validator{Prefix: garden.DefaultAddressPrefix},
		Logger:      lecho.New(io.Discard),
		EventPubSub: NewPubsub(),
	}
	params := garden.Params{
		PoolFactoryAddress: address(t, 10),
		FeeRecipient:       address(t, 11),
		CreateFeeDenom:     "untrn",
		CreateFee:          garden.NewAmount(1_000_000),
		PresaleDenom:       "untrn",
		PresaleLength:      3600,
		PresaleFeeRate:     50,
	}
	require.NoError(t, svc.Instantiate(context.Background(), params))
	return svc, backend, clock
}

func createMsg(ticker string) garden.ExecuteMsg {
	return garden.ExecuteMsg{CreateShitcoin: &garden.CreateShitcoinMsg{Ticker: ticker, Name: ticker, Supply: garden.NewAmount(1_000_000)}}
}

func fee() []garden.Coin {
	return []garden.Coin{garden.NewCoin("untrn", garden.NewAmount(1_000_000))}
}

func TestExecuteCommitsEverythingTogether(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()
	creator := address(t, 1)

	events := make(chan garden.Event, 1)
	_, err := svc.EventPubSub.Subscribe(common.TopicAllEvents, events)
	require.NoError(t, err)

	res, err := svc.Execute(ctx, garden.Caller{Sender: creator, Funds: fee()}, createMsg("DOGE"))
	require.NoError(t, err)
	denom := svc.Denom("DOGE")
	assert.Equal(t, garden.Event{Kind: garden.EventShitcoinCreated, Denom: denom}, res.Event)
	assert.Equal(t, res.Event, <-events)

	logged, err := backend.Events(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, "shitcoin-created", logged[0].Kind)
	assert.Equal(t, creator, logged[0].Sender)
	assert.Equal(t, int64(start), logged[0].BlockTime)

	commands := backend.Commands()
	require.Len(t, commands, 5)
	assert.Equal(t, "mint_denom", commands[0].Kind)
	assert.Equal(t, "transfer", commands[4].Kind)
	assert.Equal(t, logged[0].ID, commands[0].EventID)

	pool, err := backend.Pools(ctx).PairAddress(denom, "untrn")
	require.NoError(t, err)
	assert.Equal(t, PoolAddress(address(t, 10), denom, "untrn"), pool)
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	svc, backend, clock := newTestService(t)
	ctx := context.Background()
	_, err := svc.Execute(ctx, garden.Caller{Sender: address(t, 1), Funds: fee()}, createMsg("DOGE"))
	require.NoError(t, err)
	denom := svc.Denom("DOGE")

	before, err := backend.Scanner(ctx).Scan(nil, 0)
	require.NoError(t, err)

	clock.Advance(3600)
	_, err = svc.Execute(ctx, garden.Caller{Sender: address(t, 2), Funds: []garden.Coin{garden.NewCoin("untrn", garden.NewAmount(1_000))}},
		garden.ExecuteMsg{EnterPresale: &garden.DenomMsg{Denom: denom}})
	assert.ErrorIs(t, err, garden.ErrTooLate)

	after, err := backend.Scanner(ctx).Scan(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, backend.Commands(), 5)
}

func TestCommitFailureLeavesNoTrace(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()
	backend.BeforeCommit = func(*Commit) error { return errors.New("disk on fire") }

	events := make(chan garden.Event, 1)
	_, err := svc.EventPubSub.Subscribe(common.TopicAllEvents, events)
	require.NoError(t, err)

	_, err = svc.Execute(ctx, garden.Caller{Sender: address(t, 1), Funds: fee()}, createMsg("DOGE"))
	assert.ErrorContains(t, err, "disk on fire")

	count, err := ledger.ShitcoinCount(backend.View(ctx))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	assert.Empty(t, events)
}

func TestExecuteIsSerialized(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()
	denomFor := func(i int) string { return string(rune('A' + i)) }

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Execute(ctx, garden.Caller{Sender: address(t, 1), Funds: fee()}, createMsg(denomFor(i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, err := ledger.ShitcoinCount(backend.View(ctx))
	require.NoError(t, err)
	assert.Equal(t, uint64(20), count)
	seen := map[string]bool{}
	for i := uint64(0); i < count; i++ {
		denom, err := ledger.ShitcoinDenom(backend.View(ctx), i)
		require.NoError(t, err)
		seen[denom] = true
	}
	assert.Len(t, seen, 20)
}

func TestConcurrentExecutePublishesInCommitOrder(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()
	events := make(chan garden.Event, 50)
	_, err := svc.EventPubSub.Subscribe(common.TopicAllEvents, events)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Execute(ctx, garden.Caller{Sender: address(t, 1), Funds: fee()}, createMsg(string(rune('A'+i))))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	logged, err := backend.Events(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, logged, 20)
	for _, e := range logged {
		published := <-events
		assert.Equal(t, e.Denom, published.Denom)
	}
}

func TestInstantiateOnlyOnce(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()

	before, err := garden.LoadParams(backend.View(ctx))
	require.NoError(t, err)

	changed := before
	changed.PresaleLength = 1
	require.NoError(t, svc.Instantiate(ctx, changed))

	after, err := garden.LoadParams(backend.View(ctx))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

type fakeRabbit struct {
	rabbitmq.Client
	published []rabbitmq.OutboundCommand
	failAt    int
}

func (f *fakeRabbit) PublishCommand(ctx context.Context, cmd rabbitmq.OutboundCommand) error {
	if f.failAt > 0 && len(f.published)+1 == f.failAt {
		f.failAt = 0
		return errors.New("broker down")
	}
	f.published = append(f.published, cmd)
	return nil
}

func TestRelayOutboxKeepsOrderAcrossFailures(t *testing.T) {
	svc, backend, _ := newTestService(t)
	ctx := context.Background()
	rabbit := &fakeRabbit{failAt: 3}
	svc.RabbitMQClient = rabbit

	_, err := svc.Execute(ctx, garden.Caller{Sender: address(t, 1), Funds: fee()}, createMsg("DOGE"))
	require.NoError(t, err)

	n, err := svc.RelayOutbox(ctx)
	assert.Error(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.RelayOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.Len(t, rabbit.published, 5)
	for i, cmd := range rabbit.published {
		assert.Equal(t, int64(i+1), cmd.ID)
	}
	pending, err := backend.PendingCommands(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
