package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/db/models"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/shitcoingarden/garden.go/rabbitmq"
	"github.com/ziflex/lecho/v3"
)

type GardenService struct {
	Config         *Config
	Backend        Backend
	Clock          Clock
	Addrs          garden.AddressValidator
	Logger         *lecho.Logger
	EventPubSub    *Pubsub
	RabbitMQClient rabbitmq.Client

	// execMu serializes operations: each one sees every earlier commit.
	execMu  sync.Mutex
	relayMu sync.Mutex
}

func (svc *GardenService) contract(ctx context.Context) *garden.Contract {
	return garden.NewContract(svc.Config.ContractAddress, svc.Backend.Pools(ctx), svc.Addrs)
}

func (svc *GardenService) env() garden.Env {
	return garden.Env{Now: svc.Clock.Now()}
}

// Instantiate writes the configuration once. A ledger that is already
// configured keeps its configuration.
func (svc *GardenService) Instantiate(ctx context.Context, params garden.Params) error {
	svc.execMu.Lock()
	defer svc.execMu.Unlock()

	view := svc.Backend.View(ctx)
	ok, err := garden.IsInstantiated(view)
	if err != nil {
		return err
	}
	if ok {
		existing, err := garden.LoadParams(view)
		if err != nil {
			return err
		}
		if existing != params {
			svc.Logger.Warnf("Garden already instantiated, ignoring configured parameters %+v in favour of stored %+v", params, existing)
		}
		return nil
	}

	cache := ledger.NewCache(view)
	if err := garden.Instantiate(cache, params, svc.Addrs); err != nil {
		return err
	}
	if err := svc.Backend.Commit(ctx, &Commit{Writes: cache.Writes()}); err != nil {
		return fmt.Errorf("commit instantiate: %w", err)
	}
	svc.Logger.Infof("Garden instantiated with fee recipient %s and pool factory %s", params.FeeRecipient, params.PoolFactoryAddress)
	return nil
}

// Execute runs one operation and commits its writes, commands and event
// together. Nothing is persisted or published when it fails. Events are
// published in commit order.
func (svc *GardenService) Execute(ctx context.Context, caller garden.Caller, msg garden.ExecuteMsg) (*garden.Response, error) {
	svc.execMu.Lock()
	defer svc.execMu.Unlock()

	env := svc.env()
	cache := ledger.NewCache(svc.Backend.View(ctx))
	res, err := svc.contract(ctx).Execute(cache, env, caller, msg)
	if err != nil {
		return nil, err
	}
	commit, err := newCommit(cache.Writes(), res, env, caller)
	if err == nil {
		err = svc.Backend.Commit(ctx, commit)
	}
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", res.Event.Kind, err)
	}

	// Publish never blocks, so it stays under execMu
	svc.EventPubSub.Publish(common.TopicAllEvents, res.Event)
	svc.EventPubSub.Publish(string(res.Event.Kind), res.Event)
	svc.Logger.Infof("Executed %s on %s by %s at %d", res.Event.Kind, res.Event.Denom, caller.Sender, env.Now)
	return res, nil
}

func (svc *GardenService) Query(ctx context.Context, msg garden.QueryMsg) (interface{}, error) {
	return svc.contract(ctx).Query(svc.Backend.View(ctx), svc.env(), msg)
}

func (svc *GardenService) GardenConfig(ctx context.Context) (garden.Params, error) {
	return svc.contract(ctx).Config(svc.Backend.View(ctx))
}

func (svc *GardenService) ShitcoinMetadata(ctx context.Context, denom string) (garden.ShitcoinMetadata, error) {
	return svc.contract(ctx).ShitcoinMetadata(svc.Backend.View(ctx), svc.env(), denom)
}

func (svc *GardenService) Shitcoins(ctx context.Context, page, limit *uint64) (garden.ShitcoinPage, error) {
	return svc.contract(ctx).Shitcoins(svc.Backend.View(ctx), svc.env(), page, limit)
}

func (svc *GardenService) DegenMetadata(ctx context.Context, denom, degen string) (garden.DegenMetadata, error) {
	return svc.contract(ctx).DegenMetadata(svc.Backend.View(ctx), denom, degen)
}

// Denom maps a ticker to the denom this garden issues for it.
func (svc *GardenService) Denom(ticker string) string {
	return garden.Denom(svc.Config.ContractAddress, ticker)
}

func (svc *GardenService) Now() uint64 {
	return svc.Clock.Now()
}

func (svc *GardenService) Scan(ctx context.Context, start []byte, limit int) (ledger.Page, error) {
	return svc.Backend.Scanner(ctx).Scan(start, limit)
}

// Raw returns the value stored under key. ok is false when the key is
// absent, which is not the same as a present empty value.
func (svc *GardenService) Raw(ctx context.Context, key []byte) (value []byte, ok bool, err error) {
	value, err = svc.Backend.View(ctx).Get(key)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (svc *GardenService) Events(ctx context.Context, afterID int64, limit int) ([]models.GardenEvent, error) {
	return svc.Backend.Events(ctx, afterID, limit)
}
