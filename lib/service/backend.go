package service

import (
	"context"
	"fmt"

	"github.com/shitcoingarden/garden.go/db/models"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/ledger"
)

// Backend persists the ledger together with everything a committed
// operation produced.
type Backend interface {
	// View reads committed cells.
	View(ctx context.Context) ledger.Reader
	Scanner(ctx context.Context) ledger.Scanner
	Pools(ctx context.Context) garden.PoolQuerier
	// Commit applies all parts of c or none of them.
	Commit(ctx context.Context, c *Commit) error
	PendingCommands(ctx context.Context, limit int) ([]models.OutboxCommand, error)
	MarkPublished(ctx context.Context, ids []int64) error
	// Events lists the event log after afterID, oldest first.
	Events(ctx context.Context, afterID int64, limit int) ([]models.GardenEvent, error)
}

// Commit is the unit of work of one operation. Event is nil when only
// configuration cells are written.
type Commit struct {
	Writes   []ledger.Model
	Event    *models.GardenEvent
	Commands []models.OutboxCommand
	Pools    []models.Pool
}

// PoolAddress is the address the pool factory assigns to the pool of a pair.
func PoolAddress(factory, assetA, assetB string) string {
	return fmt.Sprintf("%s/pool/%s/%s", factory, assetA, assetB)
}

func newCommit(writes []ledger.Model, res *garden.Response, env garden.Env, caller garden.Caller) (*Commit, error) {
	envelopes, err := garden.WrapAll(res.Commands)
	if err != nil {
		return nil, err
	}
	c := &Commit{
		Writes: writes,
		Event: &models.GardenEvent{
			Kind:      string(res.Event.Kind),
			Denom:     res.Event.Denom,
			Degen:     res.Event.Participant,
			Sender:    caller.Sender,
			BlockTime: int64(env.Now),
		},
	}
	for i, e := range envelopes {
		c.Commands = append(c.Commands, models.OutboxCommand{Position: i, Kind: string(e.Kind), Payload: e.Payload})
	}
	for _, cmd := range res.Commands {
		if cp, ok := cmd.(garden.CreatePool); ok {
			c.Pools = append(c.Pools, models.Pool{
				Factory: cp.Factory,
				AssetA:  cp.AssetA,
				AssetB:  cp.AssetB,
				Address: PoolAddress(cp.Factory, cp.AssetA, cp.AssetB),
			})
		}
	}
	return c, nil
}
