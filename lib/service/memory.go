package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shitcoingarden/garden.go/db/models"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/ledger"
)

// MemoryBackend keeps everything in process. It backs tests and local runs
// with DATABASE_URI=memory://.
type MemoryBackend struct {
	mu       sync.Mutex
	store    *ledger.MemStore
	events   []models.GardenEvent
	commands []models.OutboxCommand
	pools    map[[2]string]models.Pool

	// BeforeCommit, when set, can veto a commit.
	BeforeCommit func(*Commit) error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		store: ledger.NewMemStore(),
		pools: map[[2]string]models.Pool{},
	}
}

func (b *MemoryBackend) View(ctx context.Context) ledger.Reader     { return b.store }
func (b *MemoryBackend) Scanner(ctx context.Context) ledger.Scanner { return b.store }

func (b *MemoryBackend) Pools(ctx context.Context) garden.PoolQuerier {
	return memoryPools{b}
}

type memoryPools struct{ b *MemoryBackend }

func (p memoryPools) PairAddress(assetA, assetB string) (string, error) {
	p.b.mu.Lock()
	defer p.b.mu.Unlock()
	pool, ok := p.b.pools[[2]string{assetA, assetB}]
	if !ok {
		return "", &garden.Error{Kind: garden.KindNotFound, ID: "pool " + assetA + "/" + assetB}
	}
	return pool.Address, nil
}

func (b *MemoryBackend) Commit(ctx context.Context, c *Commit) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.BeforeCommit != nil {
		if err := b.BeforeCommit(c); err != nil {
			return err
		}
	}
	now := time.Now()
	b.store.Apply(c.Writes)
	eventID := int64(0)
	if c.Event != nil {
		eventID = int64(len(b.events) + 1)
		e := *c.Event
		e.ID, e.CreatedAt = eventID, now
		b.events = append(b.events, e)
	}
	for _, cmd := range c.Commands {
		cmd.ID = int64(len(b.commands) + 1)
		cmd.EventID = eventID
		cmd.CreatedAt = now
		b.commands = append(b.commands, cmd)
	}
	for _, p := range c.Pools {
		p.ID = int64(len(b.pools) + 1)
		p.CreatedAt = now
		b.pools[[2]string{p.AssetA, p.AssetB}] = p
	}
	return nil
}

func (b *MemoryBackend) PendingCommands(ctx context.Context, limit int) ([]models.OutboxCommand, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := []models.OutboxCommand{}
	for _, cmd := range b.commands {
		if cmd.PublishedAt.IsZero() {
			pending = append(pending, cmd)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (b *MemoryBackend) MarkPublished(ctx context.Context, ids []int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	for _, id := range ids {
		i := sort.Search(len(b.commands), func(i int) bool { return b.commands[i].ID >= id })
		if i < len(b.commands) && b.commands[i].ID == id {
			b.commands[i].PublishedAt.Time = now
		}
	}
	return nil
}

func (b *MemoryBackend) Events(ctx context.Context, afterID int64, limit int) ([]models.GardenEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := []models.GardenEvent{}
	for _, e := range b.events {
		if e.ID > afterID {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

// Commands returns every outbox command, published or not.
func (b *MemoryBackend) Commands() []models.OutboxCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.OutboxCommand(nil), b.commands...)
}
