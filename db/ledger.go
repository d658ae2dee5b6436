package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shitcoingarden/garden.go/db/models"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/uptrace/bun"
)

// LedgerBackend keeps the ledger, the outbox, the pool registry and the
// event log in Postgres.
type LedgerBackend struct {
	DB *bun.DB
}

func NewLedgerBackend(db *bun.DB) *LedgerBackend {
	return &LedgerBackend{DB: db}
}

// cellStore reads ledger cells through any bun connection, bound to a
// request context.
type cellStore struct {
	ctx context.Context
	db  bun.IDB
}

func (s cellStore) Get(key []byte) ([]byte, error) {
	var cell models.LedgerCell
	err := s.db.NewSelect().Model(&cell).Column("value").Where("key = ?", key).Scan(s.ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return cell.Value, nil
}

// Scan relies on bytea ordering, which compares bytes like bytes.Compare.
func (s cellStore) Scan(start []byte, limit int) (ledger.Page, error) {
	cells := []models.LedgerCell{}
	q := s.db.NewSelect().Model(&cells).Column("key", "value").Order("key ASC")
	if len(start) > 0 {
		q = q.Where("key >= ?", start)
	}
	if limit > 0 {
		q = q.Limit(limit + 1)
	}
	if err := q.Scan(s.ctx); err != nil {
		return ledger.Page{}, fmt.Errorf("scan ledger: %w", err)
	}
	page := ledger.Page{Models: make([]ledger.Model, 0, len(cells))}
	for i, c := range cells {
		if limit > 0 && i == limit {
			page.NextKey = c.Key
			break
		}
		page.Models = append(page.Models, ledger.Model{Key: c.Key, Value: c.Value})
	}
	return page, nil
}

func (b *LedgerBackend) View(ctx context.Context) ledger.Reader {
	return cellStore{ctx: ctx, db: b.DB}
}

func (b *LedgerBackend) Scanner(ctx context.Context) ledger.Scanner {
	return cellStore{ctx: ctx, db: b.DB}
}

func (b *LedgerBackend) Pools(ctx context.Context) garden.PoolQuerier {
	return poolRegistry{ctx: ctx, db: b.DB}
}

type poolRegistry struct {
	ctx context.Context
	db  bun.IDB
}

func (p poolRegistry) PairAddress(assetA, assetB string) (string, error) {
	var pool models.Pool
	err := p.db.NewSelect().Model(&pool).
		Where("asset_a = ?", assetA).
		Where("asset_b = ?", assetB).
		Limit(1).
		Scan(p.ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &garden.Error{Kind: garden.KindNotFound, ID: "pool " + assetA + "/" + assetB}
	}
	if err != nil {
		return "", err
	}
	return pool.Address, nil
}

func (b *LedgerBackend) Commit(ctx context.Context, c *service.Commit) error {
	return b.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if len(c.Writes) > 0 {
			cells := make([]models.LedgerCell, 0, len(c.Writes))
			for _, w := range c.Writes {
				cells = append(cells, models.LedgerCell{Key: w.Key, Value: w.Value})
			}
			_, err := tx.NewInsert().Model(&cells).
				On("CONFLICT (key) DO UPDATE").
				Set("value = EXCLUDED.value").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("write ledger cells: %w", err)
			}
		}
		if c.Event == nil {
			return nil
		}
		if _, err := tx.NewInsert().Model(c.Event).Exec(ctx); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		if len(c.Commands) > 0 {
			for i := range c.Commands {
				c.Commands[i].EventID = c.Event.ID
			}
			if _, err := tx.NewInsert().Model(&c.Commands).Exec(ctx); err != nil {
				return fmt.Errorf("insert outbox commands: %w", err)
			}
		}
		if len(c.Pools) > 0 {
			if _, err := tx.NewInsert().Model(&c.Pools).Exec(ctx); err != nil {
				return fmt.Errorf("register pools: %w", err)
			}
		}
		return nil
	})
}

func (b *LedgerBackend) PendingCommands(ctx context.Context, limit int) ([]models.OutboxCommand, error) {
	commands := []models.OutboxCommand{}
	err := b.DB.NewSelect().Model(&commands).
		Where("published_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Scan(ctx)
	return commands, err
}

func (b *LedgerBackend) MarkPublished(ctx context.Context, ids []int64) error {
	_, err := b.DB.NewUpdate().Model((*models.OutboxCommand)(nil)).
		Set("published_at = now()").
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	return err
}

// Events lists the event log after id, oldest first.
func (b *LedgerBackend) Events(ctx context.Context, afterID int64, limit int) ([]models.GardenEvent, error) {
	events := []models.GardenEvent{}
	err := b.DB.NewSelect().Model(&events).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Scan(ctx)
	return events, err
}
