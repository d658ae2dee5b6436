package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// LedgerCell : one key/value cell of the settlement ledger
type LedgerCell struct {
	Key       []byte       `json:"key" bun:",pk,type:bytea"`
	Value     []byte       `json:"value" bun:",notnull,type:bytea"`
	CreatedAt time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime `json:"updated_at"`
}

func (c *LedgerCell) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		c.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}
