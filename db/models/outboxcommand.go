package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// OutboxCommand : an external command waiting to be relayed. Rows are
// written in the same transaction as the ledger writes that produced them.
type OutboxCommand struct {
	ID          int64           `json:"id" bun:",pk,autoincrement"`
	EventID     int64           `json:"event_id" bun:",notnull"`
	Event       *GardenEvent    `json:"-" bun:"rel:belongs-to,join:event_id=id"`
	Position    int             `json:"position" bun:",notnull"`
	Kind        string          `json:"kind" bun:",notnull"`
	Payload     json.RawMessage `json:"payload" bun:"type:jsonb,notnull"`
	CreatedAt   time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	PublishedAt bun.NullTime    `json:"published_at"`
}
