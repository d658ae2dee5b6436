package models

import "time"

// GardenEvent : the event log, one row per committed operation
type GardenEvent struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	Kind      string    `json:"kind" bun:",notnull"`
	Denom     string    `json:"denom" bun:",notnull"`
	Degen     string    `json:"degen,omitempty" bun:",nullzero"`
	Sender    string    `json:"sender" bun:",nullzero"`
	BlockTime int64     `json:"block_time" bun:",notnull"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
