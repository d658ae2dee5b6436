package models

import "time"

// Pool : a trading pool registered by the pool factory
type Pool struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	Factory   string    `json:"factory" bun:",notnull"`
	AssetA    string    `json:"asset_a" bun:",notnull,unique:pool_pair"`
	AssetB    string    `json:"asset_b" bun:",notnull,unique:pool_pair"`
	Address   string    `json:"address" bun:",notnull,unique"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
