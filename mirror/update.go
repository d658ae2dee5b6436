package mirror

import "github.com/shitcoingarden/garden.go/lib/garden"

// Update announces that the mirror applied one event.
type Update struct {
	Kind          garden.EventKind `json:"kind"`
	Denom         string           `json:"denom"`
	Participant   string           `json:"degen,omitempty"`
	Asset         AssetMeta        `json:"shitcoin"`
	LastBlockTime uint64           `json:"last_block_time"`
}

// IsClaim reports whether the update is a claim, which is only shown to the
// claimant.
func (u Update) IsClaim() bool {
	return u.Kind == garden.EventShitcoinClaimed
}

// Publisher receives updates. Publish must not block.
type Publisher interface {
	Publish(Update)
}
