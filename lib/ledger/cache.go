package ledger

import (
	"bytes"
	"sort"
)

// Cache stages writes on top of a parent Reader. Nothing reaches the parent
// until the caller commits Writes() somewhere; dropping the Cache discards
// every staged write.
type Cache struct {
	parent Reader
	writes map[string][]byte
}

func NewCache(parent Reader) *Cache {
	return &Cache{parent: parent, writes: map[string][]byte{}}
}

func (c *Cache) Get(key []byte) ([]byte, error) {
	if v, ok := c.writes[string(key)]; ok {
		return bytes.Clone(v), nil
	}
	return c.parent.Get(key)
}

func (c *Cache) Set(key, value []byte) {
	c.writes[string(key)] = bytes.Clone(value)
}

// Writes returns the staged cells ordered by key.
func (c *Cache) Writes() []Model {
	keys := make([]string, 0, len(c.writes))
	for k := range c.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	models := make([]Model, 0, len(keys))
	for _, k := range keys {
		models = append(models, Model{Key: []byte(k), Value: bytes.Clone(c.writes[k])})
	}
	return models
}

func (c *Cache) Len() int {
	return len(c.writes)
}
