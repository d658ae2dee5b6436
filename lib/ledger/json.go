package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type modelJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type pageJSON struct {
	Models  []Model `json:"models"`
	NextKey string  `json:"next_key,omitempty"`
}

// MarshalJSON renders key and value as hex so cells survive transports that
// are not binary safe.
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelJSON{Key: hex.EncodeToString(m.Key), Value: hex.EncodeToString(m.Value)})
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var raw modelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	key, err := hex.DecodeString(raw.Key)
	if err != nil {
		return fmt.Errorf("model key: %w", err)
	}
	value, err := hex.DecodeString(raw.Value)
	if err != nil {
		return fmt.Errorf("model value: %w", err)
	}
	m.Key, m.Value = key, value
	return nil
}

func (p Page) MarshalJSON() ([]byte, error) {
	models := p.Models
	if models == nil {
		models = []Model{}
	}
	return json.Marshal(pageJSON{Models: models, NextKey: hex.EncodeToString(p.NextKey)})
}

func (p *Page) UnmarshalJSON(data []byte) error {
	var raw pageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	next, err := hex.DecodeString(raw.NextKey)
	if err != nil {
		return fmt.Errorf("page next_key: %w", err)
	}
	p.Models = raw.Models
	p.NextKey = nil
	if len(next) > 0 {
		p.NextKey = next
	}
	return nil
}
