package mirror

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/shitcoingarden/garden.go/lib/garden"
)

// AssetMeta is the mirrored record of one asset.
type AssetMeta struct {
	Creator      string        `json:"creator"`
	Ticker       string        `json:"ticker"`
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	PresaleEnd   uint64        `json:"presale_end"`
	PresaleRaise garden.Amount `json:"presale_raise"`
	Supply       garden.Amount `json:"supply"`
	Launched     bool          `json:"launched"`
}

// ParticipantMeta is the zero value for a participant without a record.
type ParticipantMeta struct {
	Submission garden.Amount `json:"submission"`
	Claimed    bool          `json:"claimed"`
}

type ParticipantKey struct {
	Denom       string
	Participant string
}

// State is a point-in-time copy of the ledger shaped for reading.
type State struct {
	Indexes      map[uint64]string
	Assets       map[string]AssetMeta
	Participants map[ParticipantKey]ParticipantMeta
}

func NewState() *State {
	return &State{
		Indexes:      make(map[uint64]string),
		Assets:       make(map[string]AssetMeta),
		Participants: make(map[ParticipantKey]ParticipantMeta),
	}
}

// Denoms lists indexed denoms, newest first.
func (s *State) Denoms() []string {
	idx := make([]uint64, 0, len(s.Indexes))
	for i := range s.Indexes {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool { return idx[a] > idx[b] })
	denoms := make([]string, len(idx))
	for i, n := range idx {
		denoms[i] = s.Indexes[n]
	}
	return denoms
}

func (s *State) indexed(denom string) bool {
	for _, d := range s.Indexes {
		if d == denom {
			return true
		}
	}
	return false
}

// MarshalJSON nests participants under their denom, since struct map keys
// have no JSON form.
func (s *State) MarshalJSON() ([]byte, error) {
	participants := make(map[string]map[string]ParticipantMeta)
	for k, v := range s.Participants {
		if participants[k.Denom] == nil {
			participants[k.Denom] = make(map[string]ParticipantMeta)
		}
		participants[k.Denom][k.Participant] = v
	}
	return json.Marshal(struct {
		Indexes map[uint64]string                     `json:"indexes"`
		Assets  map[string]AssetMeta                  `json:"shitcoins"`
		Degens  map[string]map[string]ParticipantMeta `json:"degens"`
	}{s.Indexes, s.Assets, participants})
}

// Mirror guards the current State. The refresh loop is the only writer and
// holds the write lock for a whole refresh, so readers never see half an
// event applied.
type Mirror struct {
	mu    sync.RWMutex
	state *State
}

func NewMirror() *Mirror {
	return &Mirror{state: NewState()}
}

// Read runs fn under the read lock. fn must not retain st.
func (m *Mirror) Read(fn func(st *State)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.state)
}

func (m *Mirror) write(fn func(st *State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.state)
}

// Replace swaps in a freshly loaded state.
func (m *Mirror) Replace(st *State) {
	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
}

func (m *Mirror) Asset(denom string) (AssetMeta, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.state.Assets[denom]
	return a, ok
}

// Participant returns the participant's record, or the zero record.
func (m *Mirror) Participant(denom, participant string) ParticipantMeta {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Participants[ParticipantKey{denom, participant}]
}

// Dump renders the whole state as JSON under the read lock.
func (m *Mirror) Dump() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return json.Marshal(m.state)
}
