package ledger

import "errors"

var (
	ErrNotFound  = errors.New("ledger: key not found")
	ErrMalformed = errors.New("ledger: malformed value")
)

// Reader reads single cells. Absent keys yield ErrNotFound.
type Reader interface {
	Get(key []byte) ([]byte, error)
}

// Store is a Reader that also stages writes.
type Store interface {
	Reader
	Set(key, value []byte)
}

// Model is a single raw cell as exposed by range scans.
type Model struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// Page is one page of a key-ordered scan. An empty NextKey means the scan is
// exhausted.
type Page struct {
	Models  []Model `json:"models"`
	NextKey []byte  `json:"next_key,omitempty"`
}

// Scanner lists cells in key order starting at start (inclusive).
type Scanner interface {
	Scan(start []byte, limit int) (Page, error)
}
