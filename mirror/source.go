package mirror

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/shitcoingarden/garden.go/lib/service"
)

// Source is where the mirror reads ledger cells and the clock from.
type Source interface {
	// Scan lists cells in key order from start.
	Scan(ctx context.Context, start []byte, limit int) (ledger.Page, error)
	// Raw reports ok false for an absent key. A present empty value comes
	// back with ok true.
	Raw(ctx context.Context, key []byte) (value []byte, ok bool, err error)
	LatestBlockTime(ctx context.Context) (uint64, error)
}

// HTTPSource reads the host's raw state endpoints.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) Scan(ctx context.Context, start []byte, limit int) (ledger.Page, error) {
	q := url.Values{}
	q.Set("key", hex.EncodeToString(start))
	q.Set("limit", strconv.Itoa(limit))
	page := ledger.Page{}
	err := s.get(ctx, "/v1/state?"+q.Encode(), &page)
	return page, err
}

func (s *HTTPSource) Raw(ctx context.Context, key []byte) ([]byte, bool, error) {
	q := url.Values{}
	q.Set("key", hex.EncodeToString(key))
	body := struct {
		Value  string `json:"value"`
		Exists bool   `json:"exists"`
	}{}
	if err := s.get(ctx, "/v1/state/raw?"+q.Encode(), &body); err != nil {
		return nil, false, err
	}
	if !body.Exists {
		return nil, false, nil
	}
	value, err := hex.DecodeString(body.Value)
	if err != nil {
		return nil, false, fmt.Errorf("raw value for %q: %w", key, err)
	}
	return value, true, nil
}

func (s *HTTPSource) LatestBlockTime(ctx context.Context) (uint64, error) {
	body := struct {
		Now uint64 `json:"now"`
	}{}
	err := s.get(ctx, "/v1/clock", &body)
	return body.Now, err
}

func (s *HTTPSource) get(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// LedgerView is the read side of a host backend.
type LedgerView interface {
	View(ctx context.Context) ledger.Reader
	Scanner(ctx context.Context) ledger.Scanner
}

// LedgerSource reads a ledger directly, e.g. a read replica of the host
// database or the host's own backend when both run in one process.
type LedgerSource struct {
	Ledger LedgerView
	Clock  service.Clock
}

func (s *LedgerSource) Scan(ctx context.Context, start []byte, limit int) (ledger.Page, error) {
	return s.Ledger.Scanner(ctx).Scan(start, limit)
}

func (s *LedgerSource) Raw(ctx context.Context, key []byte) ([]byte, bool, error) {
	value, err := s.Ledger.View(ctx).Get(key)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *LedgerSource) LatestBlockTime(ctx context.Context) (uint64, error) {
	return s.Clock.Now(), nil
}
