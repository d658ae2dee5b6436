package mirror

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getsentry/sentry-go"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/ziflex/lecho/v3"
)

const DefaultScanPageLimit = 100

// Engine keeps a Mirror in step with the ledger: a full load on every
// (re)subscription, then one point refresh per event.
type Engine struct {
	Mirror    *Mirror
	Source    Source
	Feed      Feed
	Publisher Publisher
	Logger    *lecho.Logger
	PageLimit int
	// NewBackOff paces resubscription attempts. Defaults to exponential.
	NewBackOff func() backoff.BackOff

	lastBlockTime atomic.Uint64
}

func (e *Engine) pageLimit() int {
	if e.PageLimit <= 0 {
		return DefaultScanPageLimit
	}
	return e.PageLimit
}

// Load reads every cell of the ledger into a new State.
func (e *Engine) Load(ctx context.Context) (*State, error) {
	var (
		models []ledger.Model
		start  []byte
	)
	for {
		page, err := e.Source.Scan(ctx, start, e.pageLimit())
		if err != nil {
			return nil, fmt.Errorf("scan from %q: %w", start, err)
		}
		models = append(models, page.Models...)
		if len(page.NextKey) == 0 {
			break
		}
		start = page.NextKey
	}
	return Decode(models, e.Logger), nil
}

// Resync replaces the mirror with a full load.
func (e *Engine) Resync(ctx context.Context) error {
	st, err := e.Load(ctx)
	if err != nil {
		return err
	}
	e.Mirror.Replace(st)
	if now, err := e.Source.LatestBlockTime(ctx); err == nil {
		e.lastBlockTime.Store(now)
	}
	e.Logger.Infof("Mirror loaded: %d shitcoins, %d degens", len(st.Assets), len(st.Participants))
	return nil
}

// Bootstrap is the first Resync.
func (e *Engine) Bootstrap(ctx context.Context) error {
	return e.Resync(ctx)
}

// Run follows the feed until ctx is done. A lost subscription is
// re-established and followed by a full resync. A failed resync is returned,
// the caller is expected to stop.
func (e *Engine) Run(ctx context.Context) error {
	for {
		subCtx, cancel := context.WithCancel(ctx)
		events, err := e.subscribe(subCtx)
		if err != nil {
			cancel()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := e.Resync(subCtx); err != nil {
			cancel()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("resync: %w", err)
		}
		e.follow(subCtx, events)
		cancel()
		if ctx.Err() != nil {
			return nil
		}
		e.Logger.Warn("Event subscription lost, resubscribing")
	}
}

func (e *Engine) subscribe(ctx context.Context) (<-chan garden.Event, error) {
	var events <-chan garden.Event
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0
	var bo backoff.BackOff = b
	if e.NewBackOff != nil {
		bo = e.NewBackOff()
	}
	err := backoff.RetryNotify(func() error {
		var err error
		events, err = e.Feed.Subscribe(ctx)
		return err
	}, backoff.WithContext(bo, ctx), func(err error, wait time.Duration) {
		e.Logger.Errorf("Event subscription failed, retrying in %s: %v", wait, err)
	})
	return events, err
}

// follow applies events until the feed closes or a refresh fails.
func (e *Engine) follow(ctx context.Context, events <-chan garden.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := e.Refresh(ctx, event); err != nil {
				e.Logger.Errorf("Refreshing %s %s failed: %v", event.Kind, event.Denom, err)
				sentry.CaptureException(err)
				return
			}
		}
	}
}

// Refresh re-reads the records touched by event and publishes an Update.
func (e *Engine) Refresh(ctx context.Context, event garden.Event) error {
	var asset AssetMeta
	err := e.Mirror.write(func(st *State) error {
		var err error
		asset, err = e.readAsset(ctx, event.Denom)
		if err != nil {
			return err
		}
		var participant *ParticipantMeta
		if event.Participant != "" &&
			(event.Kind == garden.EventPresaleEntered || event.Kind == garden.EventShitcoinClaimed) {
			p, err := e.readParticipant(ctx, event.Denom, event.Participant)
			if err != nil {
				return err
			}
			participant = &p
		}

		st.Assets[event.Denom] = asset
		if event.Kind == garden.EventShitcoinCreated && !st.indexed(event.Denom) {
			st.Indexes[uint64(len(st.Indexes))] = event.Denom
		}
		if participant != nil {
			st.Participants[ParticipantKey{event.Denom, event.Participant}] = *participant
		}
		return nil
	})
	if err != nil {
		return err
	}

	now, err := e.Source.LatestBlockTime(ctx)
	if err != nil {
		now = e.lastBlockTime.Load()
		e.Logger.Warnf("Reading the clock failed, using %d: %v", now, err)
	} else {
		e.lastBlockTime.Store(now)
	}

	if e.Publisher != nil {
		e.Publisher.Publish(Update{
			Kind:          event.Kind,
			Denom:         event.Denom,
			Participant:   event.Participant,
			Asset:         asset,
			LastBlockTime: now,
		})
	}
	return nil
}

// LastBlockTime is the most recent clock reading.
func (e *Engine) LastBlockTime() uint64 {
	return e.lastBlockTime.Load()
}

// Now reads the clock, falling back to the last reading.
func (e *Engine) Now(ctx context.Context) uint64 {
	now, err := e.Source.LatestBlockTime(ctx)
	if err != nil {
		return e.lastBlockTime.Load()
	}
	e.lastBlockTime.Store(now)
	return now
}

func (e *Engine) readAsset(ctx context.Context, denom string) (AssetMeta, error) {
	var a AssetMeta
	var err error
	if a.Creator, err = e.readString(ctx, ledger.ShitcoinCreatorKey(denom), true); err != nil {
		return a, err
	}
	if a.Ticker, err = e.readString(ctx, ledger.ShitcoinTickerKey(denom), true); err != nil {
		return a, err
	}
	if a.Name, err = e.readString(ctx, ledger.ShitcoinNameKey(denom), true); err != nil {
		return a, err
	}
	if a.URL, err = e.readString(ctx, ledger.ShitcoinURLKey(denom), false); err != nil {
		return a, err
	}
	raw, err := e.read(ctx, ledger.PresaleEndKey(denom), true)
	if err != nil {
		return a, err
	}
	if a.PresaleEnd, err = ledger.DecodeU64(raw); err != nil {
		return a, err
	}
	if a.PresaleRaise, err = e.readAmount(ctx, ledger.PresaleRaiseKey(denom), true); err != nil {
		return a, err
	}
	if a.Supply, err = e.readAmount(ctx, ledger.ShitcoinSupplyKey(denom), true); err != nil {
		return a, err
	}
	raw, err = e.read(ctx, ledger.ShitcoinLaunchedKey(denom), false)
	if err != nil || raw == nil {
		return a, err
	}
	a.Launched, err = ledger.DecodeBool(raw)
	return a, err
}

func (e *Engine) readParticipant(ctx context.Context, denom, participant string) (ParticipantMeta, error) {
	var p ParticipantMeta
	var err error
	if p.Submission, err = e.readAmount(ctx, ledger.PresaleSubmissionKey(denom, participant), false); err != nil {
		return p, err
	}
	raw, err := e.read(ctx, ledger.PresaleClaimedKey(denom, participant), false)
	if err != nil || raw == nil {
		return p, err
	}
	p.Claimed, err = ledger.DecodeBool(raw)
	return p, err
}

// read returns nil for an absent optional key and a non-nil slice for any
// present one, empty values included.
func (e *Engine) read(ctx context.Context, key []byte, required bool) ([]byte, error) {
	raw, ok, err := e.Source.Raw(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		if required {
			return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, key)
		}
		return nil, nil
	}
	if raw == nil {
		raw = []byte{}
	}
	return raw, nil
}

func (e *Engine) readString(ctx context.Context, key []byte, required bool) (string, error) {
	raw, err := e.read(ctx, key, required)
	if err != nil || raw == nil {
		return "", err
	}
	return ledger.DecodeString(raw)
}

func (e *Engine) readAmount(ctx context.Context, key []byte, required bool) (garden.Amount, error) {
	raw, err := e.read(ctx, key, required)
	if err != nil || raw == nil {
		return garden.ZeroAmount, err
	}
	v, err := ledger.DecodeU128(raw)
	if err != nil {
		return garden.ZeroAmount, err
	}
	return garden.AmountFromUint128(v), nil
}
