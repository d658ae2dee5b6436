package fanout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(kind garden.EventKind, denom, participant string) mirror.Update {
	return mirror.Update{Kind: kind, Denom: denom, Participant: participant}
}

func next(t *testing.T, s *Subscription) mirror.Update {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	u, err := s.Next(ctx)
	require.NoError(t, err)
	return u
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := NewBroadcaster(2)
	assert.NotPanics(t, func() { b.Publish(update(garden.EventShitcoinCreated, "a", "")) })
	assert.Zero(t, b.Subscribers())
}

func TestSlowSubscriberLosesOldest(t *testing.T) {
	b := NewBroadcaster(3)
	s := b.Subscribe(GeneralFilter)
	for i := 0; i < 5; i++ {
		b.Publish(update(garden.EventPresaleEntered, fmt.Sprint(i), "p"))
	}

	assert.Equal(t, uint64(2), s.Missed())
	assert.Equal(t, "2", next(t, s).Denom)
	assert.Equal(t, "3", next(t, s).Denom)
	assert.Equal(t, "4", next(t, s).Denom)
}

func TestGeneralFeedSuppressesClaims(t *testing.T) {
	b := NewBroadcaster(10)
	s := b.Subscribe(GeneralFilter)
	b.Publish(update(garden.EventShitcoinClaimed, "a", "alice"))
	b.Publish(update(garden.EventShitcoinLaunched, "a", ""))

	assert.Equal(t, garden.EventShitcoinLaunched, next(t, s).Kind)
}

func TestParticipantFeedShowsOwnClaimsOnly(t *testing.T) {
	b := NewBroadcaster(10)
	s := b.Subscribe(ParticipantFilter("alice"))
	b.Publish(update(garden.EventShitcoinClaimed, "a", "bob"))
	b.Publish(update(garden.EventShitcoinClaimed, "a", "alice"))
	b.Publish(update(garden.EventPresaleEntered, "b", "bob"))

	u := next(t, s)
	assert.Equal(t, garden.EventShitcoinClaimed, u.Kind)
	assert.Equal(t, "alice", u.Participant)
	assert.Equal(t, "bob", next(t, s).Participant)
}

func TestNextWaitsForPublish(t *testing.T) {
	b := NewBroadcaster(1)
	s := b.Subscribe(nil)
	go func() {
		time.Sleep(10 * time.Millisecond)
		b.Publish(update(garden.EventPresaleExtended, "a", ""))
	}()
	assert.Equal(t, garden.EventPresaleExtended, next(t, s).Kind)
}

func TestCloseEndsSubscription(t *testing.T) {
	b := NewBroadcaster(1)
	s := b.Subscribe(nil)
	assert.Equal(t, 1, b.Subscribers())

	s.Close()
	assert.Zero(t, b.Subscribers())
	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Subscribe(nil).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPersonalizeDefaultsToZeroRecord(t *testing.T) {
	m := mirror.NewMirror()
	st := mirror.NewState()
	st.Participants[mirror.ParticipantKey{Denom: "a", Participant: "alice"}] = mirror.ParticipantMeta{
		Submission: garden.NewAmount(50),
	}
	m.Replace(st)
	u := mirror.Update{
		Kind:  garden.EventPresaleEntered,
		Denom: "a",
		Asset: mirror.AssetMeta{Ticker: "A", PresaleEnd: 100, PresaleRaise: garden.NewAmount(100), Supply: garden.NewAmount(1000)},
	}

	msg := Personalize(u, m, "alice")
	assert.True(t, msg.IsUpdate)
	assert.Equal(t, "PresaleEntered", msg.Event())
	require.NotNil(t, msg.Presale.Degen)
	assert.Equal(t, "50.00", msg.Presale.Degen.PercentOfPresale)

	msg = Personalize(u, m, "carol")
	require.NotNil(t, msg.Presale.Degen)
	assert.True(t, msg.Presale.Degen.PresaleSubmission.IsZero())
	assert.False(t, msg.Presale.Degen.ShitcoinsClaimed)

	u.Kind = garden.EventShitcoinCreated
	msg = Render(u)
	assert.False(t, msg.IsUpdate)
	assert.Nil(t, msg.Presale.Degen)
}
