package fanout

import (
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/mirror"
)

// Filter decides whether a subscriber sees an update.
type Filter func(u mirror.Update) bool

// GeneralFilter hides claims from viewers who are not the claimant.
func GeneralFilter(u mirror.Update) bool {
	return !u.IsClaim()
}

// ParticipantFilter shows addr everything except other participants' claims.
func ParticipantFilter(addr string) Filter {
	return func(u mirror.Update) bool {
		return !u.IsClaim() || u.Participant == addr
	}
}

// Message is what a stream subscriber receives.
type Message struct {
	Kind garden.EventKind `json:"kind"`
	// IsUpdate is false for a newly created asset.
	IsUpdate bool               `json:"is_update"`
	Presale  mirror.PresaleView `json:"presale"`
}

// Event is the stream event name of the message.
func (m Message) Event() string {
	return m.Kind.StreamName()
}

// Render builds the anonymous message for u.
func Render(u mirror.Update) Message {
	return Message{
		Kind:     u.Kind,
		IsUpdate: u.Kind != garden.EventShitcoinCreated,
		Presale:  mirror.NewPresaleView(u.Denom, u.Asset, u.LastBlockTime, nil),
	}
}

// Personalize builds the message for addr, attaching addr's current record
// for the asset, or the zero record if addr never entered.
func Personalize(u mirror.Update, m *mirror.Mirror, addr string) Message {
	p := m.Participant(u.Denom, addr)
	msg := Render(u)
	msg.Presale = mirror.NewPresaleView(u.Denom, u.Asset, u.LastBlockTime, &p)
	return msg
}
