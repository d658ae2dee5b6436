package garden

import "fmt"

// EventType is the type every garden event is published under.
const EventType = "shitcoin-garden"

type EventKind string

const (
	EventShitcoinCreated  EventKind = "shitcoin-created"
	EventPresaleEntered   EventKind = "presale-entered"
	EventPresaleExtended  EventKind = "presale-extended"
	EventShitcoinLaunched EventKind = "shitcoin-launched"
	EventShitcoinClaimed  EventKind = "shitcoin-claimed"
	EventShitcoinURLSet   EventKind = "shitcoin-url-set"
)

var streamNames = map[EventKind]string{
	EventShitcoinCreated:  "ShitcoinCreated",
	EventPresaleEntered:   "PresaleEntered",
	EventPresaleExtended:  "PresaleExtended",
	EventShitcoinLaunched: "ShitcoinLaunched",
	EventShitcoinClaimed:  "ShitcoinClaimed",
	EventShitcoinURLSet:   "ShitcoinUrlSet",
}

func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(s)
	if _, ok := streamNames[k]; !ok {
		return "", fmt.Errorf("unknown event kind %q", s)
	}
	return k, nil
}

// StreamName is the event name used on push streams.
func (k EventKind) StreamName() string {
	return streamNames[k]
}

// Event is the observable record of one successful operation.
type Event struct {
	Kind        EventKind `json:"kind"`
	Denom       string    `json:"denom"`
	Participant string    `json:"degen,omitempty"`
}

// Attributes lists the event attributes in emission order.
func (e Event) Attributes() [][2]string {
	attrs := [][2]string{{"kind", string(e.Kind)}, {"denom", e.Denom}}
	if e.Participant != "" {
		attrs = append(attrs, [2]string{"degen", e.Participant})
	}
	return attrs
}
