package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
)

// EventPayload is what goes out on the event exchange.
type EventPayload struct {
	Type      string           `json:"type"`
	Kind      garden.EventKind `json:"kind"`
	Denom     string           `json:"denom"`
	Degen     string           `json:"degen,omitempty"`
	BlockTime uint64           `json:"block_time"`
}

func (svc *GardenService) StartRabbitMqEventPublisher(ctx context.Context) error {
	return svc.RabbitMQClient.StartPublishEvents(ctx, svc.SubscribeEvents, svc.EncodeEventPayload)
}

// SubscribeEvents subscribes to every committed event.
func (svc *GardenService) SubscribeEvents() (chan garden.Event, func(), error) {
	events := make(chan garden.Event, common.EventSubscriberBuffer)
	subId, err := svc.EventPubSub.Subscribe(common.TopicAllEvents, events)
	if err != nil {
		return nil, nil, err
	}
	return events, func() { svc.EventPubSub.Unsubscribe(subId, common.TopicAllEvents) }, nil
}

func (svc *GardenService) EncodeEventPayload(ctx context.Context, w io.Writer, event garden.Event) error {
	return json.NewEncoder(w).Encode(EventPayload{
		Type:      garden.EventType,
		Kind:      event.Kind,
		Denom:     event.Denom,
		Degen:     event.Participant,
		BlockTime: svc.Clock.Now(),
	})
}
