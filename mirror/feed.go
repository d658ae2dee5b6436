package mirror

import (
	"context"

	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/shitcoingarden/garden.go/rabbitmq"
)

// Feed delivers committed events. The channel is closed when the
// subscription is lost or ctx is done.
type Feed interface {
	Subscribe(ctx context.Context) (<-chan garden.Event, error)
}

// RabbitFeed follows the host's event exchange.
type RabbitFeed struct {
	Client rabbitmq.Client
}

func (f *RabbitFeed) Subscribe(ctx context.Context) (<-chan garden.Event, error) {
	return f.Client.SubscribeToEvents(ctx)
}

// PubsubFeed follows the host in the same process.
type PubsubFeed struct {
	Pubsub *service.Pubsub
	Buffer int
}

func (f *PubsubFeed) Subscribe(ctx context.Context) (<-chan garden.Event, error) {
	buffer := f.Buffer
	if buffer <= 0 {
		buffer = common.EventSubscriberBuffer
	}
	events := make(chan garden.Event, buffer)
	subId, err := f.Pubsub.Subscribe(common.TopicAllEvents, events)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		f.Pubsub.Unsubscribe(subId, common.TopicAllEvents)
	}()
	return events, nil
}
