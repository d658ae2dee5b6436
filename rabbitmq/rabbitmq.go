package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/getsentry/sentry-go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses encoding buffers across published events.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"
)

type (
	SubscribeToEventsFunc = func() (events chan garden.Event, unsubscribe func(), err error)
	EncodeEventFunc       = func(ctx context.Context, w io.Writer, event garden.Event) error
)

// OutboundCommand is an outbox row on its way to the command exchange.
type OutboundCommand struct {
	ID      int64
	Kind    string
	Payload []byte
}

type Client interface {
	// StartPublishEvents forwards committed events to the event exchange
	// until ctx is done.
	StartPublishEvents(context.Context, SubscribeToEventsFunc, EncodeEventFunc) error
	PublishCommand(context.Context, OutboundCommand) error
	// SubscribeToEvents delivers events from the event exchange. The channel
	// closes when the subscription is lost.
	SubscribeToEvents(context.Context) (<-chan garden.Event, error)
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient
	logger     *lecho.Logger

	gardenEventExchange   string
	gardenCommandExchange string
	eventQueueName        string

	commandExchangeDeclared atomic.Bool
}

type ClientOption = func(client *DefaultClient)

func WithGardenEventExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.gardenEventExchange = exchange
	}
}

func WithGardenCommandExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.gardenCommandExchange = exchange
	}
}

// WithEventQueueName names the exclusive queue SubscribeToEvents consumes
// from. Empty lets the broker pick one.
func WithEventQueueName(name string) ClientOption {
	return func(client *DefaultClient) {
		client.eventQueueName = name
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,
		logger:     lecho.New(io.Discard),

		gardenEventExchange:   "garden_event",
		gardenCommandExchange: "garden_command",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

func (client *DefaultClient) declareTopicExchange(name string) error {
	return client.amqpClient.ExchangeDeclare(
		name,
		// topic exchanges route on the dotted routing key
		"topic",
		// durable, not auto-deleted: survives broker restarts
		true,
		false,
		false,
		false,
		nil,
	)
}

func (client *DefaultClient) StartPublishEvents(ctx context.Context, subscribe SubscribeToEventsFunc, payloadFunc EncodeEventFunc) error {
	err := client.declareTopicExchange(client.gardenEventExchange)
	if err != nil {
		return err
	}

	client.logger.Info("Starting rabbitmq event publisher")

	for {
		events, unsubscribe, err := subscribe()
		if err != nil {
			return err
		}
		lost, err := client.publishEvents(ctx, events, payloadFunc)
		if !lost {
			unsubscribe()
			return err
		}
		client.logger.Warn("Event subscription dropped, resubscribing")
	}
}

func (client *DefaultClient) publishEvents(ctx context.Context, events chan garden.Event, payloadFunc EncodeEventFunc) (lost bool, err error) {
	for {
		select {
		case <-ctx.Done():
			return false, context.Canceled
		case event, ok := <-events:
			if !ok {
				return true, nil
			}
			if err := client.publishEvent(ctx, event, payloadFunc); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishEvent(ctx context.Context, event garden.Event, payloadFunc EncodeEventFunc) error {
	payload := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(payload)
	payload.Reset()

	err := payloadFunc(ctx, payload, event)
	if err != nil {
		return err
	}

	key := common.EventRoutingKeyPrefix + string(event.Kind)

	err = client.amqpClient.PublishWithContext(ctx,
		client.gardenEventExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Type:        garden.EventType,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Successfully published %s for %s to rabbitmq", event.Kind, event.Denom)

	return nil
}

func (client *DefaultClient) PublishCommand(ctx context.Context, cmd OutboundCommand) error {
	if !client.commandExchangeDeclared.Load() {
		if err := client.declareTopicExchange(client.gardenCommandExchange); err != nil {
			return err
		}
		client.commandExchangeDeclared.Store(true)
	}

	return client.amqpClient.PublishWithContext(ctx,
		client.gardenCommandExchange,
		common.CommandRoutingKeyPrefix+cmd.Kind,
		false,
		false,
		amqp.Publishing{
			ContentType:  contentTypeJSON,
			DeliveryMode: amqp.Persistent,
			MessageId:    strconv.FormatInt(cmd.ID, 10),
			Type:         cmd.Kind,
			Body:         cmd.Payload,
		},
	)
}

func (client *DefaultClient) SubscribeToEvents(ctx context.Context) (<-chan garden.Event, error) {
	deliveries, err := client.amqpClient.Listen(
		ctx,
		client.gardenEventExchange,
		common.EventRoutingKeyAll,
		client.eventQueueName,
		Ephemeral(),
	)
	if err != nil {
		return nil, err
	}

	events := make(chan garden.Event)
	go func() {
		defer close(events)
		for delivery := range deliveries {
			event, err := decodeEvent(delivery.Body)
			if err != nil {
				// nothing a redelivery could fix
				captureErr(client.logger, err)
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func decodeEvent(body []byte) (garden.Event, error) {
	var event garden.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("decode garden event: %w", err)
	}
	if _, err := garden.ParseEventKind(string(event.Kind)); err != nil {
		return event, err
	}
	if event.Denom == "" {
		return event, fmt.Errorf("garden event %s without denom", event.Kind)
	}
	return event, nil
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
