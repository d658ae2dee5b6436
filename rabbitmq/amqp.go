package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

const (
	defaultHeartbeat   = 10 * time.Second
	defaultLocale      = "en_US"
	defaultDialTimeout = 3 * time.Second

	reconnectMaxInterval = 10 * time.Second
	reconnectMaxElapsed  = time.Minute
)

var errReconnecting = errors.New("amqp: connection is being re-established")

type connState int

const (
	stateReconnected connState = iota
	stateClosed
)

type AMQPClient interface {
	Listen(ctx context.Context, exchange string, routingKey string, queueName string, options ...ListenOption) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Close() error
}

// reconnectingClient owns one connection with separate consume and publish
// channels. When the broker drops the connection it redials with backoff and
// tells every active listener to re-consume.
type reconnectingClient struct {
	uri string

	conn           *amqp.Connection
	consumeChannel *amqp.Channel
	publishChannel *amqp.Channel
	closed         chan *amqp.Error

	reconnecting atomic.Bool

	watchersMu sync.Mutex
	watchers   map[chan connState]struct{}

	logger *lecho.Logger
}

func DialAMQP(uri string, logger *lecho.Logger) (AMQPClient, error) {
	c := &reconnectingClient{
		uri:      uri,
		watchers: make(map[chan connState]struct{}),
		logger:   logger,
	}
	if err := c.connect(); err != nil {
		return c, err
	}
	go c.superviseConnection()
	return c, nil
}

func reconnectBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = reconnectMaxInterval
	b.MaxElapsedTime = reconnectMaxElapsed
	return backoff.WithContext(b, ctx)
}

func (c *reconnectingClient) connect() error {
	conn, err := amqp.DialConfig(c.uri, amqp.Config{
		Heartbeat: defaultHeartbeat,
		Locale:    defaultLocale,
		Dial:      amqp.DefaultDial(defaultDialTimeout),
	})
	if err != nil {
		return err
	}
	consumeChannel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	publishChannel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	closed := make(chan *amqp.Error, 1)
	conn.NotifyClose(closed)

	c.conn = conn
	c.consumeChannel = consumeChannel
	c.publishChannel = publishChannel
	c.closed = closed
	return nil
}

func (c *reconnectingClient) watch() chan connState {
	ch := make(chan connState, 2)
	c.watchersMu.Lock()
	c.watchers[ch] = struct{}{}
	c.watchersMu.Unlock()
	return ch
}

func (c *reconnectingClient) unwatch(ch chan connState) {
	c.watchersMu.Lock()
	delete(c.watchers, ch)
	c.watchersMu.Unlock()
}

func (c *reconnectingClient) broadcast(s connState) {
	c.watchersMu.Lock()
	defer c.watchersMu.Unlock()
	for ch := range c.watchers {
		select {
		case ch <- s:
		default:
			c.logger.Warnf("amqp: listener is not keeping up, dropping state %d", s)
		}
	}
}

func (c *reconnectingClient) superviseConnection() {
	for {
		amqpErr, ok := <-c.closed
		// a nil error or a closed notifier means Close was called
		if !ok || amqpErr == nil {
			c.broadcast(stateClosed)
			return
		}
		c.logger.Errorf("amqp: connection lost: %v", amqpErr)

		c.reconnecting.Store(true)
		err := backoff.Retry(c.connect, reconnectBackOff(context.Background()))
		c.reconnecting.Store(false)
		if err != nil {
			c.logger.Errorf("amqp: giving up reconnecting: %v", err)
			c.broadcast(stateClosed)
			return
		}
		c.logger.Info("amqp: reconnected")
		c.broadcast(stateReconnected)
	}
}

func (c *reconnectingClient) Close() error {
	return c.conn.Close()
}

func (c *reconnectingClient) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	// declarations use a short lived channel of their own
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return ch.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

// ListenOptions describe the queue a listener consumes from. The exchange
// itself is always a durable topic exchange.
type ListenOptions struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	AutoAck    bool
	NoWait     bool
}

type ListenOption func(*ListenOptions)

// Ephemeral makes the queue private to this connection and removes it with
// the consumer, so every observer receives its own copy of each message.
func Ephemeral() ListenOption {
	return func(o *ListenOptions) {
		o.Durable = false
		o.AutoDelete = true
		o.Exclusive = true
		o.AutoAck = true
	}
}

// Listen consumes from a queue bound to exchange with routingKey. The
// returned channel survives reconnects and is closed once ctx is done or
// the connection is lost for good.
func (c *reconnectingClient) Listen(ctx context.Context, exchange string, routingKey string, queueName string, options ...ListenOption) (<-chan amqp.Delivery, error) {
	opts := ListenOptions{Durable: true}
	for _, opt := range options {
		opt(&opts)
	}

	deliveries, err := c.consume(exchange, routingKey, queueName, opts)
	if err != nil {
		return nil, err
	}

	out := make(chan amqp.Delivery)
	states := c.watch()

	go func() {
		defer close(out)
		defer c.unwatch(states)
		for {
			select {
			case <-ctx.Done():
				return

			case s := <-states:
				if s == stateClosed {
					return
				}
				d, err := c.consume(exchange, routingKey, queueName, opts)
				if err != nil {
					c.logger.Errorf("amqp: re-consuming %s: %v", routingKey, err)
					return
				}
				deliveries = d

			case delivery, ok := <-deliveries:
				if !ok {
					// parked until the supervisor reports a new connection
					deliveries = nil
					continue
				}
				select {
				case out <- delivery:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (c *reconnectingClient) consume(exchange, routingKey, queueName string, opts ListenOptions) (<-chan amqp.Delivery, error) {
	if err := c.consumeChannel.ExchangeDeclare(exchange, "topic", true, false, false, opts.NoWait, nil); err != nil {
		return nil, err
	}
	queue, err := c.consumeChannel.QueueDeclare(queueName, opts.Durable, opts.AutoDelete, opts.Exclusive, opts.NoWait, nil)
	if err != nil {
		return nil, err
	}
	if err = c.consumeChannel.QueueBind(queue.Name, routingKey, exchange, opts.NoWait, nil); err != nil {
		return nil, err
	}
	return c.consumeChannel.Consume(queue.Name, "", opts.AutoAck, opts.Exclusive, false, opts.NoWait, nil)
}

// PublishWithContext waits out a reconnect in progress before publishing.
func (c *reconnectingClient) PublishWithContext(ctx context.Context, exchange string, key string, mandatory bool, immediate bool, msg amqp.Publishing) error {
	if c.reconnecting.Load() {
		err := backoff.Retry(func() error {
			if c.reconnecting.Load() {
				return errReconnecting
			}
			return nil
		}, reconnectBackOff(ctx))
		if err != nil {
			return err
		}
	}
	return c.publishChannel.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}
