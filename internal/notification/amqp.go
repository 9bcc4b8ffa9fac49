package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

var (
	ErrPublisherBusy   = errors.New("event queue full")
	ErrPublisherClosed = errors.New("event publisher closed")

	errBrokerDown = errors.New("broker unavailable")
)

const (
	defaultBuffer         = 256
	defaultDialTimeout    = 3 * time.Second
	defaultPublishTimeout = 5 * time.Second
	defaultRetryBackoff   = 10 * time.Second
)

type AMQPOption func(*AMQPPublisher)

// WithBuffer sets how many events may wait for the broker before new ones are dropped.
func WithBuffer(n int) AMQPOption {
	return func(p *AMQPPublisher) {
		if n > 0 {
			p.buffer = n
		}
	}
}

func WithDialTimeout(d time.Duration) AMQPOption {
	return func(p *AMQPPublisher) {
		if d > 0 {
			p.dialTimeout = d
		}
	}
}

// WithRetryBackoff sets how long the publisher drops events after a failed dial
// before it tries the broker again.
func WithRetryBackoff(d time.Duration) AMQPOption {
	return func(p *AMQPPublisher) {
		if d > 0 {
			p.retryBackoff = d
		}
	}
}

// AMQPPublisher publishes events as persistent JSON messages to a durable queue
// on the default exchange. Publish only enqueues: a single worker goroutine owns
// the connection, so callers never wait on the broker. Events are dropped when
// the buffer is full or while the broker is in its retry backoff.
type AMQPPublisher struct {
	url            string
	queue          string
	log            zerolog.Logger
	buffer         int
	dialTimeout    time.Duration
	publishTimeout time.Duration
	retryBackoff   time.Duration
	now            func() time.Time

	mu     sync.RWMutex
	closed bool
	events chan Event
	done   chan struct{}

	// owned by the worker
	conn      *amqp.Connection
	downUntil time.Time
}

func NewAMQPPublisher(url, queue string, log zerolog.Logger, opts ...AMQPOption) *AMQPPublisher {
	p := &AMQPPublisher{
		url:            url,
		queue:          queue,
		log:            log,
		buffer:         defaultBuffer,
		dialTimeout:    defaultDialTimeout,
		publishTimeout: defaultPublishTimeout,
		retryBackoff:   defaultRetryBackoff,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.events = make(chan Event, p.buffer)
	p.done = make(chan struct{})

	go p.run()
	return p
}

// Publish hands ev to the worker without blocking.
func (p *AMQPPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- ev:
		return nil
	default:
		return ErrPublisherBusy
	}
}

func (p *AMQPPublisher) run() {
	defer close(p.done)

	for ev := range p.events {
		err := p.send(ev)
		switch {
		case err == nil:
		case errors.Is(err, errBrokerDown):
			p.log.Debug().Str("type", ev.Type).Str("entity_id", ev.EntityID).Msg("rabbitmq: broker down, event dropped")
		default:
			p.log.Warn().Err(err).Str("type", ev.Type).Str("entity_id", ev.EntityID).Msg("rabbitmq: event dropped")
		}
	}

	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *AMQPPublisher) send(ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.connection()
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		p.conn = nil
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.publishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Type:         ev.Type,
		MessageId:    ev.EntityID,
		Body:         body,
	}
	return ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
}

func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	if p.now().Before(p.downUntil) {
		return nil, errBrokerDown
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
	if err != nil {
		p.downUntil = p.now().Add(p.retryBackoff)
		p.log.Warn().Err(err).Dur("retry_in", p.retryBackoff).Msg("rabbitmq: dial failed")
		return nil, err
	}
	p.conn = conn
	return conn, nil
}

// Close stops accepting events, lets the worker finish what is queued and
// closes the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()

	<-p.done
	return nil
}
