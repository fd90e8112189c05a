package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher delivers an event to a named queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, event any) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

var (
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("publisher closed")
	// ErrOutboxFull is returned when the broker falls too far behind.
	ErrOutboxFull = errors.New("event outbox full")
)

const (
	outboxSize     = 256
	dialTimeout    = 3 * time.Second
	publishTimeout = 5 * time.Second
	minBackoff     = time.Second
	maxBackoff     = 30 * time.Second
)

type message struct {
	queue string
	body  []byte
	at    time.Time
}

type dialFunc func(ctx context.Context, url string) (*amqp.Connection, error)

// AMQPPublisher publishes persistent JSON messages through the default
// exchange, using the queue name as routing key. Publish only enqueues; a
// single worker owns the connection, opens it on first use and re-opens it
// after the broker drops it. While the broker is unreachable the worker
// backs off and drops events instead of dialing for each one.
type AMQPPublisher struct {
	url  string
	log  *zap.Logger
	dial dialFunc

	outbox chan message
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	// owned by the worker goroutine
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
	backoff  time.Duration
	nextDial time.Time
}

// NewAMQPPublisher returns a publisher for the broker at url and starts its
// delivery worker.
func NewAMQPPublisher(url string, log *zap.Logger) *AMQPPublisher {
	return newAMQPPublisher(url, log, dialBroker)
}

func newAMQPPublisher(url string, log *zap.Logger, dial dialFunc) *AMQPPublisher {
	ctx, cancel := context.WithCancel(context.Background())
	p := &AMQPPublisher{
		url:      url,
		log:      log,
		dial:     dial,
		outbox:   make(chan message, outboxSize),
		ctx:      ctx,
		cancel:   cancel,
		declared: map[string]bool{},
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Publish marshals event and hands it to the delivery worker. It never
// waits on the broker.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", queue, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := message{queue: queue, body: body, at: time.Now().UTC()}
	select {
	case <-p.ctx.Done():
		return ErrPublisherClosed
	default:
	}
	select {
	case p.outbox <- msg:
		return nil
	case <-p.ctx.Done():
		return ErrPublisherClosed
	default:
		return fmt.Errorf("%s: %w", queue, ErrOutboxFull)
	}
}

func (p *AMQPPublisher) run() {
	defer p.wg.Done()
	defer p.reset()
	for {
		select {
		case <-p.ctx.Done():
			return
		case msg := <-p.outbox:
			if err := p.deliver(msg); err != nil {
				p.log.Warn("event dropped", zap.String("queue", msg.queue), zap.Error(err))
			}
		}
	}
}

func (p *AMQPPublisher) deliver(msg message) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}
	if !p.declared[msg.queue] {
		if _, err := ch.QueueDeclare(msg.queue, true, false, false, false, nil); err != nil {
			p.reset()
			return fmt.Errorf("declare %s: %w", msg.queue, err)
		}
		p.declared[msg.queue] = true
	}

	ctx, cancel := context.WithTimeout(p.ctx, publishTimeout)
	defer cancel()
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.at,
		Body:         msg.body,
	}
	if err := ch.PublishWithContext(ctx, "", msg.queue, false, false, pub); err != nil {
		p.reset()
		return fmt.Errorf("publish %s: %w", msg.queue, err)
	}
	return nil
}

// channel returns the open channel or dials a new one. After a failed
// dial no new attempt is made until the backoff window has passed.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	if time.Now().Before(p.nextDial) {
		return nil, fmt.Errorf("broker unavailable, retry in %s", time.Until(p.nextDial).Round(time.Millisecond))
	}

	conn, err := p.dial(p.ctx, p.url)
	if err == nil {
		var ch *amqp.Channel
		if ch, err = conn.Channel(); err == nil {
			p.conn, p.ch = conn, ch
			p.backoff = 0
			p.log.Info("rabbitmq publisher connected")
			return ch, nil
		}
		_ = conn.Close()
		err = fmt.Errorf("open channel: %w", err)
	}

	p.backoff *= 2
	if p.backoff < minBackoff {
		p.backoff = minBackoff
	}
	if p.backoff > maxBackoff {
		p.backoff = maxBackoff
	}
	p.nextDial = time.Now().Add(p.backoff)
	p.log.Warn("rabbitmq dial failed", zap.Duration("backoff", p.backoff), zap.Error(err))
	return nil, err
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
	p.declared = map[string]bool{}
}

// Close stops the worker and releases the broker connection. Events still
// queued are dropped.
func (p *AMQPPublisher) Close() error {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
	return nil
}

// dialBroker opens a connection whose TCP dial follows ctx and whose
// handshake is bounded by dialTimeout.
func dialBroker(ctx context.Context, url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: dialTimeout}
			c, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// cleared by the client once the handshake completes
			if err := c.SetDeadline(time.Now().Add(dialTimeout)); err != nil {
				_ = c.Close()
				return nil, err
			}
			return c, nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	return conn, nil
}
