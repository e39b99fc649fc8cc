package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
)

// Publisher publishes escrow events to a durable topic exchange, using the
// event type as routing key.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   *slog.Logger
}

var _ port.EventPublisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(amqpURL, exchange string, logger *slog.Logger) (*Publisher, error) {
	cleanURL, err := sanitizeURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if exchange == "" {
		return nil, errors.New("amqp exchange is required")
	}

	// bounded dial timeout so startup does not hang
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err = declare(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

func declare(ch *amqp091.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	)
}

// Publish sends the event. On failure the channel is reopened once and the
// publish retried.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	msg, err := buildPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg)
	if err == nil {
		return nil
	}
	p.logger.Warn("publish failed; reopening channel",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", string(event.Type)),
		slog.Any("error", err),
	)
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	if exErr := declare(ch, p.exchange); exErr != nil {
		ch.Close()
		return fmt.Errorf("publish %s: %w", event.Type, exErr)
	}
	p.channel = ch
	return p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg)
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

func buildPublishing(event domain.Event) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

func sanitizeURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", fmt.Errorf("invalid AMQP scheme: %q", u.Scheme)
	}
	return clean, nil
}

// LogPublisher is the fallback used when no broker is configured. It only
// records the event in the log.
type LogPublisher struct {
	Logger *slog.Logger
}

var _ port.EventPublisher = LogPublisher{}

func (p LogPublisher) Publish(_ context.Context, event domain.Event) error {
	p.Logger.Debug("publish skipped",
		slog.String("component", "event_publisher"),
		slog.String("mode", "fallback"),
		slog.String("event_id", event.ID),
		slog.String("type", string(event.Type)),
	)
	return nil
}
