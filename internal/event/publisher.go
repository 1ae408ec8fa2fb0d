package event

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher sends events to RabbitMQ. A Publisher with an empty URL is
// disabled and drops events silently, so callers never need a nil check.
type Publisher struct {
	url    string
	logger zerolog.Logger
}

func NewPublisher(url string, logger zerolog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// Publish marshals payload and delivers it to the named durable queue.
// Connections are short-lived; the event volume of a CRUD API does not
// justify a managed channel pool.
func (p *Publisher) Publish(ctx context.Context, queue string, payload any) error {
	if p == nil || p.url == "" {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn().Err(err).Str("queue", queue).Msg("amqp dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn().Err(err).Str("queue", queue).Msg("amqp channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.logger.Warn().Err(err).Str("queue", queue).Msg("amqp queue declare failed")
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.logger.Warn().Err(err).Str("queue", queue).Msg("amqp publish failed")
		return err
	}
	return nil
}

// PublishAsync fires Publish on its own goroutine with a detached timeout
// context, keeping request latency independent of the broker.
func (p *Publisher) PublishAsync(queue string, payload any) {
	if p == nil || p.url == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.Publish(ctx, queue, payload)
	}()
}
