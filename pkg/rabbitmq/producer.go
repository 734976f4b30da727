/**
 * @description
 * This file implements the AMQP event producer used to publish account
 * lifecycle events to a durable topic exchange. When RabbitMQ is
 * unreachable at startup the composition root falls back to a logging
 * no-op publisher so the service still starts.
 *
 * @dependencies
 * - github.com/rabbitmq/amqp091-go: the AMQP 0-9-1 client.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
	Close()
}

// EventProducer publishes JSON events to RabbitMQ.
type EventProducer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewEventProducer connects to RabbitMQ and opens a channel. The dial is
// bounded so startup does not hang indefinitely.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	conn, err := amqp.DialConfig(amqpURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &EventProducer{conn: conn, channel: ch}, nil
}

// Publish sends a message to a durable topic exchange, declaring the
// exchange if it does not exist yet.
func (p *EventProducer) Publish(ctx context.Context, exchange, routingKey string, body any) error {
	if err := p.channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		return err
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        jsonBody,
		},
	)
}

// Close closes the RabbitMQ channel and connection.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// FallbackPublisher is a no-op publisher used when RabbitMQ is unavailable
// at startup; events are logged instead of delivered.
type FallbackPublisher struct {
	Logger *slog.Logger
}

func (p *FallbackPublisher) Publish(_ context.Context, exchange, routingKey string, body any) error {
	p.Logger.Info("event publish skipped, broker unavailable",
		"exchange", exchange, "routing_key", routingKey, "body", body)
	return nil
}

func (p *FallbackPublisher) Close() {}
