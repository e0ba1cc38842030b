// Package queue_publisher publishes probe events to RabbitMQ.  Errors are
// logged and returned so callers can ignore them without affecting the
// HTTP response.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/peak-v1-api/internal/config"
	q "github.com/iliyamo/peak-v1-api/internal/queue"
)

// Publisher sends ProbeCompletedEvents to the configured durable queue.  A
// connection is dialed per publish; probes are infrequent and this keeps the
// process free of long-lived broker state.
type Publisher struct {
	url   string
	queue string
}

func NewPublisher(cfg config.BrokerConfig) *Publisher {
	return &Publisher{url: cfg.URL, queue: cfg.Queue}
}

// PublishProbeCompleted marks the message persistent and declares the
// queue before publishing so a fresh broker works without setup.
func (p *Publisher) PublishProbeCompleted(ctx context.Context, event q.ProbeCompletedEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
