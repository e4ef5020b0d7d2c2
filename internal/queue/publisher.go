package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Queue names.  Queues are declared durable on every publish so either side
// can start first.
const (
	QueueReservationConfirmed = "reservation.confirmed"
	QueuePaymentCompleted     = "payment.completed"
)

// Publisher sends domain events to RabbitMQ.  Publishing is best effort:
// every error is logged and returned so callers can ignore it without
// interrupting the request that triggered the event.  A Publisher with an
// empty URL silently drops events, which keeps event wiring optional in
// development.
type Publisher struct {
	url string
	log *logrus.Logger
}

// NewPublisher builds a Publisher for the given AMQP URL.
func NewPublisher(url string, log *logrus.Logger) *Publisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Publisher{url: url, log: log}
}

// PublishReservationConfirmed sends a ReservationConfirmedEvent.
func (p *Publisher) PublishReservationConfirmed(ctx context.Context, ev ReservationConfirmedEvent) error {
	return p.publish(ctx, QueueReservationConfirmed, ev)
}

// PublishPaymentCompleted sends a PaymentCompletedEvent.
func (p *Publisher) PublishPaymentCompleted(ctx context.Context, ev PaymentCompletedEvent) error {
	return p.publish(ctx, QueuePaymentCompleted, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, ev any) error {
	if p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warnf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warnf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable queue so events survive broker restarts; declare is idempotent.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.log.Warnf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warnf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.log.Warnf("rabbitmq: publish to %s failed: %v", queueName, err)
		return err
	}
	return nil
}
