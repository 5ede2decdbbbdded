package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher sends each event to a durable queue named after its type
// through the default exchange.
type AMQPPublisher struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	for _, queue := range []string{domain.EventBookingConfirmed, domain.EventBookingCancelled} {
		_, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		)
		if err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("rabbitmq declare %s: %w", queue, err)
		}
	}

	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ReservationID,
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", event.Type, false, false, msg)
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", event.Type, err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	chErr := p.ch.Close()
	connErr := p.conn.Close()
	if chErr != nil {
		return chErr
	}

	return connErr
}
