package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to a single topic keyed by reservation id, so
// every event of a reservation lands on the same partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ReservationID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka publish %s: %w", event.Type, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
