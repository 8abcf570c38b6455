package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"kiosk_commerce/internal/config"
	"kiosk_commerce/internal/domain/entity"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.Kafka) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           cfg.WriteTimeout,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

// Publish пишет событие с ключом deal id, чтобы переходы одной сделки попадали
// в одну партицию.
func (p *KafkaPublisher) Publish(ctx context.Context, t entity.Transition) error {
	msg, err := Message(t)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func Message(t entity.Transition) (kafka.Message, error) {
	payload, err := Encode(t)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(t.DealID.String()),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventTypeDealTransition)},
		},
	}, nil
}
