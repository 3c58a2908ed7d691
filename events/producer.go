// Package events publishes payment lifecycle messages to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kodlan/sait-paypal/models"
	"github.com/segmentio/kafka-go"
)

// Producer sends payment-processed messages
type Producer interface {
	PaymentProcessed(ctx context.Context, message models.PaymentProcessed) error
	Close() error
}

// MessageWriter is the part of kafka.Writer used by KafkaProducer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer writes JSON encoded messages keyed by PayPal order id
type KafkaProducer struct {
	Writer MessageWriter
	Topic  string
}

// NewKafkaProducer returns a producer writing to the given brokers. When no
// broker is configured events are dropped.
func NewKafkaProducer(brokers []string, topic string) Producer {
	if len(brokers) == 0 {
		return NoopProducer{}
	}

	return &KafkaProducer{
		Writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
		Topic: topic,
	}
}

// PaymentProcessed sends a message for a captured order
func (p *KafkaProducer) PaymentProcessed(ctx context.Context, message models.PaymentProcessed) error {
	kafkaMessage, err := prepareKafkaMessage(p.Topic, message)
	if err != nil {
		return err
	}

	if err = p.Writer.WriteMessages(ctx, *kafkaMessage); err != nil {
		return fmt.Errorf("error sending payment processed message: [%v]", err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaProducer) Close() error {
	return p.Writer.Close()
}

// prepareKafkaMessage is pulled out of PaymentProcessed to allow unit testing of non-kafka portion of code
func prepareKafkaMessage(topic string, message models.PaymentProcessed) (*kafka.Message, error) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("error marshalling payment processed message: [%v]", err)
	}

	return &kafka.Message{
		Topic: topic,
		Key:   []byte(message.PayPalOrderID),
		Value: messageBytes,
	}, nil
}

// NoopProducer discards every message
type NoopProducer struct{}

// PaymentProcessed does nothing
func (NoopProducer) PaymentProcessed(context.Context, models.PaymentProcessed) error { return nil }

// Close does nothing
func (NoopProducer) Close() error { return nil }
