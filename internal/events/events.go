package events

import (
	"context"
	"time"

	"staywise/pkg/kafka"
	kafka_config "staywise/pkg/kafka/config"
	"staywise/pkg/logger"
)

const (
	TypeBookingCreated           = "booking.created"
	TypeBookingCancelled         = "booking.cancelled"
	TypeExternalBookingCreated   = "external_booking.created"
	TypeExternalBookingCancelled = "external_booking.cancelled"
)

// BookingEvent is the payload published for every ledger mutation.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	PropertyID string    `json:"property_id,omitempty"`
	AdminID    string    `json:"admin_id,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits booking events. Publishing is best effort: services log
// failures and never surface them to the API caller.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(cfg *kafka_config.Config, source string) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, event BookingEvent) error { return nil }
func (noopPublisher) Close() error                                          { return nil }

// FromConfig wires the kafka publisher when brokers are configured and the
// noop publisher otherwise.
func FromConfig(cfg *kafka_config.Config, source string, log *logger.Logger) Publisher {
	if !cfg.Enabled() {
		log.Info("Event publishing disabled, no Kafka brokers configured")
		return NewNoopPublisher()
	}
	publisher, err := NewKafkaPublisher(cfg, source)
	if err != nil {
		log.Fatal("Failed to initialize Kafka publisher", "error", err)
	}
	log.Info("Event publishing enabled", "topic", cfg.Topic, "brokers", cfg.Brokers)
	return publisher
}
