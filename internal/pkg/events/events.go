package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// Topics, prefixed with the configured topic prefix when published
const (
	TopicUserRegistered  = "user.registered"
	TopicOAuthLinked     = "oauth.linked"
	TopicStudentEnrolled = "student.enrolled"
	TopicChildLinked     = "parent.child_linked"
)

// Drivers accepted by NewPublisher
const (
	DriverNone      = "none"
	DriverGoChannel = "gochannel"
	DriverKafka     = "kafka"
)

// Emitter publishes domain events
type Emitter interface {
	Emit(ctx context.Context, topic string, payload interface{}) error
}

// UserRegistered is emitted after a user and its profile are committed
type UserRegistered struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	Provider string `json:"provider"`
}

// OAuthLinked is emitted when a Google identity resolves to a local user
type OAuthLinked struct {
	UserID  string `json:"userId"`
	Created bool   `json:"created"`
	Linked  bool   `json:"linked"`
}

// StudentEnrolled is emitted after an enrollment is stored
type StudentEnrolled struct {
	EnrollmentID string `json:"enrollmentId"`
	StudentID    string `json:"studentId"`
	ProgramID    string `json:"programId"`
}

// ChildLinked is emitted after a parent claims a student
type ChildLinked struct {
	ParentID          string  `json:"parentId"`
	StudentID         string  `json:"studentId"`
	RelationToStudent *string `json:"relationToStudent,omitempty"`
}

// Config selects and configures the transport
type Config struct {
	Driver       string
	KafkaBrokers []string
	TopicPrefix  string
}

// Publisher serializes events to JSON and hands them to a watermill publisher
type Publisher struct {
	publisher message.Publisher
	prefix    string
	logger    zerolog.Logger
}

// NewPublisher builds the publisher for cfg.Driver. The gochannel pubsub is also
// returned so in-process subscribers can attach; it is nil for other drivers.
func NewPublisher(cfg Config, logger zerolog.Logger) (*Publisher, *gochannel.GoChannel, error) {
	wmLogger := NewLoggerAdapter(logger)

	switch cfg.Driver {
	case "", DriverNone:
		return &Publisher{prefix: cfg.TopicPrefix, logger: logger}, nil, nil
	case DriverGoChannel:
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		return NewWithPublisher(ch, cfg.TopicPrefix, logger), ch, nil
	case DriverKafka:
		pub, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			Marshaler: kafka.DefaultMarshaler{},
		}, wmLogger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		return NewWithPublisher(pub, cfg.TopicPrefix, logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// NewWithPublisher wraps an existing watermill publisher
func NewWithPublisher(pub message.Publisher, prefix string, logger zerolog.Logger) *Publisher {
	return &Publisher{publisher: pub, prefix: prefix, logger: logger}
}

// Emit publishes payload as JSON on prefix+topic. It is a no-op when events are disabled.
func (p *Publisher) Emit(ctx context.Context, topic string, payload interface{}) error {
	if p == nil || p.publisher == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("event_type", topic)
	msg.Metadata.Set("occurred_at", time.Now().UTC().Format(time.RFC3339))
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.prefix+topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", topic, err)
	}

	p.logger.Debug().Str("topic", p.prefix+topic).Str("messageID", msg.UUID).Msg("Event published")
	return nil
}

// Close releases the underlying transport
func (p *Publisher) Close() error {
	if p == nil || p.publisher == nil {
		return nil
	}
	return p.publisher.Close()
}

// EmitAfterCommit publishes an event and only logs failures, for use once the data is already stored
func EmitAfterCommit(ctx context.Context, e Emitter, logger zerolog.Logger, topic string, payload interface{}) {
	if e == nil {
		return
	}
	if err := e.Emit(ctx, topic, payload); err != nil {
		logger.Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
