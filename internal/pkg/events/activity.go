package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

// AllTopics lists every topic the platform publishes
var AllTopics = []string{TopicUserRegistered, TopicOAuthLinked, TopicStudentEnrolled, TopicChildLinked}

// LogActivity subscribes to every platform topic on sub and writes one log line
// per event until ctx is cancelled.
func LogActivity(ctx context.Context, sub message.Subscriber, prefix string, logger zerolog.Logger) error {
	for _, topic := range AllTopics {
		messages, err := sub.Subscribe(ctx, prefix+topic)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", prefix+topic, err)
		}
		go drain(messages, logger.With().Str("topic", prefix+topic).Logger())
	}
	return nil
}

func drain(messages <-chan *message.Message, logger zerolog.Logger) {
	for msg := range messages {
		logger.Info().
			Str("messageID", msg.UUID).
			Str("eventType", msg.Metadata.Get("event_type")).
			RawJSON("payload", msg.Payload).
			Msg("Platform event")
		msg.Ack()
	}
}
