package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoChannelPublisherDeliversJSON(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub, ch, err := NewPublisher(Config{Driver: DriverGoChannel, TopicPrefix: "test."}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, ch)
	defer pub.Close()

	msgs, err := ch.Subscribe(ctx, "test."+TopicStudentEnrolled)
	require.NoError(t, err)

	require.NoError(t, pub.Emit(ctx, TopicStudentEnrolled, StudentEnrolled{StudentID: "s1", ProgramID: "p1"}))

	select {
	case msg := <-msgs:
		msg.Ack()
		var got StudentEnrolled
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "s1", got.StudentID)
		assert.Equal(t, "p1", got.ProgramID)
		assert.Equal(t, TopicStudentEnrolled, msg.Metadata.Get("event_type"))
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}

func TestDisabledPublisherIsNoop(t *testing.T) {
	pub, ch, err := NewPublisher(Config{Driver: DriverNone}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, ch)
	assert.NoError(t, pub.Emit(context.Background(), TopicUserRegistered, UserRegistered{}))
	assert.NoError(t, pub.Close())
}

func TestUnknownDriver(t *testing.T) {
	_, _, err := NewPublisher(Config{Driver: "carrier-pigeon"}, zerolog.Nop())
	assert.Error(t, err)
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                              { return nil }

func TestEmitAfterCommitSwallowsErrors(t *testing.T) {
	pub := NewWithPublisher(failingPublisher{}, "", zerolog.Nop())
	assert.Error(t, pub.Emit(context.Background(), TopicOAuthLinked, OAuthLinked{}))

	assert.NotPanics(t, func() {
		EmitAfterCommit(context.Background(), pub, zerolog.Nop(), TopicOAuthLinked, OAuthLinked{})
		EmitAfterCommit(context.Background(), nil, zerolog.Nop(), TopicOAuthLinked, OAuthLinked{})
	})
}
