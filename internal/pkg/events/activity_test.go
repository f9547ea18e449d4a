package events

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLogActivityLogsPublishedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub, ch, err := NewPublisher(Config{Driver: DriverGoChannel, TopicPrefix: "test."}, zerolog.Nop())
	require.NoError(t, err)
	defer pub.Close()

	out := &lockedBuffer{}
	require.NoError(t, LogActivity(ctx, ch, "test.", zerolog.New(out)))

	require.NoError(t, pub.Emit(ctx, TopicUserRegistered, UserRegistered{UserID: "u1", Provider: "local"}))

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"topic":"test.user.registered"`) &&
			strings.Contains(out.String(), `"userId":"u1"`)
	}, 2*time.Second, 10*time.Millisecond)
}
