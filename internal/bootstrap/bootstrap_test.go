package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/platform/internal/config"
	"github.com/edubridge/platform/internal/db"
	"github.com/edubridge/platform/internal/pkg/events"
)

func TestInfrastructureClose(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(ctx).Err())

	channel := gochannel.NewGoChannel(gochannel.Config{}, events.NewLoggerAdapter(zerolog.Nop()))
	publisher := events.NewWithPublisher(channel, "edubridge.", zerolog.Nop())

	infra := &Infrastructure{Redis: client, Events: publisher}
	require.NoError(t, infra.Close())

	assert.ErrorIs(t, client.Ping(ctx).Err(), redis.ErrClosed)
	assert.Error(t, publisher.Emit(ctx, events.TopicUserRegistered, map[string]string{"id": "1"}))
}

func TestInfrastructureCloseWithoutOptionalParts(t *testing.T) {
	assert.NoError(t, (&Infrastructure{}).Close())
}

func TestSetupInfrastructureReleasesRedisOnFailure(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	cfg.Events.Driver = "carrier-pigeon"

	infra, err := SetupInfrastructure(context.Background(), cfg, &db.PostgresDB{}, zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, infra)

	assert.Eventually(t, func() bool {
		return mr.CurrentConnectionCount() == 0
	}, time.Second, 10*time.Millisecond)
}
