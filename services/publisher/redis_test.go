package publisher

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test requires a running Redis instance
// If Redis is not available, the test will be skipped
func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()
	pub := NewRedisPublisher(ctx, "localhost:6379", 0, "test_deals_stream", 10)
	defer pub.Close()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	// Test if Redis is available
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}
	defer client.Del(ctx, "test_deals_stream")

	err := pub.Publish([]byte("test_message"))
	require.NoError(t, err)

	messages, err := client.XRange(ctx, "test_deals_stream", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)

	// The message is base64 encoded
	assert.Equal(t, "dGVzdF9tZXNzYWdl", messages[0].Values["b64_deals"])

	// The stream stays capped at the configured maximum length
	for i := 0; i < 50; i++ {
		require.NoError(t, pub.Publish([]byte("filler")))
	}
	length, err := client.XLen(ctx, "test_deals_stream").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, length, int64(100))
}
