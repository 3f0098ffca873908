package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Radhe743/full-stack-social-media-app/internal/testutil"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// exerciseBlacklist runs the behaviour every blacklist backend shares
func exerciseBlacklist(t *testing.T, blacklist TokenBlacklist) {
	ctx := context.Background()
	jti := uuid.NewString()

	ok, err := blacklist.Contains(ctx, jti)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, blacklist.Add(ctx, jti, time.Now().Add(time.Minute)))
	require.NoError(t, blacklist.Add(ctx, jti, time.Now().Add(time.Minute)))

	ok, err = blacklist.Contains(ctx, jti)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisTokenBlacklist(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	blacklist := NewRedisTokenBlacklist(client)
	exerciseBlacklist(t, blacklist)

	// already expired tokens are not stored
	jti := uuid.NewString()
	require.NoError(t, blacklist.Add(context.Background(), jti, time.Now().Add(-time.Second)))
	ok, err := blacklist.Contains(context.Background(), jti)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMongoTokenBlacklist(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	db := client.Database("blacklist_test_" + uuid.NewString()[:8])
	t.Cleanup(func() { _ = db.Drop(ctx) })

	blacklist := NewMongoTokenBlacklist(db)
	require.NoError(t, blacklist.EnsureIndexes(ctx))
	exerciseBlacklist(t, blacklist)
}

func TestPostgresTokenBlacklistContract(t *testing.T) {
	exerciseBlacklist(t, NewPostgresTokenBlacklist(testutil.NewDB(t)))
}
