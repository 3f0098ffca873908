package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenBlacklist stores revoked refresh tokens until they expire
type TokenBlacklist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// PostgresTokenBlacklist keeps revoked tokens in the relational store
type PostgresTokenBlacklist struct {
	db *gorm.DB
}

func NewPostgresTokenBlacklist(db *gorm.DB) *PostgresTokenBlacklist {
	return &PostgresTokenBlacklist{db: db}
}

func (b *PostgresTokenBlacklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	entry := &models.BlacklistedToken{JTI: jti, ExpiresAt: expiresAt}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error
}

func (b *PostgresTokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&models.BlacklistedToken{}).Where("jti = ?", jti).Count(&count).Error
	return count > 0, err
}

// PurgeExpired drops entries whose token could no longer be presented anyway
func (b *PostgresTokenBlacklist) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.BlacklistedToken{})
	return res.RowsAffected, res.Error
}

const redisBlacklistPrefix = "blacklist:refresh:"

// RedisTokenBlacklist keeps revoked tokens as keys expiring with the token
type RedisTokenBlacklist struct {
	client *redis.Client
}

func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func (b *RedisTokenBlacklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, redisBlacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token in redis: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	err := b.client.Get(ctx, redisBlacklistPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup token in redis: %w", err)
	}
	return true, nil
}

// MongoTokenBlacklist keeps revoked tokens in a collection with a TTL index
type MongoTokenBlacklist struct {
	collection *mongo.Collection
}

type mongoBlacklistEntry struct {
	JTI       string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func NewMongoTokenBlacklist(db *mongo.Database) *MongoTokenBlacklist {
	return &MongoTokenBlacklist{collection: db.Collection("blacklisted_tokens")}
}

// EnsureIndexes lets MongoDB drop entries once the token has expired
func (b *MongoTokenBlacklist) EnsureIndexes(ctx context.Context) error {
	_, err := b.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (b *MongoTokenBlacklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	entry := mongoBlacklistEntry{JTI: jti, ExpiresAt: expiresAt}
	_, err := b.collection.ReplaceOne(ctx, bson.M{"_id": jti}, entry, options.Replace().SetUpsert(true))
	return err
}

func (b *MongoTokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	count, err := b.collection.CountDocuments(ctx, bson.M{"_id": jti, "expires_at": bson.M{"$gt": time.Now()}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
