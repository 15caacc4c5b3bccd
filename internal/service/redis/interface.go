package redis

import (
	"context"
	"time"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type ServiceInterface interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetExpire(ctx context.Context, key string, ttl time.Duration) error
	GetTTL(ctx context.Context, key string) (time.Duration, error)

	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	CacheAnalytics(ctx context.Context, userID, period string, data interface{}, ttl time.Duration) error
	GetAnalytics(ctx context.Context, userID, period string, dest interface{}) error
	InvalidateAnalytics(ctx context.Context, userID string) error

	CacheDashboard(ctx context.Context, userID string, data interface{}, ttl time.Duration) error
	GetDashboard(ctx context.Context, userID string, dest interface{}) error

	Health(ctx context.Context) error
	Close() error
}
