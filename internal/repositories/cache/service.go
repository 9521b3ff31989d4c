package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmtoclick/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService wraps the Redis client with typed helpers for the entities
// we cache. User lookups are the hot path (the auth middleware and the
// admin role re-check hit them on every request).
type CacheService struct {
	client     *redis.Client
	defaultTTL time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

// GenerateKey builds a namespaced cache key like "user:id:42".
func (s *CacheService) GenerateKey(parts ...interface{}) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprintf("%v", p)
	}
	return key
}

func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	key := s.GenerateKey("user", "id", user.ID)
	return s.client.Set(ctx, key, data, s.defaultTTL).Err()
}

func (s *CacheService) GetUser(ctx context.Context, key string) (*models.User, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, s.GenerateKey("user", "id", userID)).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
