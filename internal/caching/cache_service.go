package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"dentamart/internal/models"
)

type CacheService interface {
	// Directory result caching, keyed by a filter fingerprint.
	GetDirectoryPage(ctx context.Context, key string) ([]*models.Clinic, error)
	SetDirectoryPage(ctx context.Context, key string, clinics []*models.Clinic, ttl time.Duration) error
	InvalidateDirectory(ctx context.Context) error

	// Plan caching (reference data, read on every subscribe).
	GetPlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	SetPlans(ctx context.Context, plans []*models.SubscriptionPlan, ttl time.Duration) error
	InvalidatePlans(ctx context.Context) error

	// Community feed pages.
	GetFeedPage(ctx context.Context, page int) ([]*models.Post, error)
	SetFeedPage(ctx context.Context, page int, posts []*models.Post, ttl time.Duration) error
	InvalidateFeed(ctx context.Context) error

	// Generic string operations.
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetDirectoryPage(ctx context.Context, key string) ([]*models.Clinic, error) {
	var clinics []*models.Clinic
	hit, err := r.getJSON(ctx, "dentamart:directory:"+key, &clinics)
	if err != nil || !hit {
		return nil, err
	}
	return clinics, nil
}

func (r *redisCacheService) SetDirectoryPage(ctx context.Context, key string, clinics []*models.Clinic, ttl time.Duration) error {
	return r.setJSON(ctx, "dentamart:directory:"+key, clinics, ttl)
}

func (r *redisCacheService) InvalidateDirectory(ctx context.Context) error {
	return r.deleteByPattern(ctx, "dentamart:directory:*")
}

func (r *redisCacheService) GetPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	var plans []*models.SubscriptionPlan
	hit, err := r.getJSON(ctx, "dentamart:plans", &plans)
	if err != nil || !hit {
		return nil, err
	}
	return plans, nil
}

func (r *redisCacheService) SetPlans(ctx context.Context, plans []*models.SubscriptionPlan, ttl time.Duration) error {
	return r.setJSON(ctx, "dentamart:plans", plans, ttl)
}

func (r *redisCacheService) InvalidatePlans(ctx context.Context) error {
	return r.client.Del(ctx, "dentamart:plans").Err()
}

func (r *redisCacheService) GetFeedPage(ctx context.Context, page int) ([]*models.Post, error) {
	var posts []*models.Post
	hit, err := r.getJSON(ctx, fmt.Sprintf("dentamart:feed:%d", page), &posts)
	if err != nil || !hit {
		return nil, err
	}
	return posts, nil
}

func (r *redisCacheService) SetFeedPage(ctx context.Context, page int, posts []*models.Post, ttl time.Duration) error {
	return r.setJSON(ctx, fmt.Sprintf("dentamart:feed:%d", page), posts, ttl)
}

func (r *redisCacheService) InvalidateFeed(ctx context.Context) error {
	return r.deleteByPattern(ctx, "dentamart:feed:*")
}

func (r *redisCacheService) deleteByPattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
