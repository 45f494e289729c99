package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"buildcost/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Budget overview caching
	GetBudgetOverview(ctx context.Context, tenantID uuid.UUID) ([]*models.BudgetComparison, error)
	SetBudgetOverview(ctx context.Context, tenantID uuid.UUID, overview []*models.BudgetComparison, ttl time.Duration) error
	DeleteBudgetOverview(ctx context.Context, tenantID uuid.UUID) error

	// Project caching
	GetProject(ctx context.Context, tenantID, projectID uuid.UUID) (*models.Project, error)
	SetProject(ctx context.Context, tenantID uuid.UUID, project *models.Project, ttl time.Duration) error
	DeleteProject(ctx context.Context, tenantID, projectID uuid.UUID) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Strip the scheme when the address was given as a redis URL
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

func (r *redisCacheService) GetBudgetOverview(ctx context.Context, tenantID uuid.UUID) ([]*models.BudgetComparison, error) {
	key := fmt.Sprintf("buildcost:budget-overview:%s", tenantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var overview []*models.BudgetComparison
	if err := json.Unmarshal(data, &overview); err != nil {
		return nil, err
	}
	return overview, nil
}

func (r *redisCacheService) SetBudgetOverview(ctx context.Context, tenantID uuid.UUID, overview []*models.BudgetComparison, ttl time.Duration) error {
	key := fmt.Sprintf("buildcost:budget-overview:%s", tenantID.String())
	data, err := json.Marshal(overview)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteBudgetOverview(ctx context.Context, tenantID uuid.UUID) error {
	key := fmt.Sprintf("buildcost:budget-overview:%s", tenantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetProject(ctx context.Context, tenantID, projectID uuid.UUID) (*models.Project, error) {
	key := fmt.Sprintf("buildcost:project:%s:%s", tenantID.String(), projectID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *redisCacheService) SetProject(ctx context.Context, tenantID uuid.UUID, project *models.Project, ttl time.Duration) error {
	key := fmt.Sprintf("buildcost:project:%s:%s", tenantID.String(), project.ID.String())
	data, err := json.Marshal(project)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProject(ctx context.Context, tenantID, projectID uuid.UUID) error {
	key := fmt.Sprintf("buildcost:project:%s:%s", tenantID.String(), projectID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	patterns := []string{
		fmt.Sprintf("buildcost:budget-overview:%s", tenantID.String()),
		fmt.Sprintf("buildcost:project:%s:*", tenantID.String()),
	}
	for _, pattern := range patterns {
		keys, err := r.client.Keys(ctx, pattern).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("buildcost:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
