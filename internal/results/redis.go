package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"edupulse/internal/config"
	"edupulse/internal/model"
)

// Cache mirrors the latest vectors into redis so sibling services can read
// them without touching the feature table.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCache(cfg config.CacheConfig) (*Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Cache{client: client, prefix: cfg.KeyPrefix, ttl: cfg.TTL}, nil
}

func (c *Cache) vectorKey(courseID, studentID string) string {
	return fmt.Sprintf("%s:features:%s:%s", c.prefix, courseID, studentID)
}

func (c *Cache) runKey(courseID string) string {
	return fmt.Sprintf("%s:run:%s", c.prefix, courseID)
}

func (c *Cache) SetVector(ctx context.Context, vec *model.FeatureVector) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.vectorKey(vec.CourseID, vec.StudentID), data, c.ttl).Err()
}

func (c *Cache) GetVector(ctx context.Context, courseID, studentID string) (*model.FeatureVector, error) {
	data, err := c.client.Get(ctx, c.vectorKey(courseID, studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var vec model.FeatureVector
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, err
	}
	return &vec, nil
}

// SetRun records the most recent run summary per course.
func (c *Cache) SetRun(ctx context.Context, summary model.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.runKey(summary.CourseID), data, c.ttl).Err()
}

func (c *Cache) GetRun(ctx context.Context, courseID string) (*model.RunSummary, error) {
	data, err := c.client.Get(ctx, c.runKey(courseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary model.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
