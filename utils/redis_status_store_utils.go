package utils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStatusStore surfaces harvest/analysis run progress so callers (the API
// server, an operator polling redis-cli) can observe long running work such as
// rate-limit backoff waits.
type RedisStatusStore struct {
	inner     *redis.Client
	keyParser RedisKeyParser
}

// Run statuses are transient progress markers, not durable records.
const runStatusTTL = 24 * time.Hour

var ctx = context.Background()

func GetRedisStatusStore() (*RedisStatusStore, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	_, err := redisClient.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	return &RedisStatusStore{
		inner:     redisClient,
		keyParser: RedisKeyParser{delimiter: "__"},
	}, nil
}

type RedisKeyParser struct {
	delimiter string
}

func (r RedisKeyParser) DecodeRunKey(key string) (string, string, error) {
	splits := strings.Split(key, r.delimiter)
	if (len(splits)) != 2 {
		return "", "", fmt.Errorf("invalid key: %s", key)
	}
	return splits[0], splits[1], nil
}

func (r RedisKeyParser) ValidateId(id string) bool {
	return !strings.Contains(id, r.delimiter)
}

func (r RedisKeyParser) EncodeRunKey(runId string, stage string) (string, error) {
	if !r.ValidateId(runId) || !r.ValidateId(stage) {
		return "", fmt.Errorf("invalid runId or stage")
	}
	return fmt.Sprintf("%s%s%s", runId, r.delimiter, stage), nil
}

// SetRunStatus records the latest progress message for a run stage
// ("harvest", "analysis").
func (r *RedisStatusStore) SetRunStatus(runId string, stage string, message string) error {
	key, err := r.keyParser.EncodeRunKey(runId, stage)
	if err != nil {
		return err
	}
	return r.inner.Set(ctx, key, message, runStatusTTL).Err()
}

func (r *RedisStatusStore) GetRunStatus(runId string, stage string) (string, error) {
	key, err := r.keyParser.EncodeRunKey(runId, stage)
	if err != nil {
		return "", err
	}
	res, err := r.inner.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return res, err
}

// GetRunStatuses fetches progress for multiple stages of one run in a single
// round trip.
func (r *RedisStatusStore) GetRunStatuses(runId string, stages []string) ([]string, error) {
	if len(stages) == 0 {
		return []string{}, nil
	}

	keys := []string{}
	for _, stage := range stages {
		key, err := r.keyParser.EncodeRunKey(runId, stage)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	res, err := r.inner.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	statuses := []string{}
	for _, v := range res {
		if v == nil {
			statuses = append(statuses, "")
			continue
		}
		statuses = append(statuses, fmt.Sprint(v))
	}
	return statuses, nil
}
