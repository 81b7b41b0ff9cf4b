package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares login state across replicas: the login redirect and the
// provider callback may land on different instances.
type RedisStore struct {
	redisdb *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{redisdb: redisdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}

func (s *RedisStore) Put(ctx context.Context, token string, login Login) error {
	payload, err := json.Marshal(login)
	if err != nil {
		return fmt.Errorf("state: marshal login: %w", err)
	}

	return s.redisdb.Set(ctx, key(token), payload, TTL).Err()
}

func (s *RedisStore) Take(ctx context.Context, token string) (Login, bool, error) {
	payload, err := s.redisdb.GetDel(ctx, key(token)).Bytes()

	if errors.Is(err, redis.Nil) {
		return Login{}, false, nil
	}

	if err != nil {
		return Login{}, false, fmt.Errorf("state: read login: %w", err)
	}

	var login Login
	if err := json.Unmarshal(payload, &login); err != nil {
		return Login{}, false, fmt.Errorf("state: unmarshal login: %w", err)
	}

	return login, true, nil
}

func key(token string) string {
	return "hireloop:login:" + token
}
