package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/easy-books/easy-books-server/internal/model"
)

const loginAttemptsKeyPrefix = "easy-books:login-failures:"

var _ model.LoginThrottle = (*LoginAttempts)(nil)

// LoginAttempts counts failed logins per username in a fixed window that
// starts with the first failure.
type LoginAttempts struct {
	client *goredis.Client
	limit  int64
	window time.Duration
}

func NewLoginAttempts(client *goredis.Client, limit int, window time.Duration) *LoginAttempts {
	return &LoginAttempts{
		client: client,
		limit:  int64(limit),
		window: window,
	}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Allow reports whether username is still under the failure limit.
func (l *LoginAttempts) Allow(ctx context.Context, username string) (bool, error) {
	failures, err := l.client.Get(ctx, key(username)).Int64()
	if errors.Is(err, goredis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read login failures: %w", err)
	}

	return failures < l.limit, nil
}

func (l *LoginAttempts) RecordFailure(ctx context.Context, username string) error {
	k := key(username)

	failures, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("failed to increment login failures: %w", err)
	}

	if failures == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set login failures expiry: %w", err)
		}
	}

	return nil
}

func (l *LoginAttempts) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}

func key(username string) string {
	return loginAttemptsKeyPrefix + username
}
