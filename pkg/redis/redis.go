// Package redis owns Redis connection plumbing for the backends that use
// it, currently the linking state store.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrInvalidURL indicates the connection URL could not be parsed.
	ErrInvalidURL = errors.New("redis.invalid_url")

	// ErrNotReady indicates the server did not answer a ping within the
	// retry budget.
	ErrNotReady = errors.New("redis.not_ready")

	// ErrHealthcheckFailed indicates a ping against the client failed.
	ErrHealthcheckFailed = errors.New("redis.healthcheck_failed")
)

// Config controls connection establishment.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required"`                     // ConnectionURL in redis://:password@host:6379/0 form.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`    // RetryAttempts bounds startup connection retries.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`   // RetryInterval is the wait between retries.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"` // ConnectTimeout caps the whole Connect call.
}

// Connect establishes a verified client, retrying transient startup
// failures until the connect timeout runs out.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}

	var lastErr error
	for i := 0; i < cfg.RetryAttempts; i++ {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		} else {
			lastErr = err
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrNotReady, lastErr)
}

// Healthcheck adapts a client to the func(ctx) error probe shape health
// endpoints expect.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
