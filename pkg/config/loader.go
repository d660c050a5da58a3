package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParseFailed wraps env tag parsing failures, including missing
	// required variables.
	ErrParseFailed = errors.New("config.parse_failed")

	// ErrNilTarget indicates a nil pointer was passed to Load.
	ErrNilTarget = errors.New("config.nil_target")
)

var (
	dotenvOnce sync.Once

	mu     sync.Mutex
	loaded = make(map[string]any)
)

// Load populates v from the environment. The first call in the process also
// reads a .env file when one exists; a missing file is not an error. Each
// struct type is parsed once and served from cache afterwards, so every
// component sees the same values regardless of call order.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilTarget
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := typeName[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParseFailed, err)
	}

	loaded[key] = *v
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Reset clears the cache so the next Load re-reads the environment. Tests
// use it between cases that mutate env vars.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	loaded = make(map[string]any)
}

func typeName[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}
