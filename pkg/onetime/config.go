package onetime

import "time"

// Config controls secret shapes and budgets.
type Config struct {
	CodeLength  int           `env:"OTP_CODE_LENGTH" envDefault:"6"`  // CodeLength is the length of human-enterable codes.
	CodeTTL     time.Duration `env:"OTP_CODE_TTL" envDefault:"10m"`   // CodeTTL is the lifetime of verification/restoration codes.
	TokenTTL    time.Duration `env:"OTP_TOKEN_TTL" envDefault:"15m"`  // TokenTTL is the lifetime of magic-link tokens.
	MaxAttempts int           `env:"OTP_MAX_ATTEMPTS" envDefault:"3"` // MaxAttempts is the failed-attempt budget per secret.
}

func (c Config) withDefaults() Config {
	if c.CodeLength <= 0 {
		c.CodeLength = 6
	}
	if c.CodeTTL <= 0 {
		c.CodeTTL = 10 * time.Minute
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 15 * time.Minute
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	return c
}
