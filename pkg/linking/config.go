package linking

import "time"

// Config controls linking behavior.
type Config struct {
	StateTTL       time.Duration `env:"LINKING_STATE_TTL" envDefault:"15m"`         // StateTTL bounds how long a manual flow may stay pending.
	SelectionUI    bool          `env:"LINKING_SELECTION_UI" envDefault:"true"`     // SelectionUI reports whether the caller can present an account picker.
	ManualFallback bool          `env:"LINKING_MANUAL_FALLBACK" envDefault:"false"` // ManualFallback makes automatic linking open a manual flow on ambiguity instead of failing.
}

func (c Config) withDefaults() Config {
	if c.StateTTL <= 0 {
		c.StateTTL = 15 * time.Minute
	}
	return c
}
