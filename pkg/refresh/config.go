package refresh

import "time"

// Config controls token lifetimes and access credential claims.
type Config struct {
	SigningKey string        `env:"AUTH_JWT_SIGNING_KEY,required"`         // SigningKey signs HS256 access credentials; at least 32 bytes.
	Issuer     string        `env:"AUTH_JWT_ISSUER" envDefault:"authcore"` // Issuer is the iss claim on access credentials.
	Audience   string        `env:"AUTH_JWT_AUDIENCE" envDefault:"app"`    // Audience is the aud claim on access credentials.
	AccessTTL  time.Duration `env:"AUTH_ACCESS_TTL" envDefault:"15m"`      // AccessTTL is the lifetime of access credentials.
	RefreshTTL time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"720h"`    // RefreshTTL is the lifetime of refresh tokens.
}
