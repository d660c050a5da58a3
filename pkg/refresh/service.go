package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/secretgen"
)

// AccessClaims are the claims minted into access credentials.
type AccessClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Service issues, rotates, and revokes refresh tokens and mints access
// credentials.
type Service struct {
	store  Store
	gen    secretgen.Generator
	cfg    Config
	logger *slog.Logger
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithGenerator overrides the secret generator. Tests use a deterministic one.
func WithGenerator(gen secretgen.Generator) Option {
	return func(s *Service) {
		s.gen = gen
	}
}

// NewService creates a token rotation service.
func NewService(store Store, cfg Config, opts ...Option) (*Service, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}

	s := &Service{
		store:  store,
		gen:    secretgen.New(),
		cfg:    cfg,
		logger: logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a fresh refresh token for the user and mints an access
// credential. The refresh secret is returned in plaintext exactly once.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID, scope string) (*Credentials, error) {
	return s.issueToken(ctx, userID, scope)
}

// Rotate exchanges a presented refresh secret for a new credential pair.
// The old row is marked replaced but not revoked; a concurrent rotation of
// the same secret fails closed with ErrTokenNotFound.
func (s *Service) Rotate(ctx context.Context, presentedSecret, scope string) (*Credentials, error) {
	token, err := s.store.TokenByHash(ctx, s.gen.Hash(presentedSecret))
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	if token.Revoked() {
		return nil, ErrTokenRevoked
	}
	if time.Now().After(token.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	// Claim the rotation before creating the successor. The conditional
	// write is the serialization point: a loser observes ErrTokenReplaced.
	newID := uuid.New()
	if err := s.store.MarkReplaced(ctx, token.ID, newID); err != nil {
		if errors.Is(err, ErrTokenReplaced) {
			s.logger.WarnContext(ctx, "refresh token presented after rotation",
				logger.UserID(token.UserID),
				logger.TokenID(token.ID),
				logger.Component("refresh"),
			)
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("mark token replaced: %w", err)
	}

	creds, err := s.issueTokenWithID(ctx, newID, token.UserID, scope)
	if err != nil {
		// The old token is already claimed; fail closed rather than undo.
		return nil, fmt.Errorf("create successor token: %w", err)
	}
	return creds, nil
}

// RevokeAll revokes every refresh token owned by the user. Used on logout
// and after restoration or magic-link events that must force
// re-authentication everywhere.
func (s *Service) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.RevokeAllForUser(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}
	s.logger.InfoContext(ctx, "revoked all refresh tokens",
		logger.UserID(userID),
		logger.Component("refresh"),
	)
	return nil
}

// RevokeChain revokes the given token and every token reachable from it via
// ReplacedBy. This is the explicit compromise-response path.
func (s *Service) RevokeChain(ctx context.Context, tokenID uuid.UUID) error {
	now := time.Now()
	visited := make(map[uuid.UUID]bool)

	current := tokenID
	for {
		if visited[current] {
			return nil
		}
		visited[current] = true

		token, err := s.store.TokenByID(ctx, current)
		if err != nil {
			if errors.Is(err, ErrTokenNotFound) {
				return ErrTokenNotFound
			}
			return fmt.Errorf("load chain token: %w", err)
		}

		if err := s.store.Revoke(ctx, token.ID, now); err != nil {
			return fmt.Errorf("revoke chain token: %w", err)
		}

		if token.ReplacedBy == nil {
			s.logger.InfoContext(ctx, "revoked refresh token chain",
				logger.UserID(token.UserID),
				logger.TokenID(tokenID),
				slog.Int("chain_length", len(visited)),
				logger.Component("refresh"),
			)
			return nil
		}
		current = *token.ReplacedBy
	}
}

// Verify validates an access credential and returns its claims.
func (s *Service) Verify(ctx context.Context, accessToken string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrAccessTokenInvalid
			}
			return []byte(s.cfg.SigningKey), nil
		},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrAccessTokenInvalid
	}
	return claims, nil
}

func (s *Service) issueToken(ctx context.Context, userID uuid.UUID, scope string) (*Credentials, error) {
	return s.issueTokenWithID(ctx, uuid.New(), userID, scope)
}

func (s *Service) issueTokenWithID(ctx context.Context, id, userID uuid.UUID, scope string) (*Credentials, error) {
	secret, err := s.gen.Token()
	if err != nil {
		return nil, fmt.Errorf("generate refresh secret: %w", err)
	}

	now := time.Now()
	token := &Token{
		ID:        id,
		UserID:    userID,
		TokenHash: s.gen.Hash(secret),
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	accessToken, accessExpiresAt, err := s.mintAccessToken(userID, scope, now)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		UserID:           userID,
		RefreshSecret:    secret,
		RefreshExpiresAt: token.ExpiresAt,
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
	}, nil
}

func (s *Service) mintAccessToken(userID uuid.UUID, scope string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.cfg.AccessTTL)
	claims := AccessClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SigningKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}
