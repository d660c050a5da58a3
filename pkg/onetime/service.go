package onetime

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authcore/pkg/delivery"
	"github.com/dmitrymomot/authcore/pkg/identity"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/secretgen"
)

// IssueRequest describes one secret to create and deliver.
type IssueRequest struct {
	UserID       *uuid.UUID
	Channel      identity.Kind
	ChannelValue string
	Purpose      Purpose

	// SessionBindingHash is stored alongside magic-link secrets when
	// same-browser binding is enabled.
	SessionBindingHash string

	// LinkBase makes delivery render the secret as a link.
	LinkBase string
}

// Issued is the result of a successful Issue. Plaintext appears here once
// and nowhere else.
type Issued struct {
	Secret    *Secret
	Plaintext string
}

// Service runs the generalized one-time-secret protocol.
type Service struct {
	store  Store
	gen    secretgen.Generator
	sender delivery.Sender
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

// WithSender sets the out-of-band delivery collaborator. Without one, Issue
// still stores the secret and the caller delivers the returned plaintext.
func WithSender(sender delivery.Sender) Option {
	return func(s *Service) {
		s.sender = sender
	}
}

// NewService creates a one-time-secret service.
func NewService(store Store, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:  store,
		gen:    secretgen.New(),
		cfg:    cfg.withDefaults(),
		logger: logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue invalidates all prior secrets for the channel value, creates a new
// one, and hands the plaintext to delivery. Delivery failure is logged, not
// returned: the secret is durable by then and re-issue is always safe.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*Issued, error) {
	if req.ChannelValue == "" {
		return nil, identity.ErrInvalidIdentifier
	}

	now := time.Now()
	if err := s.store.InvalidateAllForChannel(ctx, req.ChannelValue, req.Purpose, now); err != nil {
		return nil, fmt.Errorf("invalidate prior secrets: %w", err)
	}

	plaintext, ttl, err := s.generate(req.Purpose)
	if err != nil {
		return nil, err
	}

	secret := &Secret{
		ID:                 uuid.New(),
		UserID:             req.UserID,
		Channel:            req.Channel,
		ChannelValue:       req.ChannelValue,
		SecretHash:         s.gen.Hash(plaintext),
		Purpose:            req.Purpose,
		ExpiresAt:          now.Add(ttl),
		CreatedAt:          now,
		SessionBindingHash: req.SessionBindingHash,
	}
	if err := s.store.Create(ctx, secret); err != nil {
		return nil, fmt.Errorf("store secret: %w", err)
	}

	s.deliver(ctx, secret, plaintext, req.LinkBase, ttl)

	return &Issued{Secret: secret, Plaintext: plaintext}, nil
}

// Resend supersedes the outstanding secret with a fresh one. The old secret
// became unusable the moment the new one was issued.
func (s *Service) Resend(ctx context.Context, req IssueRequest) (*Issued, error) {
	return s.Issue(ctx, req)
}

// Verify checks a presented value against the active secret for the channel.
// A wrong value consumes one attempt; spending the budget is terminal even
// if the correct value is presented afterwards. Success invalidates every
// secret for the channel.
func (s *Service) Verify(ctx context.Context, channelValue, presented string, purpose Purpose) (*Secret, error) {
	secret, err := s.store.ActiveSecret(ctx, channelValue, purpose)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("lookup secret: %w", err)
	}

	return s.consume(ctx, secret, presented)
}

// VerifyByHash checks a presented value looked up by its hash alone; magic
// links verify this way since the caller knows only the token.
func (s *Service) VerifyByHash(ctx context.Context, presented string, purpose Purpose) (*Secret, error) {
	secret, err := s.store.SecretByHash(ctx, s.gen.Hash(presented), purpose)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("lookup secret by hash: %w", err)
	}

	return s.consume(ctx, secret, presented)
}

// PeekByHash looks up the active secret for a presented value without
// consuming it, applying the same expiry and attempt checks as a verify.
// The magic-link flow peeks to validate the session binding first, so a
// binding mismatch leaves the secret usable.
func (s *Service) PeekByHash(ctx context.Context, presented string, purpose Purpose) (*Secret, error) {
	secret, err := s.store.SecretByHash(ctx, s.gen.Hash(presented), purpose)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("lookup secret by hash: %w", err)
	}

	if secret.Expired(time.Now()) {
		return nil, ErrSecretExpired
	}
	if secret.FailedAttempts >= s.cfg.MaxAttempts {
		return nil, ErrMaxAttemptsExceeded
	}
	return secret, nil
}

// HashBinding hashes a same-browser binding secret for storage or compare.
func (s *Service) HashBinding(bindingSecret string) string {
	return s.gen.Hash(bindingSecret)
}

func (s *Service) consume(ctx context.Context, secret *Secret, presented string) (*Secret, error) {
	if secret.Expired(time.Now()) {
		return nil, ErrSecretExpired
	}
	if secret.FailedAttempts >= s.cfg.MaxAttempts {
		return nil, ErrMaxAttemptsExceeded
	}

	if subtle.ConstantTimeCompare([]byte(s.gen.Hash(presented)), []byte(secret.SecretHash)) != 1 {
		attempts, err := s.store.IncrementFailedAttempts(ctx, secret.ID)
		if err != nil {
			return nil, fmt.Errorf("record failed attempt: %w", err)
		}
		if attempts >= s.cfg.MaxAttempts {
			return nil, ErrMaxAttemptsExceeded
		}
		return nil, ErrSecretInvalid
	}

	// One-time use: success burns every secret for the channel.
	if err := s.store.InvalidateAllForChannel(ctx, secret.ChannelValue, secret.Purpose, time.Now()); err != nil {
		return nil, fmt.Errorf("invalidate secrets: %w", err)
	}
	return secret, nil
}

func (s *Service) generate(purpose Purpose) (string, time.Duration, error) {
	switch purpose {
	case PurposeVerify, PurposeRestore:
		code, err := s.gen.Code(s.cfg.CodeLength)
		if err != nil {
			return "", 0, fmt.Errorf("generate code: %w", err)
		}
		return code, s.cfg.CodeTTL, nil
	case PurposeLogin:
		token, err := s.gen.Token()
		if err != nil {
			return "", 0, fmt.Errorf("generate token: %w", err)
		}
		return token, s.cfg.TokenTTL, nil
	default:
		return "", 0, ErrUnsupportedPurpose
	}
}

func (s *Service) deliver(ctx context.Context, secret *Secret, plaintext, linkBase string, ttl time.Duration) {
	if s.sender == nil {
		return
	}

	err := s.sender.SendCode(ctx, delivery.CodeMessage{
		Channel:   secret.Channel,
		To:        secret.ChannelValue,
		Code:      plaintext,
		Purpose:   string(secret.Purpose),
		LinkBase:  linkBase,
		ExpiresIn: ttl,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "one-time code delivery failed",
			logger.Error(err),
			logger.Channel(string(secret.Channel)),
			logger.Purpose(string(secret.Purpose)),
			logger.Component("onetime"),
		)
	}
}
