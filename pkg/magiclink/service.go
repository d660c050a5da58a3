package magiclink

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authcore/pkg/identity"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/onetime"
	"github.com/dmitrymomot/authcore/pkg/refresh"
	"github.com/dmitrymomot/authcore/pkg/secretgen"
)

// CredentialIssuer issues and revokes session credentials. Satisfied by
// refresh.Service.
type CredentialIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID, scope string) (*refresh.Credentials, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// Request is the result of a successful link request. BindingSecret is set
// only when same-browser binding is enabled; the caller stores it in a
// short-lived cookie and presents it back at Verify.
type Request struct {
	Email         string
	BindingSecret string
	Issued        *onetime.Issued
}

// Login is the result of a successful link verification.
type Login struct {
	User        *identity.User
	Credentials *refresh.Credentials
	FirstLogin  bool // this verification is what verified the email
}

// Service implements passwordless login.
type Service struct {
	secrets     *onetime.Service
	users       identity.UserStore
	credentials CredentialIssuer
	gen         secretgen.Generator
	cfg         Config
	logger      *slog.Logger
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithGenerator overrides the binding-secret generator.
func WithGenerator(gen secretgen.Generator) Option {
	return func(s *Service) {
		s.gen = gen
	}
}

// NewService creates a magic link service.
func NewService(secrets *onetime.Service, users identity.UserStore, credentials CredentialIssuer, cfg Config, opts ...Option) *Service {
	s := &Service{
		secrets:     secrets,
		users:       users,
		credentials: credentials,
		gen:         secretgen.New(),
		cfg:         cfg,
		logger:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestLink issues a login token for the email and hands it to delivery.
// Unknown identifiers are auto-provisioned when configured, otherwise the
// request fails with ErrIdentifierNotFound.
func (s *Service) RequestLink(ctx context.Context, email string) (*Request, error) {
	ident := identity.NewEmail(email)
	if ident.IsZero() {
		return nil, identity.ErrInvalidIdentifier
	}

	user, err := s.users.UserByIdentifier(ctx, ident)
	if err != nil {
		if !errors.Is(err, identity.ErrUserNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		if !s.cfg.AutoProvision {
			return nil, ErrIdentifierNotFound
		}
		// Provisioned unverified; the first successful link verifies it.
		user, err = s.users.CreateUser(ctx, ident)
		if err != nil {
			return nil, fmt.Errorf("provision user: %w", err)
		}
		s.logger.InfoContext(ctx, "auto-provisioned user for magic link",
			logger.UserID(user.ID),
			logger.Component("magiclink"),
		)
	}

	req := &Request{Email: ident.Value}

	var bindingHash string
	if s.cfg.RequireSameBrowser {
		bindingSecret, err := s.gen.Token()
		if err != nil {
			return nil, fmt.Errorf("generate binding secret: %w", err)
		}
		req.BindingSecret = bindingSecret
		bindingHash = s.gen.Hash(bindingSecret)
	}

	issued, err := s.secrets.Issue(ctx, onetime.IssueRequest{
		UserID:             &user.ID,
		Channel:            identity.KindEmail,
		ChannelValue:       ident.Value,
		Purpose:            onetime.PurposeLogin,
		SessionBindingHash: bindingHash,
		LinkBase:           s.cfg.LinkBase,
	})
	if err != nil {
		return nil, err
	}

	req.Issued = issued
	return req, nil
}

// VerifyLink consumes a login token and logs the user in. The binding
// secret, when one was stored at request time, must hash to the stored
// value or the login fails with ErrDifferentBrowser. The binding is
// checked before the token is consumed: a mismatch leaves the link usable
// from the browser that requested it.
func (s *Service) VerifyLink(ctx context.Context, token, bindingSecret string) (*Login, error) {
	secret, err := s.secrets.PeekByHash(ctx, token, onetime.PurposeLogin)
	if err != nil {
		return nil, err
	}

	if secret.SessionBindingHash != "" {
		presented := s.gen.Hash(bindingSecret)
		if bindingSecret == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(secret.SessionBindingHash)) != 1 {
			return nil, ErrDifferentBrowser
		}
	}

	if _, err := s.secrets.VerifyByHash(ctx, token, onetime.PurposeLogin); err != nil {
		return nil, err
	}

	if secret.UserID == nil {
		return nil, onetime.ErrSecretInvalid
	}

	user, err := s.users.UserByID(ctx, *secret.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	firstLogin := false
	if !user.EmailVerified {
		if err := s.users.SetChannelVerified(ctx, user.ID, identity.KindEmail); err != nil {
			return nil, fmt.Errorf("mark email verified: %w", err)
		}
		user.EmailVerified = true
		firstLogin = true
	}

	if s.cfg.RevokeOtherSessions {
		if err := s.credentials.RevokeAll(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("revoke other sessions: %w", err)
		}
	}

	creds, err := s.credentials.Issue(ctx, user.ID, "")
	if err != nil {
		return nil, fmt.Errorf("issue credentials: %w", err)
	}

	s.logger.InfoContext(ctx, "magic link login",
		logger.UserID(user.ID),
		logger.Component("magiclink"),
	)

	return &Login{User: user, Credentials: creds, FirstLogin: firstLogin}, nil
}
