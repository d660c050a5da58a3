package onetime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/authcore/pkg/identity"
	"github.com/dmitrymomot/authcore/pkg/logger"
)

// VerificationFlow drives channel ownership verification: a code is sent to
// an email or phone the user claims, and confirming it marks the channel
// verified.
type VerificationFlow struct {
	secrets *Service
	users   identity.UserStore
	logger  *slog.Logger
}

// VerificationOption configures a VerificationFlow.
type VerificationOption func(*VerificationFlow)

// WithVerificationLogger sets a custom logger for the flow.
func WithVerificationLogger(l *slog.Logger) VerificationOption {
	return func(f *VerificationFlow) {
		f.logger = l
	}
}

// NewVerificationFlow creates a channel verification flow.
func NewVerificationFlow(secrets *Service, users identity.UserStore, opts ...VerificationOption) *VerificationFlow {
	f := &VerificationFlow{
		secrets: secrets,
		users:   users,
		logger:  logger.Noop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Request issues a verification code for the identifier's channel. The
// identifier must belong to an existing user whose channel is not yet
// verified.
func (f *VerificationFlow) Request(ctx context.Context, ident identity.Identifier) (*Issued, error) {
	ident = ident.Normalize()

	user, err := f.users.UserByIdentifier(ctx, ident)
	if err != nil {
		return nil, err
	}
	if user.ChannelVerified(ident.Kind) {
		return nil, ErrAlreadyVerified
	}

	issued, err := f.secrets.Issue(ctx, IssueRequest{
		UserID:       &user.ID,
		Channel:      ident.Kind,
		ChannelValue: ident.Value,
		Purpose:      PurposeVerify,
	})
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "verification code issued",
		logger.UserID(user.ID),
		logger.Channel(string(ident.Kind)),
		logger.Component("verification"),
	)
	return issued, nil
}

// Confirm verifies a presented code and marks the channel verified.
func (f *VerificationFlow) Confirm(ctx context.Context, ident identity.Identifier, code string) (*identity.User, error) {
	ident = ident.Normalize()

	secret, err := f.secrets.Verify(ctx, ident.Value, code, PurposeVerify)
	if err != nil {
		return nil, err
	}

	userID := secret.UserID
	if userID == nil {
		return nil, ErrSecretInvalid
	}

	if err := f.users.SetChannelVerified(ctx, *userID, ident.Kind); err != nil {
		return nil, fmt.Errorf("mark channel verified: %w", err)
	}

	user, err := f.users.UserByID(ctx, *userID)
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "channel verified",
		logger.UserID(user.ID),
		logger.Channel(string(ident.Kind)),
		logger.Component("verification"),
	)
	return user, nil
}
