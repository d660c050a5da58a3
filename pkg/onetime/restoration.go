package onetime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authcore/pkg/identity"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/password"
)

// SessionRevoker revokes all of a user's refresh tokens. Satisfied by
// refresh.Service.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// RestorationFlow drives password restoration: a code is sent to a verified
// channel, and confirming it sets a new password and forces
// re-authentication everywhere.
type RestorationFlow struct {
	secrets  *Service
	users    identity.UserStore
	hasher   password.Hasher
	sessions SessionRevoker
	logger   *slog.Logger
}

// RestorationOption configures a RestorationFlow.
type RestorationOption func(*RestorationFlow)

// WithRestorationLogger sets a custom logger for the flow.
func WithRestorationLogger(l *slog.Logger) RestorationOption {
	return func(f *RestorationFlow) {
		f.logger = l
	}
}

// NewRestorationFlow creates a password restoration flow.
func NewRestorationFlow(secrets *Service, users identity.UserStore, hasher password.Hasher, sessions SessionRevoker, opts ...RestorationOption) *RestorationFlow {
	f := &RestorationFlow{
		secrets:  secrets,
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger.Noop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Request issues a restoration code for the identifier's channel.
func (f *RestorationFlow) Request(ctx context.Context, ident identity.Identifier) (*Issued, error) {
	ident = ident.Normalize()

	user, err := f.users.UserByIdentifier(ctx, ident)
	if err != nil {
		return nil, err
	}

	issued, err := f.secrets.Issue(ctx, IssueRequest{
		UserID:       &user.ID,
		Channel:      ident.Kind,
		ChannelValue: ident.Value,
		Purpose:      PurposeRestore,
	})
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "restoration code issued",
		logger.UserID(user.ID),
		logger.Channel(string(ident.Kind)),
		logger.Component("restoration"),
	)
	return issued, nil
}

// Confirm verifies a presented code, sets the new password, and revokes
// every refresh token the user holds so stolen sessions die with the old
// password.
func (f *RestorationFlow) Confirm(ctx context.Context, ident identity.Identifier, code, newPassword string) (*identity.User, error) {
	ident = ident.Normalize()

	secret, err := f.secrets.Verify(ctx, ident.Value, code, PurposeRestore)
	if err != nil {
		return nil, err
	}
	if secret.UserID == nil {
		return nil, ErrSecretInvalid
	}
	userID := *secret.UserID

	hash, err := f.hasher.Hash(ctx, newPassword)
	if err != nil {
		return nil, err
	}
	if err := f.users.SetPasswordHash(ctx, userID, hash); err != nil {
		return nil, fmt.Errorf("set password hash: %w", err)
	}

	if f.sessions != nil {
		if err := f.sessions.RevokeAll(ctx, userID); err != nil {
			return nil, fmt.Errorf("revoke sessions: %w", err)
		}
	}

	user, err := f.users.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "password restored",
		logger.UserID(userID),
		logger.Component("restoration"),
	)
	return user, nil
}
