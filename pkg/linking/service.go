package linking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authcore/pkg/identity"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/onetime"
	"github.com/dmitrymomot/authcore/pkg/password"
)

// Status is the outcome of a linking decision.
type Status string

const (
	// StatusSkipped means no local account matched; the caller proceeds to
	// normal provisioning.
	StatusSkipped Status = "skipped"

	// StatusComplete means the federated identifier is now linked and User
	// carries the account.
	StatusComplete Status = "complete"

	// StatusConflict means several accounts matched (or the match could not
	// be disambiguated) and CandidateIDs lists them.
	StatusConflict Status = "conflict"

	// StatusInitiated means a manual flow was opened; StateKey drives the
	// subsequent Advance and Complete calls.
	StatusInitiated Status = "initiated"
)

// Result is what a linking operation decided.
type Result struct {
	Status       Status
	User         *identity.User
	CandidateIDs []uuid.UUID
	Candidates   []Candidate
	StateKey     string
}

// Service decides and drives account linking. Automatic decisions are
// stateless; manual flows park their progress in the StateStore.
type Service struct {
	users   identity.UserStore
	links   identity.LinkStore
	states  StateStore
	secrets *onetime.Service
	hasher  password.Hasher
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a linking service. The onetime service delivers
// confirmation codes for passwordless candidates; the hasher checks
// passwords for the rest.
func NewService(users identity.UserStore, links identity.LinkStore, states StateStore, secrets *onetime.Service, hasher password.Hasher, cfg Config, opts ...Option) *Service {
	s := &Service{
		users:   users,
		links:   links,
		states:  states,
		secrets: secrets,
		hasher:  hasher,
		cfg:     cfg.withDefaults(),
		logger:  logger.Noop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LinkAutomatically resolves an assertion without user interaction:
// exactly one candidate gets linked, zero candidates skip, and several
// candidates either conflict or, with ManualFallback, open a manual flow.
// Linking is idempotent for an identifier already bound to the candidate;
// one bound to a different user fails with identity.ErrIdentifierTaken.
//
// Only candidates whose matched channel is verified locally participate:
// automatic mode has no way to challenge the user, so a password is not
// usable proof here.
func (s *Service) LinkAutomatically(ctx context.Context, assertion Assertion, allowed []identity.Kind) (*Result, error) {
	if err := assertion.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.collectCandidates(ctx, assertion, allowed, false)
	if err != nil {
		return nil, err
	}

	switch len(candidates) {
	case 0:
		return &Result{Status: StatusSkipped}, nil
	case 1:
		return s.finishLink(ctx, assertion, candidates[0].UserID)
	default:
		if s.cfg.ManualFallback {
			return s.initiate(ctx, assertion, candidates)
		}
		return &Result{Status: StatusConflict, CandidateIDs: candidateIDs(candidates)}, nil
	}
}

// Initiate opens a manual linking flow for an assertion. With no matches it
// skips; without a selection UI it degrades to a conflict so the caller can
// fail loudly instead of presenting a picker it does not have.
func (s *Service) Initiate(ctx context.Context, assertion Assertion, allowed []identity.Kind) (*Result, error) {
	if err := assertion.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.collectCandidates(ctx, assertion, allowed, true)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Result{Status: StatusSkipped}, nil
	}
	if !s.cfg.SelectionUI {
		return &Result{Status: StatusConflict, CandidateIDs: candidateIDs(candidates)}, nil
	}
	return s.initiate(ctx, assertion, candidates)
}

// Advance records which candidate the user picked. For a candidate without
// a password it also sends a one-time confirmation code to their verified
// channel, email preferred over phone. The returned key supersedes the one
// passed in.
func (s *Service) Advance(ctx context.Context, key string, selectedUserID uuid.UUID) (string, error) {
	state, err := s.states.Load(ctx, key)
	if err != nil {
		return "", err
	}
	if state.Expired(s.now()) {
		return "", ErrStateExpired
	}

	candidate, ok := state.candidate(selectedUserID)
	if !ok {
		return "", ErrUnknownCandidate
	}

	next := *state
	next.SelectedUserID = &candidate.UserID
	next.SentCode = ""
	next.SentKind = ""

	if !candidate.HasPassword {
		kind, value := confirmationChannel(candidate)
		if value == "" {
			return "", ErrNoVerificationMethod
		}

		issued, err := s.secrets.Issue(ctx, onetime.IssueRequest{
			UserID:       &candidate.UserID,
			Channel:      kind,
			ChannelValue: value,
			Purpose:      onetime.PurposeVerify,
		})
		if err != nil {
			return "", fmt.Errorf("issue confirmation code: %w", err)
		}
		next.SentCode = issued.Plaintext
		next.SentKind = kind
	}

	newKey, err := s.states.Save(ctx, &next)
	if err != nil {
		return "", fmt.Errorf("save linking state: %w", err)
	}
	if err := s.states.Clear(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "stale linking state not cleared",
			logger.Error(err),
			logger.Component("linking"),
		)
	}
	return newKey, nil
}

// Complete proves ownership of the selected account and writes the link.
// A password is checked against the account's hash; a code is matched
// case-insensitively against the one sent by Advance. Exactly one proof
// must be supplied. On success the flow state is cleared and the linked
// user returned; callers treat this as a login and issue session
// credentials for the user via refresh.Service.Issue.
func (s *Service) Complete(ctx context.Context, key, plainPassword, code string) (*identity.User, error) {
	state, err := s.states.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if state.Expired(s.now()) {
		return nil, ErrStateExpired
	}
	if state.SelectedUserID == nil {
		return nil, ErrNoSelection
	}

	user, err := s.users.UserByID(ctx, *state.SelectedUserID)
	if err != nil {
		return nil, fmt.Errorf("load selected user: %w", err)
	}

	switch {
	case plainPassword != "":
		if err := s.hasher.Verify(ctx, plainPassword, user.PasswordHash); err != nil {
			return nil, err
		}
	case code != "":
		if state.SentCode == "" || !strings.EqualFold(code, state.SentCode) {
			return nil, ErrInvalidVerificationCode
		}
	default:
		return nil, ErrNoVerificationMethod
	}

	result, err := s.finishLink(ctx, state.Assertion, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.states.Clear(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "completed linking state not cleared",
			logger.Error(err),
			logger.Component("linking"),
		)
	}

	return result.User, nil
}

func (s *Service) initiate(ctx context.Context, assertion Assertion, candidates []Candidate) (*Result, error) {
	now := s.now()
	state := &State{
		Assertion:  assertion,
		Candidates: candidates,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cfg.StateTTL),
	}
	key, err := s.states.Save(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("save linking state: %w", err)
	}
	return &Result{Status: StatusInitiated, Candidates: candidates, StateKey: key}, nil
}

// finishLink writes the binding and reloads the user. SaveLink is the
// serialization point: a concurrent flow that bound the identifier to a
// different user first surfaces as identity.ErrIdentifierTaken.
func (s *Service) finishLink(ctx context.Context, assertion Assertion, userID uuid.UUID) (*Result, error) {
	if err := s.links.SaveLink(ctx, assertion.Identifier, userID); err != nil {
		return nil, err
	}
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load linked user: %w", err)
	}
	s.logger.InfoContext(ctx, "federated identifier linked",
		logger.UserID(user.ID.String()),
		logger.Provider(assertion.Identifier.Provider),
		logger.Component("linking"),
	)
	return &Result{Status: StatusComplete, User: user}, nil
}

// collectCandidates matches asserted channel values against local users.
// Automatic mode admits a user only when the matched channel is verified
// locally; manual mode also admits password holders, who can prove
// ownership interactively.
func (s *Service) collectCandidates(ctx context.Context, assertion Assertion, allowed []identity.Kind, manual bool) ([]Candidate, error) {
	seen := make(map[uuid.UUID]struct{})
	var out []Candidate

	for _, kind := range allowed {
		for _, value := range assertion.channelValues(kind) {
			ident := identity.Identifier{Kind: kind, Value: value}.Normalize()
			if ident.IsZero() {
				continue
			}

			user, err := s.users.UserByIdentifier(ctx, ident)
			if errors.Is(err, identity.ErrUserNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("match candidate: %w", err)
			}
			if _, dup := seen[user.ID]; dup {
				continue
			}
			if !user.ChannelVerified(kind) && !(manual && user.HasPassword()) {
				continue
			}

			seen[user.ID] = struct{}{}
			out = append(out, candidateFromUser(user, kind))
		}
	}
	return out, nil
}

// confirmationChannel picks where a passwordless candidate's confirmation
// code goes: a verified email wins over a verified phone.
func confirmationChannel(c Candidate) (identity.Kind, string) {
	if c.EmailVerified && c.Email != "" {
		return identity.KindEmail, c.Email
	}
	if c.PhoneVerified && c.Phone != "" {
		return identity.KindPhone, c.Phone
	}
	return "", ""
}

func candidateIDs(candidates []Candidate) []uuid.UUID {
	ids := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.UserID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
