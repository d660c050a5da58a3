package linking

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authcore/pkg/identity"
)

// State is the transient record of an in-flight manual linking flow. It is
// treated as copy-on-write: services never mutate a loaded State in place,
// they save an updated copy and hand the caller a fresh key.
type State struct {
	Assertion  Assertion   `json:"assertion"`
	Candidates []Candidate `json:"candidates"`

	// SelectedUserID is set by Advance once the user picks an account.
	SelectedUserID *uuid.UUID `json:"selected_user_id,omitempty"`

	// SentCode is the confirmation code issued for a passwordless
	// candidate, recorded so Complete can match it. SentKind names the
	// channel it went to. The state itself is tamper-evident (server-side
	// or sealed), which is what makes keeping the code here safe.
	SentCode string        `json:"sent_code,omitempty"`
	SentKind identity.Kind `json:"sent_kind,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the flow outlived its TTL.
func (s *State) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// candidate returns the candidate with the given user id, if any.
func (s *State) candidate(id uuid.UUID) (Candidate, bool) {
	for _, c := range s.Candidates {
		if c.UserID == id {
			return c, true
		}
	}
	return Candidate{}, false
}
