package linking

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/authcore/pkg/identity"
)

// Assertion is the trust material extracted from an upstream identity
// provider's response: the federated identifier itself plus the channels
// the provider vouches for. Only channels the provider marked verified
// belong here; callers must not copy unverified profile fields in.
type Assertion struct {
	// Identifier is the federated identity being linked. Its Kind must be
	// identity.KindFederated.
	Identifier identity.Identifier

	// VerifiedEmails and VerifiedPhones are the channel values the provider
	// asserts as verified, already normalized.
	VerifiedEmails []string
	VerifiedPhones []string
}

// Validate reports whether the assertion can drive a linking decision.
func (a Assertion) Validate() error {
	if a.Identifier.Kind != identity.KindFederated || a.Identifier.Provider == "" || a.Identifier.Value == "" {
		return identity.ErrInvalidIdentifier
	}
	return nil
}

// channelValues returns the asserted values for one channel kind.
func (a Assertion) channelValues(kind identity.Kind) []string {
	switch kind {
	case identity.KindEmail:
		return a.VerifiedEmails
	case identity.KindPhone:
		return a.VerifiedPhones
	default:
		return nil
	}
}

// Candidate is a local account matched by an assertion, carrying exactly
// the fields the confirmation flow needs. It is stored inside State, so it
// must stay JSON-serializable and free of secrets; in particular the
// password hash never leaves the user store.
type Candidate struct {
	UserID        uuid.UUID     `json:"user_id"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	EmailVerified bool          `json:"email_verified,omitempty"`
	PhoneVerified bool          `json:"phone_verified,omitempty"`
	HasPassword   bool          `json:"has_password,omitempty"`
	MatchedKind   identity.Kind `json:"matched_kind"`
}

func candidateFromUser(u *identity.User, matched identity.Kind) Candidate {
	return Candidate{
		UserID:        u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		HasPassword:   u.HasPassword(),
		MatchedKind:   matched,
	}
}
