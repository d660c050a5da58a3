package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal account contract the engines operate on. The engines
// never construct a User directly except through UserStore.CreateUser during
// registration or magic-link auto-provisioning.
type User struct {
	ID            uuid.UUID
	Email         string
	Phone         string
	Username      string
	PasswordHash  []byte
	EmailVerified bool
	PhoneVerified bool
	CreatedAt     time.Time
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u != nil && len(u.PasswordHash) > 0
}

// ChannelValue returns the user's value for a channel kind, or "" when unset.
func (u *User) ChannelValue(kind Kind) string {
	if u == nil {
		return ""
	}
	switch kind {
	case KindEmail:
		return u.Email
	case KindPhone:
		return u.Phone
	case KindUsername:
		return u.Username
	default:
		return ""
	}
}

// ChannelVerified reports whether the user's channel of the given kind has
// been verified. Username has no out-of-band verification and always reports
// false.
func (u *User) ChannelVerified(kind Kind) bool {
	if u == nil {
		return false
	}
	switch kind {
	case KindEmail:
		return u.EmailVerified
	case KindPhone:
		return u.PhoneVerified
	default:
		return false
	}
}
