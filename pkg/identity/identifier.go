package identity

import "strings"

// Kind enumerates the identifier namespaces a user can be resolved by.
type Kind string

const (
	KindEmail     Kind = "email"
	KindPhone     Kind = "phone"
	KindUsername  Kind = "username"
	KindFederated Kind = "federated"
)

// Identifier is a typed lookup handle for a user. Provider is set only for
// federated identifiers and is part of their uniqueness scope.
type Identifier struct {
	Kind     Kind   `json:"kind"`
	Value    string `json:"value"`
	Provider string `json:"provider,omitempty"`
}

// NewEmail builds a normalized email identifier.
func NewEmail(value string) Identifier {
	return Identifier{Kind: KindEmail, Value: normalizeValue(KindEmail, value)}
}

// NewPhone builds a phone identifier.
func NewPhone(value string) Identifier {
	return Identifier{Kind: KindPhone, Value: normalizeValue(KindPhone, value)}
}

// NewUsername builds a normalized username identifier.
func NewUsername(value string) Identifier {
	return Identifier{Kind: KindUsername, Value: normalizeValue(KindUsername, value)}
}

// NewFederated builds a federated identifier scoped to a provider.
func NewFederated(provider, value string) Identifier {
	return Identifier{Kind: KindFederated, Value: value, Provider: provider}
}

// Equal reports whether two identifiers refer to the same handle.
// Kind, value, and provider must all match.
func (i Identifier) Equal(other Identifier) bool {
	return i.Kind == other.Kind && i.Value == other.Value && i.Provider == other.Provider
}

// IsZero reports whether the identifier is empty.
func (i Identifier) IsZero() bool {
	return i.Value == ""
}

// Normalize returns a copy with the value canonicalized for its kind.
// Email and username values are case-insensitive; federated subject ids and
// phone numbers are preserved as-is.
func (i Identifier) Normalize() Identifier {
	i.Value = normalizeValue(i.Kind, i.Value)
	return i
}

func normalizeValue(kind Kind, value string) string {
	value = strings.TrimSpace(value)
	switch kind {
	case KindEmail, KindUsername:
		return strings.ToLower(value)
	default:
		return value
	}
}
