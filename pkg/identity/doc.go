// Package identity defines the minimal user and identifier model shared by
// the credential lifecycle engines.
//
// An Identifier is a typed handle a user can be looked up by: an email
// address, a phone number, a username, or a federated (OAuth-style) identity
// scoped to a provider. Identifiers are globally unique per kind; federated
// identifiers are additionally scoped by provider.
//
// The User type is deliberately small: the engines only need a stable id,
// the channel values, their verified flags, and the password hash. Anything
// richer (profile, preferences, billing) belongs to the application, not to
// this package.
//
// Storage is consumer-defined: UserStore and LinkStore are the contracts the
// engines depend on. MemoryStore implements both for tests and single-node
// deployments; PostgresStore implements both on pgx/v5.
package identity
