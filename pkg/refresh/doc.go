// Package refresh implements refresh-token rotation with revocation chains
// and short-lived JWT access credentials.
//
// Refresh secrets are opaque random values stored only as hashes. Rotation
// creates a new row and points the old row's ReplacedBy at it, forming a
// forward chain. Rotation deliberately does NOT revoke the predecessor: a
// replaced token stays valid until its expiry or until an explicit
// revocation. This is a conscious trade-off, not an oversight — it tolerates
// concurrent client retries at the cost of requiring RevokeChain to be
// invoked explicitly when a token is known to be compromised.
//
// Exactly-once rotation is still guaranteed per secret: the store's
// MarkReplaced is a conditional claim, so of two concurrent Rotate calls for
// the same secret exactly one wins and the loser fails closed.
//
// Access credentials are HS256 JWTs (golang-jwt/jwt/v5) minted on issue and
// rotation; they are never persisted.
package refresh
