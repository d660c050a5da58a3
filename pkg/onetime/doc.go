// Package onetime implements the shared lifecycle for single-use secrets:
// verification codes, password restoration codes, and magic-link tokens.
//
// One algorithm covers all three purposes. Issue invalidates every prior
// secret for the channel value before creating a new one, so resending
// supersedes and never stacks; the plaintext is handed to the delivery
// collaborator once and only its hash is stored. Verify enforces expiry and
// a failed-attempt budget: a wrong code increments the counter, and reaching
// the maximum is terminal for that secret even if the correct value is
// presented afterwards. A successful verification invalidates all secrets
// for the channel.
//
// Delivery is fire-and-forget: the secret is durably stored before delivery
// is attempted, and a delivery failure is logged, not returned — re-issue is
// always safe because of invalidate-then-create.
//
// The purpose-specific effects live next to the protocol: Verification marks
// a channel verified, Restoration sets a new password hash and revokes the
// user's refresh tokens.
package onetime
