// Package delivery defines the out-of-band code delivery contract and its
// implementations.
//
// The engines treat delivery as fire-and-forget: a secret is durably stored
// before delivery is attempted, and a delivery failure is logged but never
// fails the issuing operation. Re-issue is always safe because issuing
// invalidates prior secrets first.
//
// PostmarkSender delivers email codes through Postmark. DevSender writes
// messages to disk for local development. LogSender only logs that a
// delivery happened (never the code itself) and backs tests.
package delivery
