// Package linking resolves what happens when a federated identity assertion
// matches existing local accounts.
//
// Automatic mode is a pure decision: collect candidate users whose verified
// channels appear in the assertion, then link when exactly one distinct
// candidate exists, skip when none do, and report a conflict when several
// do. An unverified channel never makes a user a candidate — that would let
// an attacker claim an email on a provider and silently take over a local
// account.
//
// Manual mode drives a user-facing confirmation: Initiate collects
// candidates and parks them in transient state, Advance records the user's
// selection and sends a confirmation code when the selected account has no
// password, and Complete proves ownership by password or code before the
// link is written.
//
// The transient state lives behind the StateStore interface with three
// interchangeable backends: in-memory, Redis, and a self-contained sealed
// value that travels through the client. State is copy-on-write: every
// mutation saves a whole new value and yields a fresh key.
package linking
