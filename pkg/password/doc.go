// Package password provides the bcrypt-backed password hashing contract used
// by the restoration flow and the account linking engine's password
// confirmation step.
//
// The Hasher interface is the boundary: engines never see bcrypt directly,
// only Hash and Verify. Verify distinguishes "no password set" from "wrong
// password" so callers can surface ErrPasswordIsNotSet to users who only
// ever authenticated passwordlessly.
package password
