// Package magiclink implements passwordless login on top of the one-time
// secret protocol.
//
// Request issues a login token for an email identifier, auto-provisioning a
// new user when configured, and delivers it out of band. Verify consumes the
// token, marks the email verified, optionally revokes the user's other
// sessions, and issues fresh session credentials.
//
// Same-browser binding is optional: when enabled, Request returns a second
// short-lived secret the caller sets in a cookie, and Verify requires it
// back. A link opened in a different browser then fails with
// ErrDifferentBrowser instead of logging the visitor in.
package magiclink
