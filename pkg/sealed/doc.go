// Package sealed implements a compact HMAC-signed codec for self-contained
// transient state.
//
// A sealed value is base64url(json(envelope)) + "." + base64url(signature),
// where the envelope wraps the payload with an expiry stamped at seal time.
// The signature is HMAC-SHA256 truncated to 16 bytes and compared in
// constant time, so a holder cannot alter the payload or extend its
// lifetime without the server secret.
//
// The account linking engine uses this as its storage-free state backend: a
// sealed value travels in a cookie and round-trips through the client
// instead of occupying server-side storage.
package sealed
