// Package secretgen produces the random secrets and one-way hashes the
// credential engines rely on.
//
// Two secret shapes are supported: opaque URL-safe tokens for machine
// channels (refresh secrets, magic links) and short human-enterable codes
// for out-of-band delivery (email/SMS verification). Codes use an alphabet
// with visually ambiguous characters removed so users can transcribe them
// reliably.
//
// Hash is deterministic SHA-256 (hex). Secrets are handed to the caller in
// plaintext exactly once; only the hash is ever stored.
package secretgen
