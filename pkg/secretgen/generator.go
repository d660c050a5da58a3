package secretgen

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"math/big"
)

// codeAlphabet excludes 0/O, 1/I/l, and other easily confused glyphs.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// tokenBytes is the entropy of an opaque token (256 bits).
const tokenBytes = 32

var (
	// ErrInvalidCodeLength indicates a non-positive requested code length.
	ErrInvalidCodeLength = errors.New("secretgen.invalid_code_length")

	// ErrEntropyUnavailable indicates the system randomness source failed.
	ErrEntropyUnavailable = errors.New("secretgen.entropy_unavailable")
)

// Generator produces random secrets and their storage hashes.
type Generator interface {
	// Token returns a URL-safe opaque secret with 256 bits of entropy.
	Token() (string, error)

	// Code returns a human-enterable code of the given length drawn from an
	// unambiguous alphabet.
	Code(length int) (string, error)

	// Hash returns the deterministic one-way hash of a secret, hex encoded.
	Hash(secret string) string
}

// New creates the default crypto/rand backed generator.
func New() Generator {
	return generator{}
}

type generator struct{}

func (generator) Token() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrEntropyUnavailable, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (generator) Code(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidCodeLength
	}

	max := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Join(ErrEntropyUnavailable, err)
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}

func (generator) Hash(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
