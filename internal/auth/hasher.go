package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a plaintext password into a stored digest and checks
// candidates against it. Implementations never fail on malformed input;
// a digest that cannot be interpreted simply verifies false.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// NewHasher selects a Hasher by scheme name. "bcrypt" returns the salted
// scheme with the given cost; anything else returns the legacy SHA-256
// hasher, which is what existing password rows were written with.
func NewHasher(scheme string, bcryptCost int) Hasher {
	if scheme == "bcrypt" {
		return BcryptHasher{Cost: bcryptCost}
	}
	return SHA256Hasher{}
}

// SHA256Hasher is the legacy scheme: a single unsalted SHA-256 pass encoded
// as lowercase hex. It is fast and therefore weak against offline guessing;
// it exists for compatibility with already-stored digests. New deployments
// should set HASH_SCHEME=bcrypt.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plain string) (string, error) {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(plain, digest string) bool {
	computed, _ := h.Hash(plain)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// BcryptHasher wraps golang.org/x/crypto/bcrypt. Verify tolerates digests
// written by other schemes: bcrypt rejects them as malformed and the
// comparison reports false.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
