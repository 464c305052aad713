// Package hash wraps the bcrypt primitive behind the PasswordHasher port.
package hash

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes credentials with bcrypt: salted per call and
// deliberately slow, with an adaptive work factor.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Costs outside the
// valid bcrypt range fall back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash produces a new salted hash. Two calls on the same input never
// produce the same output.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares plaintext against a stored hash using bcrypt's own
// compare routine, which does not leak timing on the first mismatching byte.
func (h *BcryptHasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
