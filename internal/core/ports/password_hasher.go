package ports

// PasswordHasher wraps the credential hashing primitive. Hash must salt
// per call (two hashes of the same input differ) and Verify must delegate
// to the primitive's own constant-time compare.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, storedHash string) bool
}
