// Package auth provides the credential hasher and the stateless token
// service used by the authentication pipeline.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash at the configured cost. Each call
// salts independently, so equal passwords never produce equal hashes and
// stored hashes cannot be cross-referenced.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash. Malformed
// or truncated hashes fail the comparison rather than erroring out, so a
// corrupted row behaves like a wrong password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NeedsRehash reports whether hash was derived at a cost other than want.
// Raising the configured cost does not invalidate old hashes; callers
// upgrade them opportunistically on the next successful login.
func NeedsRehash(hash string, want int) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost != want
}
