package ports

import "time"

// PasswordHasher produces salted one-way hashes and verifies against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenSigner signs a claim set into a bearer token.
type TokenSigner interface {
	Sign(claims map[string]any) (token string, expiresAt time.Time, err error)
}
