package model

// PasswordHasher derives and checks password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	// VerifyDummy burns the same work as Verify against a hash no password matches.
	VerifyDummy(password string)
}
