/*
Package password wraps bcrypt hashing and verification.

The salt is embedded in the stored hash, so Hash and Verify are the whole
contract. No plaintext password is ever persisted or logged anywhere in the
application.
*/
package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a one-way, salted hash from the plaintext password.
// A failure here is fatal for the calling operation (registration fails).
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext password matches the stored hash.
// A wrong password returns false; it is never an error.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
