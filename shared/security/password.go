package security

import (
	"github.com/matthewhartstonge/argon2"
)

// HashPassword hashes the password with argon2id and a random salt. The
// returned value is the PHC encoded form, carrying its own parameters and salt.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()

	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
