// Package crypto provides salted scrypt password hashing and verification.
//
// Credentials have the form hex(derivedKey) + "." + saltHex, where the hex
// salt string itself is the scrypt salt. This keeps credentials written by
// the admin seeding script verifiable.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	keyLength = 64
	separator = "."

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// ErrAuthUnavailable is returned when a key cannot be derived.
var ErrAuthUnavailable = errors.New("authentication unavailable")

var keyFunc = scrypt.Key

// HashPassword derives a salted credential from the plaintext password.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", ErrAuthUnavailable
	}
	saltHex := hex.EncodeToString(salt)

	key, err := derive(password, saltHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + separator + saltHex, nil
}

// CheckPasswordHash reports whether password matches the stored credential.
// Malformed credentials never match. The error is ErrAuthUnavailable when
// the key cannot be derived.
func CheckPasswordHash(credential, password string) (bool, error) {
	keyHex, saltHex, ok := strings.Cut(credential, separator)
	if !ok || keyHex == "" || saltHex == "" {
		return false, nil
	}
	stored, err := hex.DecodeString(keyHex)
	if err != nil || len(stored) != keyLength {
		return false, nil
	}

	supplied, err := derive(password, saltHex)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(stored, supplied) == 1, nil
}

func derive(password, salt string) ([]byte, error) {
	key, err := keyFunc([]byte(password), []byte(salt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, ErrAuthUnavailable
	}
	return key, nil
}
