package accounts

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a password into the digest stored for an account.
type Hasher interface {
	Hash(password string) (string, error)
}

// SHA256Hasher produces the unsalted hex digest used by existing
// user_credentials documents. Same password, same digest.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// BcryptHasher produces salted bcrypt digests.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// HasherByName maps the PASSWORD_HASHER setting to a Hasher.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// checkPassword accepts digests from either hasher, so switching hashers
// does not lock out existing accounts.
func checkPassword(digest, password string) bool {
	if strings.HasPrefix(digest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	want, _ := SHA256Hasher{}.Hash(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(want)) == 1
}
