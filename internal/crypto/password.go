// Package crypto wraps password transformation behind a small interface so
// the user feature can be tested without paying bcrypt's cost per test.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher transforms plaintext passwords into storable form and verifies
// candidates against stored hashes. Implementations never retain plaintext.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// BcryptHasher is the production Hasher. The zero value uses bcrypt's
// default cost.
type BcryptHasher struct {
	// Cost overrides bcrypt.DefaultCost when non-zero.
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("crypto.BcryptHasher.Hash: %w", err)
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return fmt.Errorf("crypto.BcryptHasher.Compare: %w", err)
	}
	return nil
}
