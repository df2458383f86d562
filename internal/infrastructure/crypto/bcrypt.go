// Package crypto provides the bcrypt-backed password encoder.
package crypto

import "golang.org/x/crypto/bcrypt"

// BcryptEncoder implements ports.PasswordEncoder with bcrypt.
type BcryptEncoder struct {
	cost int
}

// NewBcryptEncoder returns an encoder with the given cost; a non-positive
// cost falls back to bcrypt.DefaultCost.
func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptEncoder{cost: cost}
}

func (e *BcryptEncoder) Encode(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), e.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (e *BcryptEncoder) Matches(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
