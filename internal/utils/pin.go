package utils

import "golang.org/x/crypto/bcrypt"

// HashPIN returns the bcrypt hash of a numeric PIN using the given cost.
// PINs are short, so the hash cost is the only brute-force protection the
// credential has.
func HashPIN(pin string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPIN safely compares a bcrypt hash against a plain PIN.
func VerifyPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
