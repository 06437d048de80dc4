package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// VerifyOperatorToken checks if the provided token matches the stored hash
func VerifyOperatorToken(hashedToken, plainToken string) bool {
	if hashedToken == "" || plainToken == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// HashOperatorToken produces the value for OPERATOR_TOKEN_HASH.
func HashOperatorToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}
