package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidSeatToken = errors.New("invalid seat token")

// SeatClaims identifies one player's seat at one match.
type SeatClaims struct {
	MatchID string
	Seat    int
}

// IssueSeatToken signs an HS256 token for seat 1 or 2 of a match.
func IssueSeatToken(secret, matchID string, seat int, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"match_id": matchID,
		"seat":     seat,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign seat token: %w", err)
	}
	return signed, nil
}

// ParseSeatToken validates a token from IssueSeatToken.
func ParseSeatToken(secret, token string) (SeatClaims, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return SeatClaims{}, ErrInvalidSeatToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return SeatClaims{}, ErrInvalidSeatToken
	}
	matchID, _ := claims["match_id"].(string)
	seatf, ok := claims["seat"].(float64)
	if !ok || matchID == "" {
		return SeatClaims{}, ErrInvalidSeatToken
	}
	seat := int(seatf)
	if seat != 1 && seat != 2 {
		return SeatClaims{}, ErrInvalidSeatToken
	}
	return SeatClaims{MatchID: matchID, Seat: seat}, nil
}
