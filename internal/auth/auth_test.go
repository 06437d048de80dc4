package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestSeatTokenRoundTrip(t *testing.T) {
	token, err := IssueSeatToken("secret", "match_abc", 2, time.Hour)
	if err != nil {
		t.Fatalf("IssueSeatToken: %v", err)
	}

	claims, err := ParseSeatToken("secret", token)
	if err != nil {
		t.Fatalf("ParseSeatToken: %v", err)
	}
	if claims.MatchID != "match_abc" || claims.Seat != 2 {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestSeatTokenRejected(t *testing.T) {
	good, _ := IssueSeatToken("secret", "match_abc", 1, time.Hour)
	expired, _ := IssueSeatToken("secret", "match_abc", 1, -time.Minute)
	badSeat, _ := IssueSeatToken("secret", "match_abc", 3, time.Hour)
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"match_id": "match_abc", "seat": 1})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]struct {
		secret, token string
	}{
		"wrong secret": {"other", good},
		"expired":      {"secret", expired},
		"bad seat":     {"secret", badSeat},
		"alg none":     {"secret", unsigned},
		"garbage":      {"secret", "not-a-token"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSeatToken(tc.secret, tc.token); !errors.Is(err, ErrInvalidSeatToken) {
				t.Errorf("expected ErrInvalidSeatToken, got %v", err)
			}
		})
	}
}

func TestOperatorToken(t *testing.T) {
	hash, err := HashOperatorToken("let-me-tune")
	if err != nil {
		t.Fatalf("HashOperatorToken: %v", err)
	}
	if !VerifyOperatorToken(hash, "let-me-tune") {
		t.Errorf("expected the token to verify")
	}
	if VerifyOperatorToken(hash, "wrong") {
		t.Errorf("wrong token verified")
	}
	if VerifyOperatorToken("", "let-me-tune") {
		t.Errorf("empty hash must never verify")
	}
}

func TestSeatTokenExpiry(t *testing.T) {
	before := time.Now()
	token, err := IssueSeatToken("secret", "match_abc", 1, 90*time.Minute)
	if err != nil {
		t.Fatalf("IssueSeatToken: %v", err)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("exp claim missing or not numeric: %v", claims["exp"])
	}
	want := before.Add(90 * time.Minute).Unix()
	if int64(exp) < want || int64(exp) > want+5 {
		t.Errorf("expected exp near %d, got %d", want, int64(exp))
	}
	if parsed.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		t.Errorf("expected HS256, got %s", parsed.Method.Alg())
	}
}
