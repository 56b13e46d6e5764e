package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name    string
		token   string
		expired bool
		wantErr error
	}{
		{"future exp", signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix(), "role": "staff"}), false, nil},
		{"exp of one", signed(t, jwt.MapClaims{"exp": 1}), true, nil},
		{"past exp", signed(t, jwt.MapClaims{"exp": now.Add(-time.Second).Unix()}), true, nil},
		{"no exp", signed(t, jwt.MapClaims{"id": "u1"}), true, ErrNoExpiry},
		{"garbage", "not.a.jwt", true, ErrMalformedToken},
		{"empty", "", true, ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expired, err := Expired(tt.token, now)
			if expired != tt.expired {
				t.Errorf("expired = %v, want %v", expired, tt.expired)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseClaimsIgnoresSignature(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"exp": 4102444800, "id": "abc", "role": "admin"})

	claims, err := ParseClaims(tok)
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.ID != "abc" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}
