package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/pinforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims JWTClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func claimsFor(sub string, exp time.Time) JWTClaims {
	return JWTClaims{
		Email: "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
			Issuer:    "pinforge-test",
		},
	}
}

func TestSetContextFromToken(t *testing.T) {
	svc, err := NewAuthService(logger.Nop(), AuthConfig{Secret: "s3cret", Issuer: "pinforge-test"})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	user := uuid.New()
	tok := signToken(t, jwt.SigningMethodHS256, []byte("s3cret"), claimsFor(user.String(), time.Now().Add(time.Hour)))

	ctx, err := svc.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if ctxutil.UserID(ctx) != user {
		t.Fatalf("user id not attached")
	}
}

func TestSetContextFromTokenRejects(t *testing.T) {
	svc, _ := NewAuthService(logger.Nop(), AuthConfig{Secret: "s3cret", Issuer: "pinforge-test"})
	user := uuid.New().String()
	cases := map[string]string{
		"empty":       "",
		"expired":     signToken(t, jwt.SigningMethodHS256, []byte("s3cret"), claimsFor(user, time.Now().Add(-time.Hour))),
		"wrong key":   signToken(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(user, time.Now().Add(time.Hour))),
		"wrong alg":   signToken(t, jwt.SigningMethodHS512, []byte("s3cret"), claimsFor(user, time.Now().Add(time.Hour))),
		"bad subject": signToken(t, jwt.SigningMethodHS256, []byte("s3cret"), claimsFor("not-a-uuid", time.Now().Add(time.Hour))),
		"garbage":     "a.b.c",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.SetContextFromToken(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("want ErrInvalidToken got %v", err)
			}
		})
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	if _, err := NewAuthService(logger.Nop(), AuthConfig{}); err == nil {
		t.Fatalf("want error without secret")
	}
}
