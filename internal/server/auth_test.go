package server

import (
	"testing"
	"time"
)

func TestDevTokenRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	token, err := mintDevToken("tester", testSecret, time.Hour, now)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	p, err := authenticateJWT(token, testSecret)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.ActorID != "tester" || p.Source != "jwt" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestJWTWrongSecretRejected(t *testing.T) {
	now := time.Now()
	token, err := mintDevToken("tester", testSecret, time.Hour, now)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := authenticateJWT(token, "other-secret"); err == nil {
		t.Fatalf("expected signature rejection")
	}
}

func TestJWTRequiresSubject(t *testing.T) {
	token, err := mintDevToken("", testSecret, time.Hour, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := authenticateJWT(token, testSecret); err == nil {
		t.Fatalf("expected subject requirement")
	}
}

func TestBearerTokenParsing(t *testing.T) {
	if tok, ok := bearerToken("Bearer abc"); !ok || tok != "abc" {
		t.Fatalf("expected abc, got %q %v", tok, ok)
	}
	if _, ok := bearerToken("Basic abc"); ok {
		t.Fatalf("non-bearer scheme must be rejected")
	}
	if _, ok := bearerToken("Bearer"); ok {
		t.Fatalf("missing token must be rejected")
	}
}
