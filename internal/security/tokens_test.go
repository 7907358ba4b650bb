package security

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"
)

func TestTokenProvider_IssueAndValidateAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, jti, exp, err := p.IssueAccess("s1", "u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if token == "" || jti == "" {
		t.Fatal("token or jti empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}
	sid, uid, err := p.ValidateAccess(token)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if sid != "s1" || uid != "u1" {
		t.Errorf("ValidateAccess = %q, %q; want s1, u1", sid, uid)
	}
}

func TestTokenProvider_ValidateAccessRejects(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}

	otherIssuer := NewTokenProvider(signer, signer.Public(), "someone-else", "test-audience", time.Minute)
	otherAudience := NewTokenProvider(signer, signer.Public(), "test-issuer", "other-api", time.Minute)
	expired := NewTokenProvider(signer, signer.Public(), "test-issuer", "test-audience", -time.Minute)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	otherKey := NewTokenProvider(ecKey, ecKey.Public(), "test-issuer", "test-audience", time.Minute)

	testCases := []struct {
		name   string
		issuer *TokenProvider
	}{
		{"wrong issuer", otherIssuer},
		{"wrong audience", otherAudience},
		{"expired", expired},
		{"foreign key", otherKey},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, _, _, err := tc.issuer.IssueAccess("s1", "u1")
			if err != nil {
				t.Fatalf("IssueAccess: %v", err)
			}
			if _, _, err := p.ValidateAccess(token); err != ErrInvalidToken {
				t.Errorf("ValidateAccess: want ErrInvalidToken, got %v", err)
			}
		})
	}

	if _, _, err := p.ValidateAccess("invalid-token"); err != ErrInvalidToken {
		t.Errorf("ValidateAccess garbage: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateOnly(t *testing.T) {
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	verifier := NewTokenProvider(nil, pub, "test-issuer", "test-audience", time.Minute)
	if _, _, _, err := verifier.IssueAccess("s1", "u1"); err != ErrSigningDisabled {
		t.Errorf("IssueAccess without key: want ErrSigningDisabled, got %v", err)
	}

	issuer, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, _, _, err := issuer.IssueAccess("s1", "u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, uid, err := verifier.ValidateAccess(token); err != nil || uid != "u1" {
		t.Errorf("ValidateAccess = %q, %v", uid, err)
	}
}

func TestTokenProvider_ES256(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	p := NewTokenProvider(key, key.Public(), "iss", "aud", time.Minute)
	token, _, _, err := p.IssueAccess("s", "u")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, uid, err := p.ValidateAccess(token); err != nil || uid != "u" {
		t.Errorf("ValidateAccess = %q, %v", uid, err)
	}
}
