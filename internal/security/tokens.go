// Package security validates the bearer access tokens issued by the identity provider
// and, for local development, issues them.
package security

import (
	"crypto"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or fails signature,
	// issuer or audience checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSigningDisabled is returned by IssueAccess when no private key is configured.
	ErrSigningDisabled = errors.New("token signing disabled: no private key")
)

// AccessClaims are the claims of an access token. Subject is the user id.
type AccessClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}

// TokenProvider validates access JWTs signed with RS256 or ES256. It also issues them
// when constructed with a private key.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	accessTTL  time.Duration
}

// NewTokenProvider returns a TokenProvider. privateKey may be nil for validate-only use.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
	}
}

// IssueAccess issues an access JWT for userID in sessionID.
// Returns the token string, its jti, and expiration time.
func (p *TokenProvider) IssueAccess(sessionID, userID string) (token, jti string, expiresAt time.Time, err error) {
	if p.privateKey == nil {
		return "", "", time.Time{}, ErrSigningDisabled
	}
	method := signingMethod(p.privateKey.Public())
	if method == nil {
		return "", "", time.Time{}, ErrInvalidToken
	}
	jti, err = generateJTI()
	if err != nil {
		return "", "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	}
	token, err = jwt.NewWithClaims(method, claims).SignedString(p.privateKey)
	return token, jti, expiresAt, err
}

// ValidateAccess checks signature, expiry, issuer and audience and returns the session and user ids.
func (p *TokenProvider) ValidateAccess(tokenString string) (sessionID, userID string, err error) {
	method := signingMethod(p.publicKey)
	if method == nil {
		return "", "", ErrInvalidToken
	}
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return p.publicKey, nil },
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return claims.SessionID, claims.Subject, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
