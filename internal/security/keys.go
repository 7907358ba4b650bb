package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidKey is returned when PEM input is empty, malformed or of an unsupported key type.
var ErrInvalidKey = errors.New("invalid key")

// LoadPEM returns s itself when it is inline PEM, otherwise the contents of the file at path s.
func LoadPEM(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidKey
	}
	if strings.HasPrefix(s, "-----BEGIN") {
		return []byte(strings.ReplaceAll(s, `\n`, "\n")), nil
	}
	return os.ReadFile(s)
}

func decodeBlock(s string) (*pem.Block, error) {
	raw, err := LoadPEM(s)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, ErrInvalidKey
	}
	return block, nil
}

// ParsePrivateKey parses an RSA or ECDSA private key in PKCS#1, PKCS#8 or SEC 1 form.
func ParsePrivateKey(s string) (crypto.Signer, error) {
	block, err := decodeBlock(s)
	if err != nil {
		return nil, err
	}
	var key any
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, ErrInvalidKey
	}
	if err != nil {
		return nil, err
	}
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return k, nil
	case *ecdsa.PrivateKey:
		return k, nil
	}
	return nil, ErrInvalidKey
}

// ParsePublicKey parses an RSA or ECDSA public key in PKCS#1 or PKIX form.
func ParsePublicKey(s string) (crypto.PublicKey, error) {
	block, err := decodeBlock(s)
	if err != nil {
		return nil, err
	}
	var key any
	switch block.Type {
	case "RSA PUBLIC KEY":
		key, err = x509.ParsePKCS1PublicKey(block.Bytes)
	case "PUBLIC KEY":
		key, err = x509.ParsePKIXPublicKey(block.Bytes)
	default:
		return nil, ErrInvalidKey
	}
	if err != nil {
		return nil, err
	}
	if signingMethod(key) == nil {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// LoadKeys parses the configured key pair. The private key is optional: a server that only
// validates tokens needs just the public key. When publicSrc is empty the public key is
// derived from the private one.
func LoadKeys(privateSrc, publicSrc string) (crypto.Signer, crypto.PublicKey, error) {
	var signer crypto.Signer
	if strings.TrimSpace(privateSrc) != "" {
		s, err := ParsePrivateKey(privateSrc)
		if err != nil {
			return nil, nil, err
		}
		signer = s
	}
	if strings.TrimSpace(publicSrc) == "" {
		if signer == nil {
			return nil, nil, ErrInvalidKey
		}
		return signer, signer.Public(), nil
	}
	pub, err := ParsePublicKey(publicSrc)
	if err != nil {
		return nil, nil, err
	}
	return signer, pub, nil
}

// signingMethod returns RS256 for RSA keys, ES256 for ECDSA keys and nil otherwise.
func signingMethod(pub crypto.PublicKey) jwt.SigningMethod {
	switch pub.(type) {
	case *rsa.PublicKey:
		return jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		return jwt.SigningMethodES256
	}
	return nil
}
