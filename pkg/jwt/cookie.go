package jwt

import (
	"encoding/json"
	"time"

	jose "github.com/go-jose/go-jose/v3"
)

type cookiePayload struct {
	Token     string `json:"tok"`
	ExpiresAt int64  `json:"exp"`
}

// CookieSigner wraps refresh tokens in a compact HS256 JWS for the device cookie
type CookieSigner struct {
	key    []byte
	signer jose.Signer
}

var newJoseSigner = jose.NewSigner

// NewCookieSigner creates a signer keyed with the cookie secret
func NewCookieSigner(secret string) (*CookieSigner, error) {
	key := []byte(secret)
	signer, err := newJoseSigner(jose.SigningKey{Algorithm: jose.HS256, Key: key}, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return nil, err
	}
	return &CookieSigner{key: key, signer: signer}, nil
}

// Sign produces the cookie value for a refresh token
func (s *CookieSigner) Sign(refreshToken string, expiresAt time.Time) (string, error) {
	payload, err := json.Marshal(cookiePayload{Token: refreshToken, ExpiresAt: expiresAt.Unix()})
	if err != nil {
		return "", err
	}
	object, err := s.signer.Sign(payload)
	if err != nil {
		return "", err
	}
	return object.CompactSerialize()
}

// Open verifies the cookie value and returns the refresh token it carries
func (s *CookieSigner) Open(value string) (string, error) {
	object, err := jose.ParseSigned(value)
	if err != nil {
		return "", ErrInvalidToken
	}
	if len(object.Signatures) != 1 || object.Signatures[0].Header.Algorithm != string(jose.HS256) {
		return "", ErrInvalidToken
	}
	raw, err := object.Verify(s.key)
	if err != nil {
		return "", ErrInvalidToken
	}

	var payload cookiePayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Token == "" {
		return "", ErrInvalidToken
	}
	if time.Now().Unix() >= payload.ExpiresAt {
		return "", ErrExpiredToken
	}
	return payload.Token, nil
}
