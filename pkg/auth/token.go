package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CapabilityManageContacts lets the bearer list, read and reply to contact messages.
const CapabilityManageContacts = "contacts:manage"

const (
	tokenIssuer  = "firehawk"
	minSecretLen = 32
)

// ErrSecretTooShort is returned for signing secrets under 32 bytes.
var ErrSecretTooShort = fmt.Errorf("token secret must be at least %d bytes", minSecretLen)

// Principal is the authenticated caller of an operator endpoint.
type Principal struct {
	Subject      string
	Capabilities []string
}

// Has reports whether the principal holds capability.
func (p *Principal) Has(capability string) bool {
	return p != nil && slices.Contains(p.Capabilities, capability)
}

// adminClaims は管理者トークンのクレーム
type adminClaims struct {
	Capabilities []string `json:"caps"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 operator tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) (*TokenManager, error) {
	if len(secret) < minSecretLen {
		return nil, ErrSecretTooShort
	}
	return &TokenManager{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for subject carrying the given capabilities.
func (m *TokenManager) Issue(subject string, capabilities []string) (string, error) {
	now := m.now()
	claims := adminClaims{
		Capabilities: capabilities,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature, issuer and expiry and returns the token's principal.
func (m *TokenManager) Verify(token string) (*Principal, error) {
	var claims adminClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("verify token: missing subject")
	}
	return &Principal{Subject: claims.Subject, Capabilities: claims.Capabilities}, nil
}
