package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims is the signed payload: the registered claims plus the client
// record the token was issued for.
type JWTClaims struct {
	jwt.RegisteredClaims
	ClientID    string `json:"id,omitempty"`
	ClientName  string `json:"name,omitempty"`
	ClientTaxID string `json:"cpf,omitempty"`
	ClientEmail string `json:"email,omitempty"`
}

// Verify interface compliance
var _ Identity = (*JWTClaims)(nil)

// NewJWTClaims builds the claims for identity, expiring ttl after issuedAt.
func NewJWTClaims(identity Identity, issuedAt time.Time, ttl time.Duration) *JWTClaims {
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		ClientID:    identity.ID(),
		ClientName:  identity.Name(),
		ClientTaxID: identity.TaxID(),
		ClientEmail: identity.Email(),
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

// ID returns the client id, falling back to the subject
func (c *JWTClaims) ID() string {
	if c.ClientID != "" {
		return c.ClientID
	}
	return c.RegisteredClaims.Subject
}

func (c *JWTClaims) Name() string {
	return c.ClientName
}

func (c *JWTClaims) TaxID() string {
	return c.ClientTaxID
}

func (c *JWTClaims) Email() string {
	return c.ClientEmail
}

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ensureTokenID gives every token a unique jti so two tokens issued within
// the same second never collide.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
