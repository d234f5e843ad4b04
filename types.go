package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated client
type Identity interface {
	ID() string
	Name() string
	TaxID() string
	Email() string
}

// IdentityProvider resolves a client identity from its tax identifier.
// A missing client is reported as a nil Identity and a nil error.
type IdentityProvider interface {
	FindIdentityByTaxID(ctx context.Context, taxID string) (Identity, error)
}

// TokenSigner signs an identity payload. expiresIn is a lifetime literal
// (see ParseDuration) anchored at issuedAt.
type TokenSigner interface {
	Sign(identity Identity, issuedAt time.Time, expiresIn string) (string, error)
}

// TokenValidator parses tokens produced by a TokenSigner
type TokenValidator interface {
	Validate(token string) (*JWTClaims, error)
}

// Authenticator exchanges a tax identifier for a signed token
type Authenticator interface {
	Authenticate(ctx context.Context, req AuthRequest) (*TokenResult, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenLifetime() string
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

// TokenResult is the outcome of a successful authentication
type TokenResult struct {
	Token     string
	ExpiresAt time.Time
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Print("[ERR] AUTH " + formatLog(format, args...))
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Print("[WRN] AUTH " + formatLog(format, args...))
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Print("[INF] AUTH " + formatLog(format, args...))
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Print("[DBG] AUTH " + formatLog(format, args...))
}

// formatLog accepts both printf style calls and slog style key/value pairs.
func formatLog(format string, args ...any) string {
	if strings.Contains(format, "%") {
		return newline(fmt.Sprintf(format, args...))
	}

	var b strings.Builder
	b.WriteString(format)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	return newline(b.String())
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
