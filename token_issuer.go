package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultTokenLifetime is the lifetime literal used when none is configured
const DefaultTokenLifetime = "1h"

// TokenIssuer turns an identity into a signed token with a concrete expiry
type TokenIssuer struct {
	signer   TokenSigner
	lifetime string
	now      func() time.Time
	logger   Logger
}

// NewTokenIssuer returns a TokenIssuer that signs with signer and issues
// tokens valid for the lifetime literal (e.g. "1h").
func NewTokenIssuer(signer TokenSigner, lifetime string) *TokenIssuer {
	if lifetime == "" {
		lifetime = DefaultTokenLifetime
	}
	return &TokenIssuer{
		signer:   signer,
		lifetime: lifetime,
		now:      time.Now,
		logger:   defLogger{},
	}
}

func (ti *TokenIssuer) WithLogger(logger Logger) *TokenIssuer {
	if logger != nil {
		ti.logger = logger
	}
	return ti
}

// WithClock overrides the wall clock used to anchor issuance
func (ti *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	if now != nil {
		ti.now = now
	}
	return ti
}

// Lifetime returns the configured lifetime literal
func (ti *TokenIssuer) Lifetime() string {
	return ti.lifetime
}

// Issue signs a token for identity. The expiry is issuance time plus the
// parsed lifetime; the signer output is returned verbatim.
func (ti *TokenIssuer) Issue(ctx context.Context, identity Identity) (*TokenResult, error) {
	if identity == nil {
		return nil, goerrors.New("identity is required", goerrors.CategoryInternal)
	}

	issuedAt := ti.now()
	offset := time.Duration(ParseDuration(ti.lifetime)) * time.Millisecond

	token, err := ti.signer.Sign(identity, issuedAt, ti.lifetime)
	if err != nil {
		ti.logger.Error("TokenIssuer failed to sign token", "client", identity.ID(), "error", err)
		return nil, err
	}

	return &TokenResult{
		Token:     token,
		ExpiresAt: issuedAt.Add(offset),
	}, nil
}
