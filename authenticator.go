package auth

import (
	"context"
	"reflect"
)

// Auther implements Authenticator: look the client up by tax identifier and
// issue a token when it exists.
type Auther struct {
	provider IdentityProvider
	issuer   *TokenIssuer
	logger   Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, issuer *TokenIssuer) *Auther {
	return &Auther{
		provider: provider,
		issuer:   issuer,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenIssuer returns the TokenIssuer used by this Authenticator
func (s *Auther) TokenIssuer() *TokenIssuer {
	return s.issuer
}

// Authenticate resolves req.TaxID to a client and issues a token for it.
// An unknown identifier fails with ErrUnauthorized; lookup and signing
// failures are returned unchanged.
func (s *Auther) Authenticate(ctx context.Context, req AuthRequest) (*TokenResult, error) {
	taxID := req.GetTaxID()

	identity, err := s.provider.FindIdentityByTaxID(ctx, taxID)
	if err != nil {
		s.logger.Error("Authenticate identity lookup error", "error", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Info("Authenticate no client for identifier")
		return nil, ErrUnauthorized
	}

	result, err := s.issuer.Issue(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Authenticate issued token", "client", identity.ID(), "expires_at", result.ExpiresAt)

	return result, nil
}
