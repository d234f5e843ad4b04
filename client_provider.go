package auth

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// ClientFinder is the store lookup ClientProvider depends on
type ClientFinder interface {
	GetByTaxID(ctx context.Context, taxID string) (*Client, error)
}

// ClientProvider implements IdentityProvider on top of a client store
type ClientProvider struct {
	store  ClientFinder
	logger Logger
}

var _ IdentityProvider = (*ClientProvider)(nil)

// NewClientProvider will create a new ClientProvider
func NewClientProvider(store ClientFinder) *ClientProvider {
	return &ClientProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *ClientProvider) WithLogger(l Logger) *ClientProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

// FindIdentityByTaxID returns the client identity for taxID. A client that
// does not exist yields (nil, nil).
func (p *ClientProvider) FindIdentityByTaxID(ctx context.Context, taxID string) (Identity, error) {
	client, err := p.store.GetByTaxID(ctx, taxID)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			p.logger.Debug("client not found", "cpf", maskTaxID(taxID))
			return nil, nil
		}
		// store errors may carry their own category, force them to internal
		return nil, &goerrors.Error{
			Category: goerrors.CategoryInternal,
			Code:     http.StatusInternalServerError,
			TextCode: TextCodeInternal,
			Message:  "failed to retrieve client",
			Source:   err,
		}
	}

	if client == nil {
		return nil, nil
	}

	return NewIdentityFromClient(client), nil
}
