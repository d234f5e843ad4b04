package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Clients is the client store
type Clients interface {
	repository.Repository[*Client]

	GetByTaxID(ctx context.Context, taxID string) (*Client, error)
	GetByTaxIDTx(ctx context.Context, tx bun.IDB, taxID string) (*Client, error)
	Register(ctx context.Context, record *Client) (*Client, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *Client) (*Client, error)
	GetOrRegister(ctx context.Context, record *Client) (*Client, error)
	GetOrRegisterTx(ctx context.Context, tx bun.IDB, record *Client) (*Client, error)
}

type clients struct {
	repository.Repository[*Client]
	db *bun.DB
}

var (
	_ Clients                        = (*clients)(nil)
	_ repository.Repository[*Client] = (*clients)(nil)
)

func NewClientsRepository(db *bun.DB) Clients {
	repo := repository.NewRepository[*Client](db, repository.ModelHandlers[*Client]{
		NewRecord: func() *Client { return &Client{} },
		GetID: func(c *Client) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Client, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "cpf"
		},
	})

	return &clients{
		Repository: repo,
		db:         db,
	}
}

func (a *clients) GetByTaxID(ctx context.Context, taxID string) (*Client, error) {
	return a.GetByTaxIDTx(ctx, a.db, taxID)
}

func (a *clients) GetByTaxIDTx(ctx context.Context, tx bun.IDB, taxID string) (*Client, error) {
	record := &Client{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.cpf = ?", NormalizeTaxID(taxID)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"cpf": maskTaxID(taxID),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *clients) Register(ctx context.Context, record *Client) (*Client, error) {
	return a.RegisterTx(ctx, a.db, record)
}

func (a *clients) RegisterTx(ctx context.Context, tx bun.IDB, record *Client) (*Client, error) {
	prepareClientDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *clients) GetOrRegister(ctx context.Context, record *Client) (*Client, error) {
	return a.GetOrRegisterTx(ctx, a.db, record)
}

func (a *clients) GetOrRegisterTx(ctx context.Context, tx bun.IDB, record *Client) (*Client, error) {
	existing, err := a.GetByTaxIDTx(ctx, tx, record.CPF)
	if err == nil {
		return existing, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return a.RegisterTx(ctx, tx, record)
}

// maskTaxID keeps the last two digits only, enough to correlate log lines
func maskTaxID(taxID string) string {
	taxID = NormalizeTaxID(taxID)
	if len(taxID) <= 2 {
		return "***"
	}
	return "*********" + taxID[len(taxID)-2:]
}
