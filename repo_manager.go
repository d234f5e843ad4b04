package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Validate() error
	MustValidate()
	Clients() Clients
}

type mngr struct {
	db      *bun.DB
	clients Clients
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:      db,
		clients: NewClientsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.clients == nil {
		return errors.New("repository clients should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Clients() Clients {
	return m.clients
}

// SeedClients registers every record that is not stored yet, in one transaction
func SeedClients(ctx context.Context, repo RepositoryManager, records []*Client) error {
	if len(records) == 0 {
		return nil
	}

	return repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, record := range records {
			if _, err := repo.Clients().GetOrRegisterTx(ctx, tx, record); err != nil {
				return err
			}
		}
		return nil
	})
}
