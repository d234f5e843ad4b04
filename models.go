package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Client is a registered client allowed to request tokens
type Client struct {
	bun.BaseModel `bun:"table:clients,alias:cli"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	CPF           string     `bun:"cpf,notnull,unique" json:"cpf,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

func prepareClientDefaults(record *Client) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CPF = NormalizeTaxID(record.CPF)
}
