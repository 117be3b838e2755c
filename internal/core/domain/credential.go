package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credential is a machine identity for the client_credentials grant.
type Credential struct {
	ID        string    `db:"id"`     // UUID, used as client_id
	Secret    string    `db:"secret"` // bcrypt hashed
	Label     string    `db:"label"`
	Scopes    []string  `db:"scopes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewCredential(label string, hashedSecret string, scopes []string) *Credential {
	now := time.Now().UTC()
	if scopes == nil {
		scopes = []string{}
	}
	return &Credential{
		ID:        uuid.New().String(),
		Secret:    hashedSecret,
		Label:     label,
		Scopes:    scopes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
