package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

const credentialColumns = `id, secret, label, scopes, created_at, updated_at`

type credentialRow struct {
	ID        string    `db:"id"`
	Secret    string    `db:"secret"`
	Label     string    `db:"label"`
	Scopes    jsonList  `db:"scopes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newCredentialRow(c *domain.Credential) credentialRow {
	return credentialRow{
		ID:        c.ID,
		Secret:    c.Secret,
		Label:     c.Label,
		Scopes:    jsonList(c.Scopes),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (row credentialRow) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:        row.ID,
		Secret:    row.Secret,
		Label:     row.Label,
		Scopes:    []string(row.Scopes),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func errCredentialNotFound(id string) error {
	return domain.NewError(domain.KindNotFound, "credential not found: %s", id)
}

type credentialRepository struct {
	db *DB
}

func NewCredentialRepository(db *DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Create(ctx context.Context, credential *domain.Credential) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO credential (`+credentialColumns+`)
		VALUES (:id, :secret, :label, :scopes, :created_at, :updated_at)`,
		newCredentialRow(credential))
	if err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

func (r *credentialRepository) FindByID(ctx context.Context, id string) (*domain.Credential, error) {
	var row credentialRow
	err := r.db.GetContext(ctx, &row, `SELECT `+credentialColumns+` FROM credential WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errCredentialNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}
	return row.toDomain(), nil
}

// Update changes label and scopes. The secret is fixed at creation.
func (r *credentialRepository) Update(ctx context.Context, credential *domain.Credential) error {
	result, err := r.db.NamedExecContext(ctx, `
		UPDATE credential SET label = :label, scopes = :scopes, updated_at = :updated_at
		WHERE id = :id`, newCredentialRow(credential))
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	return expectRow(result, errCredentialNotFound(credential.ID))
}

func (r *credentialRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM credential WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return expectRow(result, errCredentialNotFound(id))
}

func (r *credentialRepository) List(ctx context.Context) ([]*domain.Credential, error) {
	var rows []credentialRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+credentialColumns+` FROM credential ORDER BY label`); err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	credentials := make([]*domain.Credential, 0, len(rows))
	for _, row := range rows {
		credentials = append(credentials, row.toDomain())
	}
	return credentials, nil
}
