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

// authCodeRow mirrors domain.AuthCode with scopes as a JSON column.
type authCodeRow struct {
	Code      string    `db:"code"`
	Username  string    `db:"username"`
	Scopes    jsonList  `db:"scopes"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (row authCodeRow) toDomain() *domain.AuthCode {
	return &domain.AuthCode{
		Code:      row.Code,
		Username:  row.Username,
		Scopes:    []string(row.Scopes),
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}
}

func errAuthCodeNotFound(code string) error {
	return domain.NewError(domain.KindNotFound, "auth code not found: %s", code)
}

type authCodeRepository struct {
	db *DB
}

func NewAuthCodeRepository(db *DB) repository.AuthCodeRepository {
	return &authCodeRepository{db: db}
}

func (r *authCodeRepository) Create(ctx context.Context, authCode *domain.AuthCode) error {
	row := authCodeRow{
		Code:      authCode.Code,
		Username:  authCode.Username,
		Scopes:    jsonList(authCode.Scopes),
		ExpiresAt: authCode.ExpiresAt,
		CreatedAt: authCode.CreatedAt,
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO auth_code (code, username, scopes, expires_at, created_at)
		VALUES (:code, :username, :scopes, :expires_at, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("failed to create auth code: %w", err)
	}
	return nil
}

func (r *authCodeRepository) FindByCode(ctx context.Context, code string) (*domain.AuthCode, error) {
	var row authCodeRow
	err := r.db.GetContext(ctx, &row, `
		SELECT code, username, scopes, expires_at, created_at
		FROM auth_code WHERE code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errAuthCodeNotFound(code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find auth code: %w", err)
	}
	return row.toDomain(), nil
}

func (r *authCodeRepository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_code WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("failed to delete auth code: %w", err)
	}
	return expectRow(result, errAuthCodeNotFound(code))
}

func (r *authCodeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_code WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired auth codes: %w", err)
	}
	return affected(result)
}
