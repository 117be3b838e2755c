package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
	"github.com/jpbaz28/Banking-API/internal/infrastructure/sqlite"
)

func newAuthService(t *testing.T) (*AuthService, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewAuthService(
		sqlite.NewUserRepository(db),
		sqlite.NewCredentialRepository(db),
		sqlite.NewAuthCodeRepository(db),
		"test-secret",
		"HS256",
	)
	return svc, db
}

func TestAuthService_AuthorizationCodeFlow(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "admin", "hunter2")
	require.NoError(t, err)

	_, err = svc.AuthorizeUser(ctx, "admin", "wrong")
	assert.Error(t, err)
	_, err = svc.AuthorizeUser(ctx, "ghost", "hunter2")
	assert.Error(t, err)

	code, err := svc.AuthorizeUser(ctx, "admin", "hunter2")
	require.NoError(t, err)

	token, err := svc.ExchangeAuthCode(ctx, code.Code)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, SubjectUser, claims.SubjectType)
	assert.True(t, claims.HasScope("clients:write"))

	// single use
	_, err = svc.ExchangeAuthCode(ctx, code.Code)
	assert.Error(t, err)
}

func TestAuthService_ExpiredCode(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "admin", "hunter2")
	require.NoError(t, err)

	expired := domain.NewAuthCode("admin", []string{ScopeAll}, -time.Minute)
	require.NoError(t, sqlite.NewAuthCodeRepository(db).Create(ctx, expired))

	_, err = svc.ExchangeAuthCode(ctx, expired.Code)
	assert.Error(t, err)
}

func TestAuthService_CredentialFlow(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	credential, secret, err := svc.CreateCredential(ctx, "reporting", []string{"clients:read"})
	require.NoError(t, err)
	assert.NotEqual(t, secret, credential.Secret)

	token, err := svc.AuthenticateCredential(ctx, credential.ID, secret)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, SubjectClient, claims.SubjectType)
	assert.True(t, claims.HasScope("clients:read"))
	assert.False(t, claims.HasScope("clients:write"))

	_, err = svc.AuthenticateCredential(ctx, credential.ID, "nope")
	assert.Error(t, err)

	label := "renamed"
	updated, err := svc.UpdateCredential(ctx, credential.ID, &label, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Label)
	assert.Equal(t, []string{"clients:read"}, updated.Scopes)

	require.NoError(t, svc.DeleteCredential(ctx, credential.ID))
	_, err = svc.AuthenticateCredential(ctx, credential.ID, secret)
	assert.Error(t, err)
}

func TestAuthService_RejectsForeignTokens(t *testing.T) {
	svc, _ := newAuthService(t)
	other := NewAuthService(nil, nil, nil, "other-secret", "HS256")
	hs512 := NewAuthService(nil, nil, nil, "test-secret", "HS512")

	token, err := other.generateJWT("admin", SubjectUser, nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	token, err = hs512.generateJWT("admin", SubjectUser, nil)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

// consumedElsewhere lets FindByCode succeed, then removes the code before the
// caller's own Delete runs, as a concurrent exchange would.
type consumedElsewhere struct {
	repository.AuthCodeRepository
}

func (c consumedElsewhere) FindByCode(ctx context.Context, code string) (*domain.AuthCode, error) {
	found, err := c.AuthCodeRepository.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := c.AuthCodeRepository.Delete(ctx, code); err != nil {
		return nil, err
	}
	return found, nil
}

func TestAuthService_ExchangeLosesRaceForCode(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	codes := sqlite.NewAuthCodeRepository(db)
	svc := NewAuthService(
		sqlite.NewUserRepository(db),
		sqlite.NewCredentialRepository(db),
		consumedElsewhere{codes},
		"test-secret",
		"HS256",
	)

	_, err = svc.CreateUser(ctx, "admin", "hunter2")
	require.NoError(t, err)
	code, err := svc.AuthorizeUser(ctx, "admin", "hunter2")
	require.NoError(t, err)

	token, err := svc.ExchangeAuthCode(ctx, code.Code)
	assert.Empty(t, token)
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}
