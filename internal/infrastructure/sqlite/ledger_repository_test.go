package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jpbaz28/Banking-API/internal/api/util"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

func TestLedgerRepository(t *testing.T) {
	repo := NewLedgerRepository(newTestDB(t))
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	entries := []*domain.LedgerEntry{
		{ClientID: "c1", AccountName: "Savings", Type: domain.EntryDeposit, Amount: decimal.NewFromInt(5000), BalanceAfter: decimal.NewFromInt(55000), CreatedAt: old},
		{ClientID: "c1", AccountName: "Savings", Type: domain.EntryWithdrawal, Amount: decimal.NewFromInt(5000), BalanceAfter: decimal.NewFromInt(50000), CreatedAt: time.Now().UTC()},
		{ClientID: "c2", AccountName: "Checking", Type: domain.EntryDeposit, Amount: decimal.RequireFromString("0.50"), BalanceAfter: decimal.RequireFromString("0.50"), CreatedAt: time.Now().UTC()},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if e.ID == 0 {
			t.Fatal("expected id to be assigned")
		}
	}

	listed, err := repo.List(ctx, repository.LedgerFilter{ClientID: "c1"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 entries for c1, got %d", len(listed))
	}
	if listed[0].Type != domain.EntryDeposit || !listed[0].BalanceAfter.Equal(decimal.NewFromInt(55000)) {
		t.Errorf("unexpected first entry: %+v", listed[0])
	}

	withdrawals := repository.LedgerFilter{
		ClientID:   "c1",
		ListFilter: util.ListFilter{Filters: []util.QueryFilter{{Field: "type", Operator: util.OpEq, Value: "withdrawal"}}},
	}
	count, err := repo.Count(ctx, withdrawals)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 withdrawal, got %d", count)
	}

	removed, err := repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 entry removed, got %d", removed)
	}

	count, _ = repo.Count(ctx, repository.LedgerFilter{ClientID: "c1"})
	if count != 1 {
		t.Errorf("expected 1 remaining entry for c1, got %d", count)
	}
}

func TestIdempotencyRepository(t *testing.T) {
	repo := NewIdempotencyRepository(newTestDB(t))
	ctx := context.Background()

	missing, err := repo.Get(ctx, "k1")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil on miss, got %v, %v", missing, err)
	}

	now := time.Now().UTC()
	live := &domain.IdempotencyRecord{
		Key: "k1", Method: "POST", Path: "/clients", StatusCode: 201,
		ContentType: "application/json", Body: []byte(`{"id":"x"}`),
		CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}
	expired := &domain.IdempotencyRecord{
		Key: "k2", Method: "POST", Path: "/clients", StatusCode: 201,
		ContentType: "application/json", Body: []byte(`{}`),
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}
	for _, r := range []*domain.IdempotencyRecord{live, expired} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	got, err := repo.Get(ctx, "k1")
	if err != nil || got == nil {
		t.Fatalf("expected record, got %v, %v", got, err)
	}
	if got.StatusCode != 201 || string(got.Body) != `{"id":"x"}` {
		t.Errorf("unexpected record: %+v", got)
	}

	if got, _ := repo.Get(ctx, "k2"); got != nil {
		t.Error("expired record must not be returned")
	}

	removed, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 expired record removed, got %d", removed)
	}
}

func TestCredentialAndUserRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	if err := users.Create(ctx, domain.NewUser("admin", "hash")); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if _, err := users.FindByUsername(ctx, "ghost"); domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("expected not found for missing user, got %v", err)
	}

	codes := NewAuthCodeRepository(db)
	expired := domain.NewAuthCode("admin", nil, -time.Minute)
	if err := codes.Create(ctx, expired); err != nil {
		t.Fatalf("create auth code failed: %v", err)
	}
	removed, err := codes.DeleteExpired(ctx)
	if err != nil || removed != 1 {
		t.Errorf("expected 1 expired code removed, got %d, %v", removed, err)
	}

	credentials := NewCredentialRepository(db)
	cred := domain.NewCredential("reporting", "secret-hash", []string{"clients:read"})
	if err := credentials.Create(ctx, cred); err != nil {
		t.Fatalf("create credential failed: %v", err)
	}
	found, err := credentials.FindByID(ctx, cred.ID)
	if err != nil {
		t.Fatalf("find credential failed: %v", err)
	}
	if found.Label != "reporting" || len(found.Scopes) != 1 {
		t.Errorf("unexpected credential: %+v", found)
	}
	if err := credentials.Delete(ctx, cred.ID); err != nil {
		t.Fatalf("delete credential failed: %v", err)
	}
	if err := credentials.Delete(ctx, cred.ID); domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestAuthCodeScopesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := NewUserRepository(db).Create(ctx, domain.NewUser("admin", "hash")); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	codes := NewAuthCodeRepository(db)
	code := domain.NewAuthCode("admin", []string{"clients:read", "admin"}, time.Minute)
	if err := codes.Create(ctx, code); err != nil {
		t.Fatalf("create auth code failed: %v", err)
	}

	found, err := codes.FindByCode(ctx, code.Code)
	if err != nil {
		t.Fatalf("find auth code failed: %v", err)
	}
	if len(found.Scopes) != 2 || found.Scopes[1] != "admin" {
		t.Errorf("unexpected scopes: %v", found.Scopes)
	}
	if err := codes.Delete(ctx, code.Code); err != nil {
		t.Fatalf("delete auth code failed: %v", err)
	}
	if _, err := codes.FindByCode(ctx, code.Code); domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestJSONListScan(t *testing.T) {
	var l jsonList
	if err := l.Scan(`["a","b"]`); err != nil || len(l) != 2 {
		t.Errorf("expected two entries, got %v, %v", l, err)
	}
	if err := l.Scan(nil); err != nil || l == nil || len(l) != 0 {
		t.Errorf("expected empty list for NULL, got %v, %v", l, err)
	}
	if err := l.Scan(42); err == nil {
		t.Error("expected error scanning an integer")
	}
	v, err := jsonList(nil).Value()
	if err != nil || v != "[]" {
		t.Errorf("expected [] for nil list, got %v, %v", v, err)
	}
}
