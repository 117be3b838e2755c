package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":memory:", ":memory:?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"},
		{"/var/lib/bankapi/bank.db?mode=rwc", "/var/lib/bankapi/bank.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		if got := dsn(tt.in); got != tt.want {
			t.Errorf("dsn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_PragmasOnEveryConnection(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "bank.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	// hold several connections at once so the pool has to open new ones
	for i := 0; i < 4; i++ {
		conn, err := db.Connx(ctx)
		if err != nil {
			t.Fatalf("failed to get connection %d: %v", i, err)
		}
		defer conn.Close()

		var busy, fk int
		var mode string
		if err := conn.GetContext(ctx, &busy, "PRAGMA busy_timeout"); err != nil {
			t.Fatalf("busy_timeout: %v", err)
		}
		if err := conn.GetContext(ctx, &fk, "PRAGMA foreign_keys"); err != nil {
			t.Fatalf("foreign_keys: %v", err)
		}
		if err := conn.GetContext(ctx, &mode, "PRAGMA journal_mode"); err != nil {
			t.Fatalf("journal_mode: %v", err)
		}
		if busy != 5000 || fk != 1 || mode != "wal" {
			t.Errorf("connection %d: busy_timeout=%d foreign_keys=%d journal_mode=%s", i, busy, fk, mode)
		}
	}
}

func TestNew_AddsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.db")

	old, err := sqlx.Connect("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	_, err = old.Exec(`CREATE TABLE idempotency_record (
		idempotency_key TEXT PRIMARY KEY,
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		content_type TEXT NOT NULL,
		body BLOB,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	)`)
	old.Close()
	if err != nil {
		t.Fatalf("failed to create old table: %v", err)
	}

	db, err := New(path)
	if err != nil {
		t.Fatalf("failed to open migrated database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := NewIdempotencyRepository(db)
	now := time.Now().UTC()
	record := &domain.IdempotencyRecord{Key: "k", Method: "POST", Path: "/clients", RequestHash: "abc", StatusCode: 201, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	found, err := repo.Get(ctx, "k")
	if err != nil || found == nil || found.RequestHash != "abc" {
		t.Errorf("expected stored hash, got %+v, %v", found, err)
	}

	// opening again leaves the column alone
	db2, err := New(path)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	db2.Close()
}
