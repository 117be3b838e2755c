package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS user (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS credential (
	id TEXT PRIMARY KEY,
	secret TEXT NOT NULL,
	label TEXT NOT NULL,
	scopes TEXT NOT NULL, -- JSON array
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS auth_code (
	code TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	scopes TEXT NOT NULL, -- JSON array
	expires_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (username) REFERENCES user(username) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS client (
	id TEXT PRIMARY KEY,
	fname TEXT NOT NULL,
	lname TEXT NOT NULL,
	accounts TEXT NOT NULL, -- JSON array of {name, amount}
	version INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_entry (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id TEXT NOT NULL,
	account_name TEXT NOT NULL,
	type TEXT NOT NULL,
	amount TEXT NOT NULL, -- decimal string
	balance_after TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS idempotency_record (
	idempotency_key TEXT PRIMARY KEY,
	method TEXT NOT NULL,
	path TEXT NOT NULL,
	request_hash TEXT NOT NULL DEFAULT '',
	status_code INTEGER NOT NULL,
	content_type TEXT NOT NULL,
	body BLOB,
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clients_lname ON client(lname);
CREATE INDEX IF NOT EXISTS idx_clients_created_at ON client(created_at);
CREATE INDEX IF NOT EXISTS idx_ledger_client_id ON ledger_entry(client_id);
CREATE INDEX IF NOT EXISTS idx_ledger_created_at ON ledger_entry(created_at);
CREATE INDEX IF NOT EXISTS idx_auth_codes_expires_at ON auth_code(expires_at);
CREATE INDEX IF NOT EXISTS idx_idempotency_expires_at ON idempotency_record(expires_at);
`

type DB struct {
	*sqlx.DB
}

// connPragmas run on every connection the pool opens. A PRAGMA sent through
// db.Exec would only reach whichever connection served it.
var connPragmas = []string{
	"busy_timeout(5000)", // the CLI and the server may hold the file at the same time
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

// dsn appends connPragmas to a file path in the form modernc.org/sqlite reads.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(dbPath)
	for _, p := range connPragmas {
		b.WriteString(sep + "_pragma=" + p)
		sep = "&"
	}
	return b.String()
}

func New(dbPath string) (*DB, error) {
	db, err := sqlx.Connect("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to ":memory:" opens its own empty database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// columnMigrations add columns introduced after a table was first created.
var columnMigrations = []struct{ table, column, definition string }{
	{"idempotency_record", "request_hash", "TEXT NOT NULL DEFAULT ''"},
}

func migrate(db *sqlx.DB) error {
	for _, m := range columnMigrations {
		var present int
		err := db.Get(&present, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, m.table, m.column)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", m.table, err)
		}
		if present > 0 {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.definition)); err != nil {
			return fmt.Errorf("failed to add %s.%s: %w", m.table, m.column, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

func affected(result sql.Result) (int64, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// expectRow turns a write that touched no rows into notFound.
func expectRow(result sql.Result, notFound error) error {
	rows, err := affected(result)
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// jsonList stores a string slice as a JSON array in a TEXT column.
type jsonList []string

func (l jsonList) Value() (driver.Value, error) {
	if l == nil {
		l = jsonList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *jsonList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case nil:
		*l = jsonList{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into a JSON list", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}
