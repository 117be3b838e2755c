package domain

import "time"

// IdempotencyRecord is a stored response replayed for a repeated Idempotency-Key.
// Key is already scoped to the caller that sent it.
type IdempotencyRecord struct {
	Key         string    `db:"idempotency_key" json:"key"`
	Method      string    `db:"method" json:"method"`
	Path        string    `db:"path" json:"path"`
	RequestHash string    `db:"request_hash" json:"request_hash"` // sha256 of the request body
	StatusCode  int       `db:"status_code" json:"status_code"`
	ContentType string    `db:"content_type" json:"content_type"`
	Body        []byte    `db:"body" json:"body"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
}

func (r *IdempotencyRecord) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}
