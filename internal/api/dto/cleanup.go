package dto

// CleanupResponse counts what a housekeeping run removed
type CleanupResponse struct {
	AuthCodes          int64 `json:"auth_codes"`
	IdempotencyRecords int64 `json:"idempotency_records"`
	LedgerEntries      int64 `json:"ledger_entries"`
}
