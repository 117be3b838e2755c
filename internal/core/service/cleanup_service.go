package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

// CleanupResult counts what one housekeeping run removed.
type CleanupResult struct {
	AuthCodes          int64 `json:"auth_codes"`
	IdempotencyRecords int64 `json:"idempotency_records"`
	LedgerEntries      int64 `json:"ledger_entries"`
}

type CleanupService struct {
	authCodeRepo    repository.AuthCodeRepository
	idempotencyRepo repository.IdempotencyRepository
	ledgerRepo      repository.LedgerRepository
	retentionDays   int
	logger          zerolog.Logger

	cron *cron.Cron
}

func NewCleanupService(
	authCodeRepo repository.AuthCodeRepository,
	idempotencyRepo repository.IdempotencyRepository,
	ledgerRepo repository.LedgerRepository,
	retentionDays int,
	logger zerolog.Logger,
) *CleanupService {
	return &CleanupService{
		authCodeRepo:    authCodeRepo,
		idempotencyRepo: idempotencyRepo,
		ledgerRepo:      ledgerRepo,
		retentionDays:   retentionDays,
		logger:          logger.With().Str("component", "cleanup").Logger(),
	}
}

// Run purges expired auth codes and idempotency records, then ledger entries past
// the retention window. A retention of 0 days keeps ledger entries forever.
// Every step runs even if an earlier one fails; the first error is returned.
func (s *CleanupService) Run(ctx context.Context) (*CleanupResult, error) {
	result := &CleanupResult{}
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if s.authCodeRepo != nil {
		n, err := s.authCodeRepo.DeleteExpired(ctx)
		keep(storeError(err, "failed to delete expired auth codes"))
		result.AuthCodes = n
	}

	if s.idempotencyRepo != nil {
		n, err := s.idempotencyRepo.DeleteExpired(ctx)
		keep(storeError(err, "failed to delete expired idempotency records"))
		result.IdempotencyRecords = n
	}

	if s.ledgerRepo != nil && s.retentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
		n, err := s.ledgerRepo.DeleteOlderThan(ctx, cutoff)
		keep(storeError(err, "failed to delete ledger entries older than %s", cutoff.Format(time.RFC3339)))
		result.LedgerEntries = n
	}

	s.logger.Info().
		Int64("auth_codes", result.AuthCodes).
		Int64("idempotency_records", result.IdempotencyRecords).
		Int64("ledger_entries", result.LedgerEntries).
		Msg("cleanup finished")

	return result, firstErr
}

// Start schedules Run on a cron spec such as "@every 15m" or "0 3 * * *".
func (s *CleanupService) Start(spec string) error {
	if s.cron != nil {
		return fmt.Errorf("cleanup scheduler already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("scheduled cleanup failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}

	c.Start()
	s.cron = c
	s.logger.Info().Str("schedule", spec).Msg("cleanup scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *CleanupService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}
