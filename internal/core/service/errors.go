package service

import (
	"errors"
	"fmt"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

// storeError wraps a failed store call. Domain errors keep their kind; anything
// else (driver, network, timeout) becomes StoreUnavailable.
func storeError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	return domain.WrapError(domain.KindStoreUnavailable, err, format, args...)
}
