// Package repository implements the domain repository interfaces on
// gorm/Postgres. Driver-level failures are wrapped in
// domain.ErrStoreUnavailable so callers can tell a store fault from a
// missing row.
package repository

import (
	"fmt"

	"github.com/clinicdesk/clinicdesk-api/internal/domain"
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
