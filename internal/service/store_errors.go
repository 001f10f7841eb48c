package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"internhub/internal/errors"
)

// mapStoreError classifies backend failures. Timeouts and cancellations
// surface as the retryable ErrStoreUnavailable; anything else is wrapped
// so the boundary layer collapses it to a generic 500.
func mapStoreError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("store: %w", err)
}
