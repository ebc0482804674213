package services

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

// providerErr wraps an upstream provider failure with the given domain
// sentinel. Deadline and network timeouts are classified as
// domain.ErrProviderTimeout instead, so callers can tell latency
// problems from hard failures.
func providerErr(kind error, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", domain.ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
