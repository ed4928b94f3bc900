// Package token verifies bearer tokens presented to the API.
package token

import (
	"context"
	"errors"
	"fmt"

	"mybites/internal/domain"
)

var errNoVerifiers = errors.New("no token verifiers configured")

// Chain tries each verifier in order and returns the first success.
type Chain []domain.TokenVerifier

var _ domain.TokenVerifier = Chain(nil)

// Verify implements domain.TokenVerifier.
func (c Chain) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	if len(c) == 0 {
		return domain.Identity{}, errNoVerifiers
	}
	var errs []error
	for _, v := range c {
		id, err := v.Verify(ctx, raw)
		if err == nil {
			return id, nil
		}
		errs = append(errs, err)
	}
	return domain.Identity{}, fmt.Errorf("token rejected: %w", errors.Join(errs...))
}
