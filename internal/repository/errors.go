package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/saran-softdev/component-library-sub001/internal/access"
	"gorm.io/gorm"
)

// translate maps storage failures onto the engine's error taxonomy.
// Record-not-found is not an error at this layer; callers receive nil
// results for misses.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", access.ErrDuplicateKey, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", access.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", access.ErrStoreUnavailable, err)
	}
}
