package repository

import (
	"fmt"

	svcErr "github.com/kindredapp/kindred/internal/errors"
)

// storageErr tags a datastore error that no sentinel classifies. Callers
// match svcErr.ErrStorageFailure; the underlying error stays in the chain
// for logs.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", svcErr.ErrStorageFailure, err)
}
