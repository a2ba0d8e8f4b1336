package services

import (
	"context"
	"errors"
	"fmt"

	"sareeledger-backend/clients"
)

func lockRecord(ctx context.Context, locker clients.RecordLocker, kind, id string) (func(), error) {
	release, err := locker.Acquire(ctx, kind+":"+id)
	if errors.Is(err, clients.ErrLocked) {
		return nil, conflict("Another change to this record is in progress")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return release, nil
}
