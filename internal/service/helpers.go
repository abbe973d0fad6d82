package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/repository"
)

// itemError maps repository failures on habit/task lookups into the typed
// taxonomy. Errors that already carry a code pass through untouched.
func itemError(err error, kind domain.ExecutionKind, itemID string) error {
	if err == nil {
		return nil
	}
	var op *domain.OpError
	if errors.As(err, &op) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFound(kind, itemID)
	}
	return domain.NewDatabaseError(err)
}

// sessionError maps repository failures on active-session operations.
func sessionError(err error, itemID string) error {
	if err == nil {
		return nil
	}
	var op *domain.OpError
	if errors.As(err, &op) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.OpError{
			Code:    domain.ErrCodeSessionNotFound,
			Message: fmt.Sprintf("no active session for item %s", itemID),
		}
	}
	return domain.NewDatabaseError(err)
}

func validKind(kind domain.ExecutionKind) error {
	if !domain.ValidExecutionKinds[string(kind)] {
		return domain.NewInvalidState(fmt.Sprintf("unknown execution kind %q", kind))
	}
	return nil
}

func validDevice(device domain.DeviceType) error {
	if !domain.ValidDeviceTypes[string(device)] {
		return domain.NewInvalidState(fmt.Sprintf("unknown device type %q", device))
	}
	return nil
}
