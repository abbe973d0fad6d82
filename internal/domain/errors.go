package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies operation failures for callers that must branch on
// the kind of failure before proceeding.
type ErrorCode string

const (
	// ErrCodeDeviceConflict: another device owns the active session.
	// Recoverable via an explicit force-cleanup after user confirmation.
	ErrCodeDeviceConflict ErrorCode = "DEVICE_CONFLICT"
	// ErrCodeAlreadyCompleted: the day is already marked complete.
	// Treated as a benign no-op, not a failure.
	ErrCodeAlreadyCompleted ErrorCode = "ALREADY_COMPLETED"
	// ErrCodeDuplicateCompletion: uniqueness violation on a completion toggle.
	ErrCodeDuplicateCompletion ErrorCode = "DUPLICATE_COMPLETION"
	ErrCodeHabitNotFound       ErrorCode = "HABIT_NOT_FOUND"
	ErrCodeTaskNotFound        ErrorCode = "TASK_NOT_FOUND"
	ErrCodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidState        ErrorCode = "INVALID_STATE"
	// ErrCodeDatabase: persistence failure. Never auto-retried; the prior
	// state is left untouched.
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
	ErrCodeUnknown  ErrorCode = "UNKNOWN_ERROR"
)

// OpError is the typed error returned by every lifecycle and completion
// operation. Device is set only for DEVICE_CONFLICT and names the owner.
type OpError struct {
	Code    ErrorCode
	Message string
	Device  DeviceType
}

func (e *OpError) Error() string {
	if e.Device != "" {
		return fmt.Sprintf("%s: %s (owned by %s)", e.Code, e.Message, e.Device)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDeviceConflict reports that owner holds the active session slot.
func NewDeviceConflict(owner DeviceType) *OpError {
	return &OpError{
		Code:    ErrCodeDeviceConflict,
		Message: "an active session exists on another device",
		Device:  owner,
	}
}

// NewInvalidState reports an illegal lifecycle transition.
func NewInvalidState(msg string) *OpError {
	return &OpError{Code: ErrCodeInvalidState, Message: msg}
}

// NewNotFound builds the not-found error for the given execution kind.
func NewNotFound(kind ExecutionKind, id string) *OpError {
	code := ErrCodeTaskNotFound
	if kind == KindHabit {
		code = ErrCodeHabitNotFound
	}
	return &OpError{Code: code, Message: fmt.Sprintf("%s %s not found", kind, id)}
}

// NewDatabaseError wraps a persistence failure.
func NewDatabaseError(err error) *OpError {
	return &OpError{Code: ErrCodeDatabase, Message: err.Error()}
}

// CodeOf extracts the ErrorCode from err, or UNKNOWN_ERROR when err carries
// no typed code. A nil error has no code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var op *OpError
	if errors.As(err, &op) {
		return op.Code
	}
	return ErrCodeUnknown
}

// ConflictDevice returns the owning device when err is a DEVICE_CONFLICT.
func ConflictDevice(err error) (DeviceType, bool) {
	var op *OpError
	if errors.As(err, &op) && op.Code == ErrCodeDeviceConflict {
		return op.Device, true
	}
	return "", false
}

// IsDeviceConflict reports whether err is a DEVICE_CONFLICT.
func IsDeviceConflict(err error) bool {
	return CodeOf(err) == ErrCodeDeviceConflict
}
