package testutil

import (
	stderrors "errors"
	"testing"

	"fintrack/internal/errors"
)

// AssertAppError fails the test unless err is an AppError with the same
// code as want.
func AssertAppError(t *testing.T, err error, want *errors.AppError) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error %s, got nil", want.Code)
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected AppError %s, got %T: %v", want.Code, err, err)
	}
	if appErr.Code != want.Code {
		t.Fatalf("expected error code %s, got %s", want.Code, appErr.Code)
	}
}

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
