package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesOnKind(t *testing.T) {
	err := NewNotFoundError("Transaction")

	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrMemberNotFound)
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create transaction: %w", ErrMemberNotFound)

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Equal(t, http.StatusNotFound, GetAppError(err).Code)
}

func TestStorageErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStorageError("write transaction", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to write transaction: connection reset", err.Error())
}

func TestGetAppErrorHidesUnknownErrors(t *testing.T) {
	appErr := GetAppError(errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, "Internal server error", appErr.Message)
}

func TestWrapDoesNotMutateSentinel(t *testing.T) {
	wrapped := Wrap(ErrAccrual, errors.New("boom"))

	assert.ErrorIs(t, wrapped, ErrAccrual)
	assert.Equal(t, "Commission accrual failed", ErrAccrual.Error())
}
