package serviceerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("DifficultyLevel", "difficultylevel-123")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestNotFound_Details(t *testing.T) {
	tests := []struct {
		name    string
		id      []string
		wantID  bool
		message string
	}{
		{name: "with id", id: []string{"difficultylevel-1"}, wantID: true, message: "DifficultyLevel not found"},
		{name: "blank id", id: []string{"  "}, wantID: false, message: "DifficultyLevel not found"},
		{name: "no id", wantID: false, message: "DifficultyLevel not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotFound("DifficultyLevel", tt.id...)
			assert.Equal(t, CodeNotFound, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, "DifficultyLevel", err.Details["entity"])
			_, has := err.Details["id"]
			assert.Equal(t, tt.wantID, has)
		})
	}
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	base := Invalid("bad value")
	derived := base.WithDetail("field", "name")

	assert.Nil(t, base.Details)
	assert.Equal(t, "name", derived.Details["field"])
}

func TestFromData(t *testing.T) {
	tests := []struct {
		code DataCode
		want Code
	}{
		{DataNotFound, CodeNotFound},
		{DataConflict, CodeDuplicateName},
		{DataUnauthorized, CodeInsufficientPermissions},
		{DataForbidden, CodeInsufficientPermissions},
		{DataBadRequest, CodeValidationInvalid},
		{DataUnavailable, CodeDependencyFailure},
		{DataUnknown, CodeDependencyFailure},
		{DataCode("SOMETHING_NEW"), CodeDependencyFailure},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			got := FromData(&DataError{Code: tt.code, Message: "boom"})
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Code)
			assert.Equal(t, "boom", got.Message)
			assert.Equal(t, string(tt.code), got.Details["data_code"])
		})
	}

	assert.Nil(t, FromData(nil))
}

func TestClassifyDB(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want DataCode
	}{
		{"no rows", sql.ErrNoRows, DataNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), DataNotFound},
		{"deadline", context.DeadlineExceeded, DataUnavailable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: equipment.name"), DataConflict},
		{"postgres unique", errors.New(`pq: duplicate key value violates unique constraint "equipment_name_key"`), DataConflict},
		{"other", errors.New("disk I/O error"), DataUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDB(tt.err, "query failed")
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Code)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, ClassifyDB(nil, "noop"))
}

func TestFrom(t *testing.T) {
	se := Conflict("in use")
	assert.Same(t, se, From(fmt.Errorf("wrap: %w", se)))

	raw := errors.New("connection refused")
	got := From(raw)
	assert.Equal(t, CodeDependencyFailure, got.Code)
	assert.ErrorIs(t, got, raw)

	assert.Nil(t, From(nil))
}

func TestCode_IsValidation(t *testing.T) {
	assert.True(t, CodeValidationRequired.IsValidation())
	assert.True(t, CodeValidationOutOfRange.IsValidation())
	assert.False(t, CodeNotFound.IsValidation())
}
