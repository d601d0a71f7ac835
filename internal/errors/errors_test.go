package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ReportError
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrTypeSchema, "missing column", nil),
			want: "[SCHEMA] missing column",
		},
		{
			name: "with cause",
			err:  New(ErrTypeFormat, "cannot open file", fmt.Errorf("permission denied")),
			want: "[FORMAT] cannot open file: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestReportError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := New(ErrTypeExport, "write failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestIsType(t *testing.T) {
	err := NewUnmappedAccountError("77 - Unbekannt", 12)

	assert.True(t, IsType(err, ErrTypeUnmappedAccount))
	assert.False(t, IsType(err, ErrTypeSchema))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrTypeUnmappedAccount))

	// Wrapped errors still match
	wrapped := fmt.Errorf("stage failed: %w", err)
	assert.True(t, IsType(wrapped, ErrTypeUnmappedAccount))
}

func TestNewUnmappedAccountError(t *testing.T) {
	err := NewUnmappedAccountError("77-999", 42)

	require.NotNil(t, err)
	assert.Equal(t, ErrTypeUnmappedAccount, err.Type)
	assert.Contains(t, err.Error(), "77-999")
	assert.Contains(t, err.Error(), "42")
	assert.Equal(t, "77-999", err.Context["account_code"])
	assert.Equal(t, 42, err.Context["row"])
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError("TopM report", []string{"(1) Umsatz-berechnung"}, []string{"Hilfsmittel", "Filiale"})

	assert.Equal(t, ErrTypeSchema, err.Type)
	assert.Contains(t, err.Error(), "TopM report")
	assert.Contains(t, err.Error(), "(1) Umsatz-berechnung")
	assert.Contains(t, err.Error(), "Filiale")
}

func TestWithContext(t *testing.T) {
	err := New(ErrTypeAggregationConfig, "bad column", nil).
		WithContext("column", "DBI %")

	assert.Equal(t, "DBI %", err.Context["column"])
}
