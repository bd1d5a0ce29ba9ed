//go:build unit
// +build unit

package validators

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
)

type payment struct {
	Currency string  `validate:"required,currency"`
	Method   string  `validate:"required,notblank"`
	Amount   float64 `validate:"gt=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   payment
		wantErr string
	}{
		{"valid", payment{Currency: "USD", Method: "bank_transfer", Amount: 10}, ""},
		{"lowercase currency", payment{Currency: "usd", Method: "card", Amount: 10}, "Field: Currency, Tag: currency"},
		{"blank method", payment{Currency: "EUR", Method: "   ", Amount: 10}, "Field: Method, Tag: notblank"},
		{"zero amount", payment{Currency: "EUR", Method: "card"}, "Field: Amount, Tag: gt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGet_ReturnsSameInstance(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestFormat_Nil(t *testing.T) {
	assert.NoError(t, Format(nil))
}

func TestFormat_WrappedValidationErrorKeepsKind(t *testing.T) {
	err := fmt.Errorf("validation error: %w", Struct(&payment{Currency: "usd", Method: "card", Amount: 1}))

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "validation failed: [Field: Currency, Tag: currency]", apperr.Message(err))
}
