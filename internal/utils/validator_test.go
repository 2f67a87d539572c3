package utils

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestNewValidatorUsesJSONFieldNames(t *testing.T) {
	type payload struct {
		TabID string `json:"tabId" validate:"required"`
		Plain string `validate:"required"`
	}

	err := NewValidator().Struct(payload{})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	require.Len(t, validationErrors, 2)
	require.Equal(t, "tabId", validationErrors[0].Field())
	require.Equal(t, "Plain", validationErrors[1].Field())
}
