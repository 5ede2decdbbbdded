package validator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holdInput struct {
	SeatLabels []string `validate:"required,min=1,max=3,dive,seat_label"`
	Title      string   `validate:"omitempty,notblank"`
	Email      string   `validate:"omitempty,email"`
	Page       int      `validate:"min=1"`
	Sort       string   `validate:"omitempty,oneof=id -id"`
	PosterUrl  string   `validate:"omitempty,url"`
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		input   holdInput
		wantMsg string
	}{
		{
			name:  "valid",
			input: holdInput{SeatLabels: []string{"A1", "c12", "Z99"}, Page: 1},
		},
		{
			name:    "missing seats",
			input:   holdInput{Page: 1},
			wantMsg: ErrRequired,
		},
		{
			name:    "too many seats",
			input:   holdInput{SeatLabels: []string{"A1", "A2", "A3", "A4"}, Page: 1},
			wantMsg: fmt.Sprintf(ErrMaxItems, "3"),
		},
		{
			name:    "malformed label",
			input:   holdInput{SeatLabels: []string{"4C"}, Page: 1},
			wantMsg: ErrSeatLabel,
		},
		{
			name:    "column out of range",
			input:   holdInput{SeatLabels: []string{"A100"}, Page: 1},
			wantMsg: ErrSeatLabel,
		},
		{
			name:    "signed column",
			input:   holdInput{SeatLabels: []string{"A+1"}, Page: 1},
			wantMsg: ErrSeatLabel,
		},
		{
			name:    "space inside label",
			input:   holdInput{SeatLabels: []string{"A 1"}, Page: 1},
			wantMsg: ErrSeatLabel,
		},
		{
			name:    "non ASCII digit",
			input:   holdInput{SeatLabels: []string{"A١"}, Page: 1},
			wantMsg: ErrSeatLabel,
		},
		{
			name:    "blank title",
			input:   holdInput{SeatLabels: []string{"A1"}, Title: "  ", Page: 1},
			wantMsg: ErrNotBlank,
		},
		{
			name:    "bad email",
			input:   holdInput{SeatLabels: []string{"A1"}, Email: "nope", Page: 1},
			wantMsg: ErrEmail,
		},
		{
			name:    "unknown sort column",
			input:   holdInput{SeatLabels: []string{"A1"}, Page: 1, Sort: "price"},
			wantMsg: fmt.Sprintf(ErrOneOf, "id, -id"),
		},
		{
			name:    "bad poster url",
			input:   holdInput{SeatLabels: []string{"A1"}, Page: 1, PosterUrl: "poster"},
			wantMsg: ErrURL,
		},
		{
			name:    "page below minimum",
			input:   holdInput{SeatLabels: []string{"A1"}},
			wantMsg: fmt.Sprintf(ErrMinValue, "1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)

			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			var validationErrs validator.ValidationErrors
			require.True(t, errors.As(err, &validationErrs))
			assert.Equal(t, tt.wantMsg, ValidationMessage(validationErrs[0]))
		})
	}
}

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	input := struct {
		SeatLabels []string `json:"seat_labels,omitempty" validate:"required"`
	}{}

	err := NewValidator().Struct(input)

	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	assert.Equal(t, "seat_labels", validationErrs[0].Field())
}
