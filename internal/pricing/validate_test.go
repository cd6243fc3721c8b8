package pricing

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"order-pricing-api/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		lines     []models.LineItem
		wantErr   bool
		wantLine  int
		wantField string
		wantTag   string
	}{
		{
			name:  "nil lines",
			lines: nil,
		},
		{
			name: "valid line with every field",
			lines: []models.LineItem{{
				Quantity:        2,
				UnitPrice:       10,
				Factor:          f(12),
				DiscountPercent: f(100),
				TaxPercent:      f(0),
				ExciseAmount:    f(1.5),
				OtherFeeAmount:  f(0),
			}},
		},
		{
			name:  "valid line with absent optionals",
			lines: []models.LineItem{{Quantity: 0, UnitPrice: 0}},
		},
		{
			name:      "negative quantity",
			lines:     []models.LineItem{{Quantity: -1, UnitPrice: 10}},
			wantErr:   true,
			wantLine:  1,
			wantField: "quantity",
			wantTag:   "gte",
		},
		{
			name:      "NaN unit price",
			lines:     []models.LineItem{{Quantity: 1, UnitPrice: math.NaN()}},
			wantErr:   true,
			wantLine:  1,
			wantField: "unit_price",
			wantTag:   "finite",
		},
		{
			name:      "discount above 100",
			lines:     []models.LineItem{{Quantity: 1, UnitPrice: 1}, {Quantity: 1, UnitPrice: 1, DiscountPercent: f(150)}},
			wantErr:   true,
			wantLine:  2,
			wantField: "discount_percent",
			wantTag:   "lte",
		},
		{
			name:      "zero factor",
			lines:     []models.LineItem{{Quantity: 1, UnitPrice: 1, Factor: f(0)}},
			wantErr:   true,
			wantLine:  1,
			wantField: "factor",
			wantTag:   "gt",
		},
		{
			name:      "infinite tax",
			lines:     []models.LineItem{{Quantity: 1, UnitPrice: 1, TaxPercent: f(math.Inf(1))}},
			wantErr:   true,
			wantLine:  1,
			wantField: "tax_percent",
			wantTag:   "finite",
		},
		{
			name:      "negative other fee",
			lines:     []models.LineItem{{Quantity: 1, UnitPrice: 1, OtherFeeAmount: f(-3)}},
			wantErr:   true,
			wantLine:  1,
			wantField: "other_fee_amount",
			wantTag:   "gte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.lines)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Validate() expected error but got none")
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error type = %T, want *ValidationError", err)
			}
			if len(ve.Fields) != 1 {
				t.Fatalf("Validate() returned %d field errors, want 1: %v", len(ve.Fields), ve.Fields)
			}

			fe := ve.Fields[0]
			if fe.Line != tt.wantLine || fe.Field != tt.wantField || fe.Tag != tt.wantTag {
				t.Errorf("field error = %+v, want line %d field %s tag %s", fe, tt.wantLine, tt.wantField, tt.wantTag)
			}
			if fe.Message == "" {
				t.Error("field error message is empty")
			}
		})
	}
}

func TestValidate_CollectsAllLines(t *testing.T) {
	lines := []models.LineItem{
		{Quantity: -1, UnitPrice: -1},
		{Quantity: 1, UnitPrice: 1},
		{Quantity: 1, UnitPrice: 1, TaxPercent: f(-5)},
	}

	err := Validate(lines)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}
	if len(ve.Fields) != 3 {
		t.Fatalf("Validate() returned %d field errors, want 3: %v", len(ve.Fields), ve.Fields)
	}
	if ve.Fields[2].Line != 3 {
		t.Errorf("third error line = %d, want 3", ve.Fields[2].Line)
	}
}

func TestValidate_DoesNotAffectCompute(t *testing.T) {
	lines := []models.LineItem{{Quantity: -2, UnitPrice: 50}}
	if err := Validate(lines); err == nil {
		t.Fatal("expected validation error for negative quantity")
	}
	if got := Compute(lines, nil); got.Subtotal != -100 {
		t.Errorf("Compute() Subtotal = %v, want -100", got.Subtotal)
	}
}

func TestIsValidationError(t *testing.T) {
	ve := &ValidationError{Fields: []FieldError{{Line: 1, Field: "quantity", Message: "quantity must be at least 0"}}}

	if !IsValidationError(ve) {
		t.Error("IsValidationError(ve) = false")
	}
	if !IsValidationError(fmt.Errorf("calculate: %w", ve)) {
		t.Error("IsValidationError(wrapped) = false")
	}
	if IsValidationError(errors.New("boom")) {
		t.Error("IsValidationError(plain) = true")
	}
	if want := "line item validation failed: line 1: quantity must be at least 0"; ve.Error() != want {
		t.Errorf("Error() = %q, want %q", ve.Error(), want)
	}
}
