package seller

import (
	"testing"

	"github.com/createconomy/createconomy/internal/models"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase",
			input:    "summer25",
			expected: "SUMMER25",
		},
		{
			name:     "surrounding whitespace",
			input:    "  launch-day  ",
			expected: "LAUNCH-DAY",
		},
		{
			name:     "already normalized",
			input:    "VIP_10",
			expected: "VIP_10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCode(tt.input); got != tt.expected {
				t.Errorf("NormalizeCode(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildOfferCode(t *testing.T) {
	maxUses := int64(50)

	tests := []struct {
		name          string
		params        createOfferCodeParams
		expectErr     bool
		expectedValue int64
	}{
		{
			name: "valid percent code",
			params: createOfferCodeParams{
				Code:          "summer25",
				DiscountType:  models.DiscountPercent,
				DiscountValue: 25,
			},
			expectedValue: 25,
		},
		{
			name: "fixed discount converts dollars to cents",
			params: createOfferCodeParams{
				Code:          "TENOFF",
				DiscountType:  models.DiscountFixed,
				DiscountValue: 10.50,
			},
			expectedValue: 1050,
		},
		{
			name: "percent of exactly 100 allowed",
			params: createOfferCodeParams{
				Code:          "FREEBIE",
				DiscountType:  models.DiscountPercent,
				DiscountValue: 100,
			},
			expectedValue: 100,
		},
		{
			name: "percent above 100 rejected",
			params: createOfferCodeParams{
				Code:          "TOOMUCH",
				DiscountType:  models.DiscountPercent,
				DiscountValue: 101,
			},
			expectErr: true,
		},
		{
			name: "zero percent rejected",
			params: createOfferCodeParams{
				Code:          "NOTHING",
				DiscountType:  models.DiscountPercent,
				DiscountValue: 0,
			},
			expectErr: true,
		},
		{
			name: "negative fixed rejected",
			params: createOfferCodeParams{
				Code:          "NEGATIVE",
				DiscountType:  models.DiscountFixed,
				DiscountValue: -5,
			},
			expectErr: true,
		},
		{
			name: "unknown discount type rejected",
			params: createOfferCodeParams{
				Code:          "WEIRD",
				DiscountType:  "bogus",
				DiscountValue: 10,
			},
			expectErr: true,
		},
		{
			name: "code too short",
			params: createOfferCodeParams{
				Code:          "ab",
				DiscountType:  models.DiscountPercent,
				DiscountValue: 10,
			},
			expectErr: true,
		},
		{
			name: "code with invalid characters",
			params: createOfferCodeParams{
				Code:          "SUMMER 25!",
				DiscountType:  models.DiscountPercent,
				DiscountValue: 10,
			},
			expectErr: true,
		},
		{
			name: "zero max uses rejected",
			params: createOfferCodeParams{
				Code:          "CAPPED",
				DiscountType:  models.DiscountPercent,
				DiscountValue: 10,
				MaxUses:       func() *int64 { v := int64(0); return &v }(),
			},
			expectErr: true,
		},
		{
			name: "valid max uses",
			params: createOfferCodeParams{
				Code:          "CAPPED",
				DiscountType:  models.DiscountPercent,
				DiscountValue: 10,
				MaxUses:       &maxUses,
			},
			expectedValue: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := buildOfferCode(&tt.params)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code.DiscountValue != tt.expectedValue {
				t.Errorf("DiscountValue = %d, expected %d", code.DiscountValue, tt.expectedValue)
			}
			if code.Code != NormalizeCode(tt.params.Code) {
				t.Errorf("Code = %q, not normalized", code.Code)
			}
			if !code.IsActive {
				t.Error("new codes should be active")
			}
		})
	}
}
