package account

import (
	"database/sql"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestProfileUpdates(t *testing.T) {
	tests := []struct {
		name           string
		params         updateProfileParams
		expectErr      bool
		expectedFields int
	}{
		{
			name:           "no fields",
			params:         updateProfileParams{},
			expectedFields: 0,
		},
		{
			name: "single field",
			params: updateProfileParams{
				DisplayName: strPtr("Ada"),
			},
			expectedFields: 1,
		},
		{
			name: "multiple fields",
			params: updateProfileParams{
				DisplayName: strPtr("Ada"),
				Bio:         strPtr("Maker of things"),
				Phone:       strPtr("+1 555 0100"),
			},
			expectedFields: 3,
		},
		{
			name: "empty string clears a field",
			params: updateProfileParams{
				Bio: strPtr(""),
			},
			expectedFields: 1,
		},
		{
			name: "display name too long",
			params: updateProfileParams{
				DisplayName: strPtr(strings.Repeat("x", 51)),
			},
			expectErr: true,
		},
		{
			name: "bio at limit",
			params: updateProfileParams{
				Bio: strPtr(strings.Repeat("x", 500)),
			},
			expectedFields: 1,
		},
		{
			name: "preferences must be JSON",
			params: updateProfileParams{
				Preferences: strPtr("not json"),
			},
			expectErr: true,
		},
		{
			name: "valid preferences",
			params: updateProfileParams{
				Preferences: strPtr(`{"theme":"dark"}`),
			},
			expectedFields: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := profileUpdates(&tt.params)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(fields) != tt.expectedFields {
				t.Errorf("got %d fields, expected %d", len(fields), tt.expectedFields)
			}
		})
	}
}

func TestProfileUpdatesClearedField(t *testing.T) {
	fields, err := profileUpdates(&updateProfileParams{Bio: strPtr("  ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := fields["bio"].(sql.NullString)
	if !ok {
		t.Fatal("bio field missing or wrong type")
	}
	// Whitespace-only input clears the column
	if v.Valid {
		t.Errorf("expected NULL bio, got %q", v.String)
	}
}
