// ABOUTME: Unit tests for the operator username check
// ABOUTME: Covers exact match, whitespace, and rejected names

package auth

import (
	"errors"
	"testing"
)

func TestCheckUsername(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		submitted  string
		wantErr    bool
	}{
		{name: "exact match", configured: "ram", submitted: "ram"},
		{name: "surrounding whitespace", configured: "ram", submitted: "  ram\n"},
		{name: "wrong name", configured: "ram", submitted: "sita", wantErr: true},
		{name: "case differs", configured: "ram", submitted: "Ram", wantErr: true},
		{name: "prefix only", configured: "ram", submitted: "ra", wantErr: true},
		{name: "empty submission", configured: "ram", submitted: "", wantErr: true},
		{name: "no configured operator", configured: "", submitted: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUsername(tt.configured, tt.submitted)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("CheckUsername() error = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Errorf("CheckUsername() unexpected error: %v", err)
			}
		})
	}
}
