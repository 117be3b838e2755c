package cli

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAccount(t *testing.T) {
	tests := []struct {
		input   string
		name    string
		amount  string
		wantErr bool
	}{
		{"Savings=50000", "Savings", "50000", false},
		{"Rainy Day=12.50", "Rainy Day", "12.5", false},
		{"Savings", "", "", true},
		{"=10", "", "", true},
		{"Savings=lots", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			account, err := parseAccount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", account)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.Name != tt.name || !account.Amount.Equal(decimal.RequireFromString(tt.amount)) {
				t.Errorf("got %+v", account)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != Version+"\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}
