package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "run error with cause",
			err:  domain.NewRunError("settlement report", "Cannot find the run date in the settlement report", domain.ErrRunDateLineMissing),
			want: "Cannot find the run date in the settlement report (settlement report)\n  run date header line not found",
		},
		{
			name: "run error without cause",
			err:  domain.NewRunError("classification", "Reconciliation could not classify the unified totals", nil),
			want: "Reconciliation could not classify the unified totals (classification)",
		},
		{
			name: "wrapped run error",
			err:  fmt.Errorf("run: %w", domain.NewRunError("archive", "Archive unavailable", nil)),
			want: "Archive unavailable (archive)",
		},
		{
			name: "plain error",
			err:  errors.New("settlement report file path is required (--report)"),
			want: "settlement report file path is required (--report)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "<nil>")
		})
	}
}
