package moderation

import (
	"errors"
	"strings"
	"testing"

	"github.com/createconomy/createconomy/internal/rpc"
)

func TestValidateReport(t *testing.T) {
	longDetails := strings.Repeat("x", 501)

	tests := []struct {
		name    string
		params  createReportParams
		wantErr bool
	}{
		{
			name:   "valid spam report",
			params: createReportParams{TargetType: "thread", TargetID: 1, Reason: "spam"},
		},
		{
			name:   "valid other with details",
			params: createReportParams{TargetType: "comment", TargetID: 2, Reason: "other", Details: "off-topic advertising"},
		},
		{
			name:    "unknown reason",
			params:  createReportParams{TargetType: "thread", TargetID: 1, Reason: "badvibes"},
			wantErr: true,
		},
		{
			name:    "unknown target type",
			params:  createReportParams{TargetType: "poll", TargetID: 1, Reason: "spam"},
			wantErr: true,
		},
		{
			name:    "other without details",
			params:  createReportParams{TargetType: "thread", TargetID: 1, Reason: "other"},
			wantErr: true,
		},
		{
			name:    "other with blank details",
			params:  createReportParams{TargetType: "thread", TargetID: 1, Reason: "other", Details: "   "},
			wantErr: true,
		},
		{
			name:    "details too long",
			params:  createReportParams{TargetType: "thread", TargetID: 1, Reason: "spam", Details: longDetails},
			wantErr: true,
		},
		{
			name:   "details at the cap",
			params: createReportParams{TargetType: "thread", TargetID: 1, Reason: "spam", Details: strings.Repeat("x", 500)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReport(&tt.params)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestAdmitReport(t *testing.T) {
	// A pending report on the same target blocks a second one
	err := admitReport(true)
	if err == nil {
		t.Fatal("expected duplicate error while a report is pending")
	}
	var apiErr *rpc.Error
	if !errors.As(err, &apiErr) || apiErr.Code != rpc.CodeDuplicate {
		t.Errorf("expected %s error, got: %v", rpc.CodeDuplicate, err)
	}

	// Once the prior report is resolved or dismissed, a new one may be filed
	if err := admitReport(false); err != nil {
		t.Errorf("expected no error without a pending report, got: %v", err)
	}
}
