package controllers

import (
	"testing"
	"time"
)

func uintPtr(v uint) *uint    { return &v }
func strPtr(s string) *string { return &s }

func TestValidateSwitchRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         SwitchBatchRequest
		currentID   *uint
		expectError bool
	}{
		{
			name: "valid transfer",
			req: SwitchBatchRequest{
				StudentID:  1,
				NewBatchID: 5,
				Reason:     "schedule conflict",
				FeeAction:  "TRANSFER",
			},
			currentID: uintPtr(2),
		},
		{
			name: "missing student",
			req: SwitchBatchRequest{
				NewBatchID: 5,
				Reason:     "schedule conflict",
				FeeAction:  "TRANSFER",
			},
			currentID:   uintPtr(2),
			expectError: true,
		},
		{
			name: "missing batch",
			req: SwitchBatchRequest{
				StudentID: 1,
				Reason:    "schedule conflict",
				FeeAction: "TRANSFER",
			},
			currentID:   uintPtr(2),
			expectError: true,
		},
		{
			name: "empty reason",
			req: SwitchBatchRequest{
				StudentID:  1,
				NewBatchID: 5,
				FeeAction:  "TRANSFER",
			},
			currentID:   uintPtr(2),
			expectError: true,
		},
		{
			name: "whitespace reason",
			req: SwitchBatchRequest{
				StudentID:  1,
				NewBatchID: 5,
				Reason:     "   ",
				FeeAction:  "TRANSFER",
			},
			currentID:   uintPtr(2),
			expectError: true,
		},
		{
			name: "unknown fee action",
			req: SwitchBatchRequest{
				StudentID:  1,
				NewBatchID: 5,
				Reason:     "schedule conflict",
				FeeAction:  "REFUND",
			},
			currentID:   uintPtr(2),
			expectError: true,
		},
		{
			name: "same batch rejected",
			req: SwitchBatchRequest{
				StudentID:  1,
				NewBatchID: 5,
				Reason:     "schedule conflict",
				FeeAction:  "NEW_FEE",
			},
			currentID:   uintPtr(5),
			expectError: true,
		},
		{
			name: "split with explicit date",
			req: SwitchBatchRequest{
				StudentID:  1,
				NewBatchID: 5,
				Reason:     "moved city",
				FeeAction:  "SPLIT",
				ChangeDate: "2026-08-01T00:00:00Z",
			},
			currentID: uintPtr(2),
		},
		{
			name: "malformed date",
			req: SwitchBatchRequest{
				StudentID:  1,
				NewBatchID: 5,
				Reason:     "moved city",
				FeeAction:  "SPLIT",
				ChangeDate: "01/08/2026",
			},
			currentID:   uintPtr(2),
			expectError: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := validateSwitchRequest(&tc.req, tc.currentID)
			if tc.expectError && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestReasonOverride(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		override    *string
		expected    string
		expectError bool
	}{
		{name: "no override keeps recorded reason", current: "schedule conflict", override: nil, expected: "schedule conflict"},
		{name: "override replaces reason", current: "schedule conflict", override: strPtr("moved city"), expected: "moved city"},
		{name: "empty override rejected", current: "schedule conflict", override: strPtr(""), expectError: true},
		{name: "whitespace override rejected", current: "schedule conflict", override: strPtr("   "), expectError: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := reasonOverride(tc.current, tc.override)
			if tc.expectError {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestValidateSwitchRequestDefaultsChangeDate(t *testing.T) {
	req := SwitchBatchRequest{
		StudentID:  1,
		NewBatchID: 5,
		Reason:     "schedule conflict",
		FeeAction:  "TRANSFER",
	}

	before := time.Now()
	changeDate, err := validateSwitchRequest(&req, uintPtr(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changeDate.Before(before) || changeDate.After(time.Now().Add(time.Second)) {
		t.Fatalf("expected change date to default to now, got %v", changeDate)
	}
}

func TestValidateSwitchRequestParsesExplicitDate(t *testing.T) {
	req := SwitchBatchRequest{
		StudentID:  1,
		NewBatchID: 5,
		Reason:     "moved city",
		FeeAction:  "NEW_FEE",
		ChangeDate: "2026-08-01T09:30:00Z",
	}

	changeDate, err := validateSwitchRequest(&req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	if !changeDate.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, changeDate)
	}
}
