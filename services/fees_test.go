package services

import (
	"testing"

	"instituteadmin_go/models"
)

func TestComputeFinalFee(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		discount float64
		expected float64
	}{
		{name: "no discount", total: 12000, discount: 0, expected: 12000},
		{name: "partial discount", total: 12000, discount: 2000, expected: 10000},
		{name: "full discount", total: 12000, discount: 12000, expected: 0},
		{name: "discount exceeds fee floors at zero", total: 12000, discount: 15000, expected: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeFinalFee(tc.total, tc.discount)
			if got != tc.expected {
				t.Fatalf("expected %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}

func TestComputeBalance(t *testing.T) {
	tests := []struct {
		name     string
		final    float64
		paid     float64
		expected float64
	}{
		{name: "nothing paid", final: 10000, paid: 0, expected: 10000},
		{name: "partly paid", final: 10000, paid: 4000, expected: 6000},
		{name: "fully paid", final: 10000, paid: 10000, expected: 0},
		{name: "overpaid floors at zero", final: 10000, paid: 11000, expected: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeBalance(tc.final, tc.paid)
			if got != tc.expected {
				t.Fatalf("expected %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}

func TestSplitOldFee(t *testing.T) {
	fee := &models.Fee{
		TotalCourseFee: 12000,
		DiscountAmount: 2000,
		FinalFee:       10000,
		PaidAmount:     4000,
		BalanceAmount:  6000,
		Status:         "ACTIVE",
	}

	SplitOldFee(fee)

	if fee.FinalFee != 4000 {
		t.Fatalf("expected final fee written down to paid amount 4000, got %.2f", fee.FinalFee)
	}
	if fee.BalanceAmount != 0 {
		t.Fatalf("expected zero balance after split, got %.2f", fee.BalanceAmount)
	}
	if fee.Status != "CLOSED" {
		t.Fatalf("expected CLOSED status, got %s", fee.Status)
	}
}

func TestApplyPayment(t *testing.T) {
	fee := &models.Fee{
		FinalFee:      10000,
		PaidAmount:    3000,
		BalanceAmount: 7000,
		Status:        "ACTIVE",
	}

	if err := ApplyPayment(fee, 2000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee.PaidAmount != 5000 {
		t.Fatalf("expected paid amount 5000, got %.2f", fee.PaidAmount)
	}
	if fee.BalanceAmount != 5000 {
		t.Fatalf("expected balance 5000, got %.2f", fee.BalanceAmount)
	}
}

func TestApplyPaymentClosedFee(t *testing.T) {
	fee := &models.Fee{
		FinalFee:      10000,
		PaidAmount:    10000,
		BalanceAmount: 0,
		Status:        "CLOSED",
	}

	if err := ApplyPayment(fee, 1000); err == nil {
		t.Fatal("expected error applying a payment to a closed fee")
	}
	if fee.PaidAmount != 10000 {
		t.Fatalf("closed fee must stay untouched, paid amount became %.2f", fee.PaidAmount)
	}
}

// A pending installment may still be completed after a split closed its fee;
// the written-down final amount must not move.
func TestApplyPaymentAfterSplit(t *testing.T) {
	fee := &models.Fee{
		TotalCourseFee: 12000,
		FinalFee:       12000,
		PaidAmount:     4000,
		BalanceAmount:  8000,
		Status:         "ACTIVE",
	}

	SplitOldFee(fee)

	if err := ApplyPayment(fee, 2000); err == nil {
		t.Fatal("expected error applying a payment to a split fee")
	}
	if fee.FinalFee != 4000 || fee.BalanceAmount != 0 {
		t.Fatalf("split write-down must hold, got final %.2f balance %.2f", fee.FinalFee, fee.BalanceAmount)
	}
}

func TestSplitOldFeeNothingPaid(t *testing.T) {
	fee := &models.Fee{
		FinalFee:      10000,
		PaidAmount:    0,
		BalanceAmount: 10000,
		Status:        "ACTIVE",
	}

	SplitOldFee(fee)

	if fee.FinalFee != 0 || fee.BalanceAmount != 0 {
		t.Fatalf("expected zeroed fee, got final %.2f balance %.2f", fee.FinalFee, fee.BalanceAmount)
	}
}
