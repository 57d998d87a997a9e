package utils

import "testing"

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		expPage   int
		expLimit  int
		expOffset int
	}{
		{name: "defaults", page: 1, limit: 10, expPage: 1, expLimit: 10, expOffset: 0},
		{name: "second page", page: 2, limit: 10, expPage: 2, expLimit: 10, expOffset: 10},
		{name: "zero page clamps to one", page: 0, limit: 10, expPage: 1, expLimit: 10, expOffset: 0},
		{name: "negative page clamps to one", page: -3, limit: 10, expPage: 1, expLimit: 10, expOffset: 0},
		{name: "zero limit defaults", page: 1, limit: 0, expPage: 1, expLimit: 10, expOffset: 0},
		{name: "oversized limit caps at 100", page: 3, limit: 500, expPage: 3, expLimit: 100, expOffset: 200},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			page, limit, offset := NormalizePagination(tc.page, tc.limit)
			if page != tc.expPage || limit != tc.expLimit || offset != tc.expOffset {
				t.Fatalf("expected (%d, %d, %d), got (%d, %d, %d)",
					tc.expPage, tc.expLimit, tc.expOffset, page, limit, offset)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		limit    int
		expected int
	}{
		{name: "empty", total: 0, limit: 10, expected: 0},
		{name: "exact fit", total: 20, limit: 10, expected: 2},
		{name: "remainder rounds up", total: 21, limit: 10, expected: 3},
		{name: "single row", total: 1, limit: 10, expected: 1},
		{name: "zero limit", total: 50, limit: 0, expected: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := TotalPages(tc.total, tc.limit); got != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestIsValidFeeAction(t *testing.T) {
	for _, action := range []string{"TRANSFER", "NEW_FEE", "SPLIT"} {
		if !IsValidFeeAction(action) {
			t.Fatalf("expected %s to be valid", action)
		}
	}
	for _, action := range []string{"", "transfer", "REFUND", "MERGE"} {
		if IsValidFeeAction(action) {
			t.Fatalf("expected %s to be invalid", action)
		}
	}
}

func TestIsValidEntryType(t *testing.T) {
	if !IsValidEntryType("DEBIT") || !IsValidEntryType("CREDIT") {
		t.Fatal("expected DEBIT and CREDIT to be valid")
	}
	if IsValidEntryType("debit") || IsValidEntryType("") {
		t.Fatal("expected lowercase and empty entry types to be invalid")
	}
}

func TestIsValidPaymentMode(t *testing.T) {
	for _, mode := range []string{"CASH", "BANK_TRANSFER", "UPI", "CARD", "CHEQUE"} {
		if !IsValidPaymentMode(mode) {
			t.Fatalf("expected %s to be valid", mode)
		}
	}
	if IsValidPaymentMode("CRYPTO") {
		t.Fatal("expected CRYPTO to be invalid")
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"jpg", "png", "pdf"}

	tests := []struct {
		name     string
		filename string
		expected bool
	}{
		{name: "allowed image", filename: "receipt.jpg", expected: true},
		{name: "uppercase extension", filename: "receipt.PDF", expected: true},
		{name: "disallowed", filename: "script.exe", expected: false},
		{name: "no extension", filename: "receipt", expected: false},
		{name: "empty", filename: "", expected: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidFileExtension(tc.filename, allowed); got != tc.expected {
				t.Fatalf("expected %v for %q, got %v", tc.expected, tc.filename, got)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword("s3cret-pass", hash); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword("wrong-pass", hash); err == nil {
		t.Fatal("expected mismatch error")
	}
}
