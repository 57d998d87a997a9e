package services

import (
	"testing"
	"time"

	"instituteadmin_go/models"
)

func TestBuildTotals(t *testing.T) {
	tests := []struct {
		name    string
		opening float64
		credit  float64
		debit   float64
		closing float64
	}{
		{name: "all zero", opening: 0, credit: 0, debit: 0, closing: 0},
		{name: "credits only", opening: 0, credit: 5000, debit: 0, closing: 5000},
		{name: "mixed", opening: 1000, credit: 5000, debit: 2000, closing: 4000},
		{name: "negative closing", opening: 0, credit: 1000, debit: 3000, closing: -2000},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			totals := BuildTotals(tc.opening, tc.credit, tc.debit)
			if totals.ClosingBalance != tc.closing {
				t.Fatalf("expected closing %.2f, got %.2f", tc.closing, totals.ClosingBalance)
			}
			if totals.OpeningBalance != tc.opening || totals.TotalCredit != tc.credit || totals.TotalDebit != tc.debit {
				t.Fatalf("totals do not echo their inputs: %+v", totals)
			}
		})
	}
}

func TestSumLines(t *testing.T) {
	lines := []LedgerLine{
		{EntryType: models.EntryTypeCredit, Amount: 5000},
		{EntryType: models.EntryTypeDebit, Amount: 1200},
		{EntryType: models.EntryTypeCredit, Amount: 800},
		{EntryType: "UNKNOWN", Amount: 999},
	}

	credit, debit := SumLines(lines)
	if credit != 5800 {
		t.Fatalf("expected credit 5800, got %.2f", credit)
	}
	if debit != 1200 {
		t.Fatalf("expected debit 1200, got %.2f", debit)
	}
}

func TestNormalizePeriod(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{name: "year and month kept", year: 2025, month: 3, wantYear: 2025, wantMonth: 3},
		{name: "year only kept", year: 2025, month: 0, wantYear: 2025, wantMonth: 0},
		{name: "no period kept", year: 0, month: 0, wantYear: 0, wantMonth: 0},
		{name: "bare month gets current year", year: 0, month: 7, wantYear: time.Now().Year(), wantMonth: 7},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			year, month := NormalizePeriod(tc.year, tc.month)
			if year != tc.wantYear || month != tc.wantMonth {
				t.Fatalf("expected %d/%d, got %d/%d", tc.wantYear, tc.wantMonth, year, month)
			}
		})
	}
}

func TestPeriodRangeMonth(t *testing.T) {
	start, end := PeriodRange(2026, 2)

	if start.Year() != 2026 || start.Month() != time.February || start.Day() != 1 {
		t.Fatalf("unexpected start: %v", start)
	}
	if end.Year() != 2026 || end.Month() != time.March || end.Day() != 1 {
		t.Fatalf("unexpected end: %v", end)
	}
}

func TestPeriodRangeYear(t *testing.T) {
	start, end := PeriodRange(2026, 0)

	if start.Year() != 2026 || start.Month() != time.January {
		t.Fatalf("unexpected start: %v", start)
	}
	if end.Year() != 2027 || end.Month() != time.January {
		t.Fatalf("unexpected end: %v", end)
	}
}

func TestPeriodRangeDecember(t *testing.T) {
	start, end := PeriodRange(2025, 12)

	if start.Month() != time.December {
		t.Fatalf("unexpected start: %v", start)
	}
	if end.Year() != 2026 || end.Month() != time.January {
		t.Fatalf("expected end to roll into the next year, got %v", end)
	}
}
