package controllers

import (
	"testing"
	"time"

	"instituteadmin_go/models"
	"instituteadmin_go/services"
)

func TestBuildCashbookWorkbook(t *testing.T) {
	entries := []models.CashbookEntry{
		{
			EntryDate:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			EntryType:       models.EntryTypeCredit,
			TransactionType: "STUDENT_PAID",
			Description:     "Fee payment RCP-1",
			Amount:          5000,
		},
		{
			EntryDate:       time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
			EntryType:       models.EntryTypeDebit,
			TransactionType: "OFFICE_EXPENSE",
			Description:     "Stationery",
			Amount:          1200,
		},
	}
	totals := services.BuildTotals(1000, 5000, 1200)

	f, err := buildCashbookWorkbook(entries, totals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header, _ := f.GetCellValue("Cashbook", "A1")
	if header != "Date" {
		t.Fatalf("expected Date header, got %q", header)
	}

	credit, _ := f.GetCellValue("Cashbook", "F2")
	if credit != "5000" {
		t.Fatalf("expected credit amount in column F, got %q", credit)
	}
	debit, _ := f.GetCellValue("Cashbook", "E3")
	if debit != "1200" {
		t.Fatalf("expected debit amount in column E, got %q", debit)
	}

	// Totals block follows one blank row after the entries
	label, _ := f.GetCellValue("Cashbook", "D5")
	if label != "Opening Balance" {
		t.Fatalf("expected Opening Balance label at D5, got %q", label)
	}
	closing, _ := f.GetCellValue("Cashbook", "F8")
	if closing != "4800" {
		t.Fatalf("expected closing balance 4800, got %q", closing)
	}
}

func TestBuildStudentsWorkbook(t *testing.T) {
	batch := &models.Batch{Name: "SPK-EN Morning"}
	students := []models.Student{
		{
			FirstName:       "Asha",
			LastName:        "Verma",
			Phone:           "9800000001",
			CurrentBatch:    batch,
			Location:        models.Location{Name: "Main Campus"},
			Status:          "active",
			IsFundedAccount: true,
		},
		{
			FirstName: "Ravi",
			Status:    "inactive",
		},
	}
	students[0].ID = 7
	students[1].ID = 8

	f, err := buildStudentsWorkbook(students)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, _ := f.GetCellValue("Students", "B2")
	if name != "Asha" {
		t.Fatalf("expected first name Asha, got %q", name)
	}
	batchName, _ := f.GetCellValue("Students", "E2")
	if batchName != "SPK-EN Morning" {
		t.Fatalf("expected batch name, got %q", batchName)
	}
	funded, _ := f.GetCellValue("Students", "H2")
	if funded != "Yes" {
		t.Fatalf("expected funded flag Yes, got %q", funded)
	}
	noBatch, _ := f.GetCellValue("Students", "E3")
	if noBatch != "" {
		t.Fatalf("expected empty batch cell for unenrolled student, got %q", noBatch)
	}
	notFunded, _ := f.GetCellValue("Students", "H3")
	if notFunded != "No" {
		t.Fatalf("expected funded flag No, got %q", notFunded)
	}
}
