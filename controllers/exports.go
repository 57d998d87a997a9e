package controllers

import (
	"fmt"
	"time"

	"instituteadmin_go/database"
	"instituteadmin_go/models"
	"instituteadmin_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ExportController struct{}

// buildCashbookWorkbook renders cashbook entries and their totals into a
// spreadsheet. Split out so the layout is testable without HTTP.
func buildCashbookWorkbook(entries []models.CashbookEntry, totals services.LedgerTotals) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Cashbook"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Type", "Transaction", "Description", "Debit", "Credit"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, entry := range entries {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.EntryDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.EntryType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), entry.TransactionType)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), entry.Description)
		if entry.EntryType == models.EntryTypeDebit {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), entry.Amount)
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), entry.Amount)
		}
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Opening Balance")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), totals.OpeningBalance)
	row++
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Total Debit")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), totals.TotalDebit)
	row++
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Total Credit")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), totals.TotalCredit)
	row++
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Closing Balance")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), totals.ClosingBalance)

	return f, nil
}

// buildStudentsWorkbook renders a student roster into a spreadsheet
func buildStudentsWorkbook(students []models.Student) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Students"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "First Name", "Last Name", "Phone", "Batch", "Location", "Status", "Funded"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, student := range students {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), student.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), student.FirstName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), student.LastName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), student.Phone)
		if student.CurrentBatch != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), student.CurrentBatch.Name)
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), student.Location.Name)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), student.Status)
		if student.IsFundedAccount {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), "Yes")
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), "No")
		}
	}

	return f, nil
}

func sendWorkbook(c *fiber.Ctx, f *excelize.File, fileName string) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate spreadsheet",
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	return c.Send(buf.Bytes())
}

// ExportCashbook streams the filtered cashbook as XLSX
func (ec *ExportController) ExportCashbook(c *fiber.Ctx) error {
	filter := ledgerFilterFromQuery(c)

	query := database.DB.Model(&models.CashbookEntry{})
	if filter.LocationID != 0 {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.TransactionType != "" {
		query = query.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.Year != 0 {
		start, end := services.PeriodRange(filter.Year, filter.Month)
		query = query.Where("entry_date >= ? AND entry_date < ?", start, end)
	}

	var entries []models.CashbookEntry
	if err := query.Order("entry_date, id").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch cashbook entries",
		})
	}

	totals, err := services.NewLedgerService().CashbookTotals(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute cashbook totals",
		})
	}

	f, err := buildCashbookWorkbook(entries, totals)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build spreadsheet",
		})
	}

	fileName := fmt.Sprintf("cashbook_%s.xlsx", time.Now().Format("2006-01-02"))
	return sendWorkbook(c, f, fileName)
}

// ExportStudents streams the filtered student roster as XLSX
func (ec *ExportController) ExportStudents(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Student{})
	if locationID := c.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}
	if batchID := c.Query("batch_id"); batchID != "" {
		query = query.Where("current_batch_id = ?", batchID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var students []models.Student
	if err := query.Preload("CurrentBatch").Preload("Location").
		Order("id").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	f, err := buildStudentsWorkbook(students)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build spreadsheet",
		})
	}

	fileName := fmt.Sprintf("students_%s.xlsx", time.Now().Format("2006-01-02"))
	return sendWorkbook(c, f, fileName)
}
