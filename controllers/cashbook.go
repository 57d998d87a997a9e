package controllers

import (
	"strconv"
	"time"

	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"instituteadmin_go/services"
	"instituteadmin_go/services/dashboard"
	"instituteadmin_go/utils"

	"github.com/gofiber/fiber/v2"
)

type CashbookController struct{}

// CreateCashbookEntryRequest represents the cashbook entry request body
type CreateCashbookEntryRequest struct {
	LocationID      uint    `json:"location_id" validate:"required"`
	EntryDate       string  `json:"entry_date"` // RFC3339, defaults to now
	EntryType       string  `json:"entry_type" validate:"required"`
	TransactionType string  `json:"transaction_type" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Description     string  `json:"description" validate:"max=500"`
}

// ledgerFilterFromQuery builds the shared ledger filter from query params
func ledgerFilterFromQuery(c *fiber.Ctx) services.LedgerFilter {
	locationID, _ := strconv.ParseUint(c.Query("location_id", "0"), 10, 32)
	year, _ := strconv.Atoi(c.Query("year", "0"))
	month, _ := strconv.Atoi(c.Query("month", "0"))
	year, month = services.NormalizePeriod(year, month)
	return services.LedgerFilter{
		LocationID:      uint(locationID),
		Year:            year,
		Month:           month,
		TransactionType: c.Query("transaction_type"),
	}
}

// GetCashbook returns cashbook entries with the authoritative totals for
// the whole filtered range; cash in hand is the closing balance.
func (cc *CashbookController) GetCashbook(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	page, limit, offset := utils.NormalizePagination(page, limit)

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

	var total int64
	query.Count(&total)

	var entries []models.CashbookEntry
	if err := query.Preload("Location").
		Order("entry_date DESC, id DESC").
		Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
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

	return c.JSON(fiber.Map{
		"entries":      entries,
		"totals":       totals,
		"cash_in_hand": totals.ClosingBalance,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// CreateCashbookEntry posts a new cashbook entry
func (cc *CashbookController) CreateCashbookEntry(c *fiber.Ctx) error {
	var req CreateCashbookEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}
	if !utils.IsValidEntryType(req.EntryType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "entry_type must be DEBIT or CREDIT",
		})
	}

	var location models.Location
	if err := database.DB.First(&location, req.LocationID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	entryDate := time.Now()
	if req.EntryDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EntryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "entry_date must be RFC3339",
			})
		}
		entryDate = parsed
	}

	claims, _ := middleware.GetCurrentClaims(c)

	entry := models.CashbookEntry{
		LocationID:      req.LocationID,
		EntryDate:       entryDate,
		EntryType:       req.EntryType,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Description:     req.Description,
	}
	if claims != nil {
		entry.CreatedBy = claims.UserID
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create cashbook entry",
		})
	}

	middleware.LogActivity(c, "CREATE", "cashbook", entry.ID, fiber.Map{
		"entry_type":       entry.EntryType,
		"transaction_type": entry.TransactionType,
		"amount":           entry.Amount,
	})
	dashboard.Publish(dashboard.EventCashbookPosted, fiber.Map{
		"entry_id":    entry.ID,
		"location_id": entry.LocationID,
		"entry_type":  entry.EntryType,
		"amount":      entry.Amount,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Cashbook entry created successfully",
		"entry":   entry,
	})
}

// UpdateCashbookEntry corrects a manually posted entry. Entries generated
// from payments stay tied to their payment and cannot be edited.
func (cc *CashbookController) UpdateCashbookEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry ID",
		})
	}

	var entry models.CashbookEntry
	if err := database.DB.First(&entry, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Cashbook entry not found",
		})
	}
	if entry.PaymentID != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Entries generated from payments cannot be edited",
		})
	}

	var req CreateCashbookEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.EntryType != "" {
		if !utils.IsValidEntryType(req.EntryType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "entry_type must be DEBIT or CREDIT",
			})
		}
		entry.EntryType = req.EntryType
	}
	if req.TransactionType != "" {
		entry.TransactionType = req.TransactionType
	}
	if req.Amount > 0 {
		entry.Amount = req.Amount
	}
	if req.Description != "" {
		entry.Description = req.Description
	}
	if req.EntryDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EntryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "entry_date must be RFC3339",
			})
		}
		entry.EntryDate = parsed
	}

	if err := database.DB.Save(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update cashbook entry",
		})
	}

	middleware.LogActivity(c, "UPDATE", "cashbook", entry.ID, fiber.Map{
		"amount": entry.Amount,
	})

	return c.JSON(fiber.Map{
		"message": "Cashbook entry updated successfully",
		"entry":   entry,
	})
}

// DeleteCashbookEntry removes a manually posted entry
func (cc *CashbookController) DeleteCashbookEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry ID",
		})
	}

	var entry models.CashbookEntry
	if err := database.DB.First(&entry, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Cashbook entry not found",
		})
	}
	if entry.PaymentID != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Entries generated from payments cannot be deleted",
		})
	}

	if err := database.DB.Delete(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete cashbook entry",
		})
	}

	middleware.LogActivity(c, "DELETE", "cashbook", entry.ID, fiber.Map{
		"amount": entry.Amount,
	})

	return c.JSON(fiber.Map{
		"message": "Cashbook entry deleted successfully",
	})
}
