package controllers

import (
	"strconv"
	"time"

	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"instituteadmin_go/services"
	"instituteadmin_go/utils"

	"github.com/gofiber/fiber/v2"
)

type DirectorLedgerController struct{}

// CreateDirectorEntryRequest represents the director ledger request body
type CreateDirectorEntryRequest struct {
	LocationID      uint    `json:"location_id" validate:"required"`
	EntryDate       string  `json:"entry_date"` // RFC3339, defaults to now
	EntryType       string  `json:"entry_type" validate:"required"`
	TransactionType string  `json:"transaction_type" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Description     string  `json:"description" validate:"max=500"`
}

// GetDirectorLedger returns director ledger entries with full-range totals
func (dc *DirectorLedgerController) GetDirectorLedger(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	page, limit, offset := utils.NormalizePagination(page, limit)

	filter := ledgerFilterFromQuery(c)

	query := database.DB.Model(&models.DirectorLedgerEntry{})
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

	var entries []models.DirectorLedgerEntry
	if err := query.Preload("Location").
		Order("entry_date DESC, id DESC").
		Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch director ledger",
		})
	}

	totals, err := services.NewLedgerService().DirectorTotals(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute director ledger totals",
		})
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"totals":  totals,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// CreateDirectorEntry posts a new director ledger entry
func (dc *DirectorLedgerController) CreateDirectorEntry(c *fiber.Ctx) error {
	var req CreateDirectorEntryRequest
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

	entry := models.DirectorLedgerEntry{
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
			"error": "Failed to create director ledger entry",
		})
	}

	middleware.LogActivity(c, "CREATE", "director_ledger", entry.ID, fiber.Map{
		"entry_type":       entry.EntryType,
		"transaction_type": entry.TransactionType,
		"amount":           entry.Amount,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Director ledger entry created successfully",
		"entry":   entry,
	})
}

// DeleteDirectorEntry removes a wrongly posted entry
func (dc *DirectorLedgerController) DeleteDirectorEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry ID",
		})
	}

	var entry models.DirectorLedgerEntry
	if err := database.DB.First(&entry, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Director ledger entry not found",
		})
	}

	if err := database.DB.Delete(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete director ledger entry",
		})
	}

	middleware.LogActivity(c, "DELETE", "director_ledger", entry.ID, fiber.Map{
		"amount": entry.Amount,
	})

	return c.JSON(fiber.Map{
		"message": "Director ledger entry deleted successfully",
	})
}
