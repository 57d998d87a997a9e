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

type BankTransactionController struct{}

// CreateBankTransactionRequest represents the bank transaction request body
type CreateBankTransactionRequest struct {
	BankAccountID   uint    `json:"bank_account_id" validate:"required"`
	TxnDate         string  `json:"txn_date"` // RFC3339, defaults to now
	EntryType       string  `json:"entry_type" validate:"required"`
	TransactionType string  `json:"transaction_type" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Reference       string  `json:"reference" validate:"max=100"`
	Description     string  `json:"description" validate:"max=500"`
}

// GetBankTransactions returns bank transactions with full-range totals
func (btc *BankTransactionController) GetBankTransactions(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	page, limit, offset := utils.NormalizePagination(page, limit)

	filter := ledgerFilterFromQuery(c)
	if accountID, err := strconv.ParseUint(c.Query("bank_account_id", "0"), 10, 32); err == nil {
		filter.BankAccountID = uint(accountID)
	}

	query := database.DB.Model(&models.BankTransaction{})
	if filter.BankAccountID != 0 {
		query = query.Where("bank_account_id = ?", filter.BankAccountID)
	}
	if filter.LocationID != 0 {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.TransactionType != "" {
		query = query.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.Year != 0 {
		start, end := services.PeriodRange(filter.Year, filter.Month)
		query = query.Where("txn_date >= ? AND txn_date < ?", start, end)
	}

	var total int64
	query.Count(&total)

	var transactions []models.BankTransaction
	if err := query.Preload("BankAccount").
		Order("txn_date DESC, id DESC").
		Offset(offset).Limit(limit).Find(&transactions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch bank transactions",
		})
	}

	totals, err := services.NewLedgerService().BankTotals(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute bank totals",
		})
	}

	return c.JSON(fiber.Map{
		"transactions": transactions,
		"totals":       totals,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// CreateBankTransaction posts a new bank transaction
func (btc *BankTransactionController) CreateBankTransaction(c *fiber.Ctx) error {
	var req CreateBankTransactionRequest
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

	var account models.BankAccount
	if err := database.DB.First(&account, req.BankAccountID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bank account not found",
		})
	}
	if !account.Active {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Bank account is inactive",
		})
	}

	txnDate := time.Now()
	if req.TxnDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.TxnDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "txn_date must be RFC3339",
			})
		}
		txnDate = parsed
	}

	claims, _ := middleware.GetCurrentClaims(c)

	txn := models.BankTransaction{
		BankAccountID:   account.ID,
		LocationID:      account.LocationID,
		TxnDate:         txnDate,
		EntryType:       req.EntryType,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Reference:       req.Reference,
		Description:     req.Description,
	}
	if claims != nil {
		txn.CreatedBy = claims.UserID
	}

	if err := database.DB.Create(&txn).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create bank transaction",
		})
	}

	middleware.LogActivity(c, "CREATE", "bank_transactions", txn.ID, fiber.Map{
		"bank_account_id":  txn.BankAccountID,
		"entry_type":       txn.EntryType,
		"transaction_type": txn.TransactionType,
		"amount":           txn.Amount,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Bank transaction created successfully",
		"transaction": txn,
	})
}

// DeleteBankTransaction removes a wrongly posted transaction
func (btc *BankTransactionController) DeleteBankTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid transaction ID",
		})
	}

	var txn models.BankTransaction
	if err := database.DB.First(&txn, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bank transaction not found",
		})
	}

	if err := database.DB.Delete(&txn).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete bank transaction",
		})
	}

	middleware.LogActivity(c, "DELETE", "bank_transactions", txn.ID, fiber.Map{
		"amount": txn.Amount,
	})

	return c.JSON(fiber.Map{
		"message": "Bank transaction deleted successfully",
	})
}
