package controllers

import (
	"strconv"

	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"instituteadmin_go/services"

	"github.com/gofiber/fiber/v2"
)

type BankAccountController struct{}

// GetBankAccounts returns all bank accounts with their current balances
func (bc *BankAccountController) GetBankAccounts(c *fiber.Ctx) error {
	query := database.DB.Model(&models.BankAccount{})
	if locationID := c.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var accounts []models.BankAccount
	if err := query.Preload("Location").Order("bank_name").Find(&accounts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch bank accounts",
		})
	}

	ledger := services.NewLedgerService()
	balances := make(map[uint]float64, len(accounts))
	for _, account := range accounts {
		totals, err := ledger.BankTotals(services.LedgerFilter{BankAccountID: account.ID})
		if err != nil {
			continue
		}
		balances[account.ID] = totals.ClosingBalance
	}

	return c.JSON(fiber.Map{
		"accounts": accounts,
		"balances": balances,
		"total":    len(accounts),
	})
}

// GetBankAccount returns a specific bank account with its balance summary
func (bc *BankAccountController) GetBankAccount(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account ID",
		})
	}

	var account models.BankAccount
	if err := database.DB.Preload("Location").First(&account, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bank account not found",
		})
	}

	totals, err := services.NewLedgerService().BankTotals(services.LedgerFilter{BankAccountID: account.ID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute account balance",
		})
	}

	return c.JSON(fiber.Map{
		"account": account,
		"totals":  totals,
	})
}

// CreateBankAccount creates a new bank account
func (bc *BankAccountController) CreateBankAccount(c *fiber.Ctx) error {
	var account models.BankAccount
	if err := c.BodyParser(&account); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if account.BankName == "" || account.AccountName == "" || account.AccountNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bank name, account name and account number are required",
		})
	}
	if account.LocationID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "location_id is required",
		})
	}

	var existing models.BankAccount
	if err := database.DB.Where("account_number = ?", account.AccountNumber).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Account number already exists",
		})
	}

	account.Active = true
	if err := database.DB.Create(&account).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create bank account",
		})
	}

	middleware.LogActivity(c, "CREATE", "bank_accounts", account.ID, fiber.Map{
		"bank_name":      account.BankName,
		"account_number": account.AccountNumber,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bank account created successfully",
		"account": account,
	})
}

// UpdateBankAccount updates account details. The opening balance is fixed
// once transactions exist.
func (bc *BankAccountController) UpdateBankAccount(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account ID",
		})
	}

	var account models.BankAccount
	if err := database.DB.First(&account, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bank account not found",
		})
	}

	var updateData models.BankAccount
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.OpeningBalance != account.OpeningBalance {
		var txnCount int64
		database.DB.Model(&models.BankTransaction{}).
			Where("bank_account_id = ?", account.ID).Count(&txnCount)
		if txnCount > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Opening balance cannot change once transactions exist",
			})
		}
	}

	if err := database.DB.Model(&account).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update bank account",
		})
	}

	middleware.LogActivity(c, "UPDATE", "bank_accounts", account.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Bank account updated successfully",
		"account": account,
	})
}

// DeleteBankAccount deactivates a bank account; ledger rows are kept
func (bc *BankAccountController) DeleteBankAccount(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account ID",
		})
	}

	var account models.BankAccount
	if err := database.DB.First(&account, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Bank account not found",
		})
	}

	if err := database.DB.Model(&account).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to deactivate bank account",
		})
	}

	middleware.LogActivity(c, "DELETE", "bank_accounts", account.ID, fiber.Map{
		"account_number": account.AccountNumber,
	})

	return c.JSON(fiber.Map{
		"message": "Bank account deactivated successfully",
	})
}
