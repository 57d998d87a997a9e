package controllers

import (
	"fmt"
	"strconv"
	"time"

	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"instituteadmin_go/services"
	"instituteadmin_go/services/dashboard"
	"instituteadmin_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentController struct{}

// CreatePaymentRequest represents the payment creation request body
type CreatePaymentRequest struct {
	FeeID   uint    `json:"fee_id" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Mode    string  `json:"mode" validate:"required"`
	Status  string  `json:"status"`
	DueDate *string `json:"due_date"` // RFC3339, for PENDING installments
	Notes   string  `json:"notes"`
}

func generateReceiptNumber() string {
	return fmt.Sprintf("RCP-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
}

// GetPayments returns payments with pagination
func (pc *PaymentController) GetPayments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	page, limit, offset := utils.NormalizePagination(page, limit)

	var payments []models.Payment
	var total int64

	query := database.DB.Model(&models.Payment{})

	if feeID := c.Query("fee_id"); feeID != "" {
		query = query.Where("fee_id = ?", feeID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if mode := c.Query("mode"); mode != "" {
		query = query.Where("mode = ?", mode)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Joins("JOIN fees ON fees.id = payments.fee_id").
			Where("fees.student_id = ?", studentID)
	}

	query.Count(&total)

	if err := query.Preload("Fee").Preload("Fee.Student").
		Order("payments.id DESC").
		Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payments",
		})
	}

	return c.JSON(fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// GetPayment returns a specific payment
func (pc *PaymentController) GetPayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.Preload("Fee").Preload("Fee.Student").Preload("Fee.Batch").
		First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	return c.JSON(fiber.Map{
		"payment": payment,
	})
}

// CreatePayment records a payment against a fee. A COMPLETED payment updates
// the fee's paid and balance amounts; a COMPLETED cash payment also posts a
// cashbook credit at the student's location, all in one transaction.
func (pc *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	if !utils.IsValidPaymentMode(req.Mode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment mode",
		})
	}

	status := req.Status
	if status == "" {
		status = models.PaymentStatusCompleted
	}
	if status != models.PaymentStatusCompleted && status != models.PaymentStatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status must be COMPLETED or PENDING",
		})
	}

	var fee models.Fee
	if err := database.DB.Preload("Student").First(&fee, req.FeeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee not found",
		})
	}
	if fee.Status != "ACTIVE" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot record payments against a closed fee",
		})
	}
	if status == models.PaymentStatusCompleted && req.Amount > fee.BalanceAmount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Payment exceeds the outstanding balance",
		})
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "due_date must be RFC3339",
			})
		}
		dueDate = &parsed
	}

	claims, _ := middleware.GetCurrentClaims(c)

	payment := models.Payment{
		FeeID:         fee.ID,
		Amount:        req.Amount,
		Mode:          req.Mode,
		Status:        status,
		DueDate:       dueDate,
		ReceiptNumber: generateReceiptNumber(),
		Notes:         req.Notes,
	}
	if status == models.PaymentStatusCompleted {
		now := time.Now()
		payment.PaidAt = &now
	}

	feeService := services.NewFeeService()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if status != models.PaymentStatusCompleted {
			return nil
		}
		if err := feeService.RecordPayment(tx, &fee, payment.Amount); err != nil {
			return err
		}
		if payment.Mode == "CASH" {
			entry := models.CashbookEntry{
				LocationID:      fee.Student.LocationID,
				EntryDate:       *payment.PaidAt,
				EntryType:       models.EntryTypeCredit,
				TransactionType: "STUDENT_PAID",
				Amount:          payment.Amount,
				Description:     fmt.Sprintf("Fee payment %s", payment.ReceiptNumber),
				PaymentID:       &payment.ID,
			}
			if claims != nil {
				entry.CreatedBy = claims.UserID
			}
			return tx.Create(&entry).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record payment",
		})
	}

	middleware.LogActivity(c, "CREATE", "payments", payment.ID, fiber.Map{
		"fee_id":         payment.FeeID,
		"amount":         payment.Amount,
		"mode":           payment.Mode,
		"receipt_number": payment.ReceiptNumber,
	})
	dashboard.Publish(dashboard.EventPaymentRecorded, fiber.Map{
		"payment_id":     payment.ID,
		"fee_id":         payment.FeeID,
		"student_id":     fee.StudentID,
		"amount":         payment.Amount,
		"mode":           payment.Mode,
		"receipt_number": payment.ReceiptNumber,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"payment": payment,
		"fee":     fee,
	})
}

// UpdatePaymentStatus completes or fails a pending payment. Completing
// applies the amount to the fee and posts the cash entry like CreatePayment.
func (pc *PaymentController) UpdatePaymentStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if body.Status != models.PaymentStatusCompleted && body.Status != models.PaymentStatusFailed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status must be COMPLETED or FAILED",
		})
	}

	var payment models.Payment
	if err := database.DB.Preload("Fee").Preload("Fee.Student").
		First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}
	if payment.Status == models.PaymentStatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Payment is already completed",
		})
	}
	// The fee may have been closed since the payment was recorded, e.g. by a
	// batch switch that split it.
	if body.Status == models.PaymentStatusCompleted && payment.Fee.Status != "ACTIVE" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot record payments against a closed fee",
		})
	}

	claims, _ := middleware.GetCurrentClaims(c)
	feeService := services.NewFeeService()

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		payment.Status = body.Status
		if body.Status == models.PaymentStatusCompleted {
			now := time.Now()
			payment.PaidAt = &now
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		if body.Status != models.PaymentStatusCompleted {
			return nil
		}
		fee := payment.Fee
		if err := feeService.RecordPayment(tx, &fee, payment.Amount); err != nil {
			return err
		}
		if payment.Mode == "CASH" {
			entry := models.CashbookEntry{
				LocationID:      fee.Student.LocationID,
				EntryDate:       *payment.PaidAt,
				EntryType:       models.EntryTypeCredit,
				TransactionType: "STUDENT_PAID",
				Amount:          payment.Amount,
				Description:     fmt.Sprintf("Fee payment %s", payment.ReceiptNumber),
				PaymentID:       &payment.ID,
			}
			if claims != nil {
				entry.CreatedBy = claims.UserID
			}
			return tx.Create(&entry).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update payment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "payments", payment.ID, fiber.Map{
		"status": payment.Status,
	})
	if payment.Status == models.PaymentStatusCompleted {
		dashboard.Publish(dashboard.EventPaymentRecorded, fiber.Map{
			"payment_id":     payment.ID,
			"fee_id":         payment.FeeID,
			"amount":         payment.Amount,
			"mode":           payment.Mode,
			"receipt_number": payment.ReceiptNumber,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Payment updated successfully",
		"payment": payment,
	})
}

// UploadReceipt attaches a scanned receipt to a payment
func (pc *PaymentController) UploadReceipt(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment ID",
		})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	fh, err := c.FormFile("receipt")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "receipt file is required",
		})
	}
	if !isAllowedUpload(fh.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File type not allowed",
		})
	}

	url, err := uploadToStorage(fh, "receipts", payment.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload receipt",
		})
	}

	if err := database.DB.Model(&payment).Update("receipt_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save receipt",
		})
	}

	middleware.LogActivity(c, "UPDATE", "payments", payment.ID, fiber.Map{"field": "receipt_url"})

	return c.JSON(fiber.Map{
		"message":     "Receipt uploaded successfully",
		"receipt_url": url,
	})
}
