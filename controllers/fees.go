package controllers

import (
	"strconv"

	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"instituteadmin_go/services"
	"instituteadmin_go/utils"

	"github.com/gofiber/fiber/v2"
)

type FeeController struct{}

// UpdateFeeRequest represents the fee adjustment request body.
// Only discount and payment mode are operator-adjustable; paid amounts
// move through payments.
type UpdateFeeRequest struct {
	DiscountAmount *float64 `json:"discount_amount" validate:"omitempty,gte=0"`
	FeePaymentMode *string  `json:"fee_payment_mode"`
}

// GetFees returns fees with pagination
func (fc *FeeController) GetFees(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	page, limit, offset := utils.NormalizePagination(page, limit)

	var fees []models.Fee
	var total int64

	query := database.DB.Model(&models.Fee{})

	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if batchID := c.Query("batch_id"); batchID != "" {
		query = query.Where("batch_id = ?", batchID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("outstanding") == "true" {
		query = query.Where("balance_amount > 0")
	}

	query.Count(&total)

	if err := query.Preload("Student").Preload("Batch").Preload("Batch.Course").
		Order("id DESC").
		Offset(offset).Limit(limit).Find(&fees).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch fees",
		})
	}

	return c.JSON(fiber.Map{
		"fees": fees,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// GetFee returns a specific fee with its payments
func (fc *FeeController) GetFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee ID",
		})
	}

	var fee models.Fee
	if err := database.DB.Preload("Student").Preload("Batch").Preload("Batch.Course").
		Preload("Payments").First(&fee, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee not found",
		})
	}

	return c.JSON(fiber.Map{
		"fee": fee,
	})
}

// UpdateFee adjusts a fee's discount or payment mode and recomputes the
// derived amounts
func (fc *FeeController) UpdateFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee ID",
		})
	}

	var fee models.Fee
	if err := database.DB.First(&fee, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee not found",
		})
	}
	if fee.Status != "ACTIVE" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Closed fees cannot be adjusted",
		})
	}

	var req UpdateFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	if req.DiscountAmount != nil {
		if *req.DiscountAmount > fee.TotalCourseFee {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Discount cannot exceed the course fee",
			})
		}
		fee.DiscountAmount = *req.DiscountAmount
		fee.FinalFee = services.ComputeFinalFee(fee.TotalCourseFee, fee.DiscountAmount)
		fee.BalanceAmount = services.ComputeBalance(fee.FinalFee, fee.PaidAmount)
	}
	if req.FeePaymentMode != nil {
		if *req.FeePaymentMode != "FULL" && *req.FeePaymentMode != "INSTALLMENT" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "fee_payment_mode must be FULL or INSTALLMENT",
			})
		}
		fee.FeePaymentMode = *req.FeePaymentMode
	}

	if err := database.DB.Save(&fee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update fee",
		})
	}

	middleware.LogActivity(c, "UPDATE", "fees", fee.ID, fiber.Map{
		"discount_amount": fee.DiscountAmount,
		"final_fee":       fee.FinalFee,
	})

	return c.JSON(fiber.Map{
		"message": "Fee updated successfully",
		"fee":     fee,
	})
}
