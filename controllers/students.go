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
	"gorm.io/gorm"
)

type StudentController struct{}

// CreateStudentRequest represents the student creation request body.
// An initial batch enrollment is optional; when present it opens a fee.
type CreateStudentRequest struct {
	FirstName       string     `json:"first_name" validate:"required,max=100"`
	LastName        string     `json:"last_name" validate:"max=100"`
	Email           string     `json:"email" validate:"omitempty,email"`
	Phone           string     `json:"phone"`
	Address         string     `json:"address"`
	GuardianName    string     `json:"guardian_name"`
	GuardianPhone   string     `json:"guardian_phone"`
	AdmissionDate   *time.Time `json:"admission_date"`
	LocationID      uint       `json:"location_id" validate:"required"`
	IsFundedAccount bool       `json:"is_funded_account"`
	Notes           string     `json:"notes"`

	BatchID        *uint   `json:"batch_id"`
	DiscountAmount float64 `json:"discount_amount" validate:"gte=0"`
	AdvanceAmount  float64 `json:"advance_amount" validate:"gte=0"`
	FeePaymentMode string  `json:"fee_payment_mode"`
}

// GetStudents returns all students with pagination
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	page, limit, offset := utils.NormalizePagination(page, limit)

	var students []models.Student
	var total int64

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
	if funded := c.Query("is_funded_account"); funded != "" {
		query = query.Where("is_funded_account = ?", funded == "true")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR phone LIKE ?", like, like, like)
	}

	query.Count(&total)

	if err := query.Preload("CurrentBatch").Preload("CurrentBatch.Course").Preload("Location").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// GetStudent returns a specific student with batch, fees and payments
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.
		Preload("CurrentBatch").Preload("CurrentBatch.Course").Preload("Location").
		Preload("Fees", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).
		Preload("Fees.Payments").
		First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

// CreateStudent creates a student and, when a batch is given, enrolls them
// and opens the enrollment fee in the same transaction
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	var location models.Location
	if err := database.DB.First(&location, req.LocationID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	var batch *models.Batch
	if req.BatchID != nil {
		var b models.Batch
		if err := database.DB.First(&b, *req.BatchID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Batch not found",
			})
		}
		if b.Status != "ACTIVE" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Batch is not active",
			})
		}
		if !b.HasCapacity() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Batch is full",
			})
		}
		batch = &b
	}

	admission := req.AdmissionDate
	if admission == nil {
		now := time.Now()
		admission = &now
	}

	student := models.Student{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		GuardianName:    req.GuardianName,
		GuardianPhone:   req.GuardianPhone,
		AdmissionDate:   admission,
		LocationID:      req.LocationID,
		IsFundedAccount: req.IsFundedAccount,
		Status:          "active",
		Notes:           req.Notes,
	}

	feeService := services.NewFeeService()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		if batch != nil {
			student.CurrentBatchID = &batch.ID
			if err := tx.Model(&student).Update("current_batch_id", batch.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(batch).
				Update("enrolled_count", gorm.Expr("enrolled_count + 1")).Error; err != nil {
				return err
			}
			if _, err := feeService.CreateEnrollmentFee(tx, student.ID, batch,
				req.DiscountAmount, req.AdvanceAmount, req.FeePaymentMode); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	database.DB.Preload("CurrentBatch").Preload("Location").Preload("Fees").
		First(&student, student.ID)

	middleware.LogActivity(c, "CREATE", "students", student.ID, fiber.Map{
		"name":     student.FirstName + " " + student.LastName,
		"batch_id": req.BatchID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent updates an existing student's profile fields
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var updateData models.Student
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Batch membership moves only through the switch workflow
	updateData.CurrentBatchID = nil

	if err := database.DB.Model(&student).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	database.DB.Preload("CurrentBatch").Preload("Location").First(&student, student.ID)

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudent soft-deletes a student and frees their batch slot
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var outstanding int64
	database.DB.Model(&models.Fee{}).
		Where("student_id = ? AND status = ? AND balance_amount > 0", student.ID, "ACTIVE").
		Count(&outstanding)
	if outstanding > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete a student with an outstanding balance",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if student.CurrentBatchID != nil {
			if err := tx.Model(&models.Batch{}).Where("id = ?", *student.CurrentBatchID).
				Update("enrolled_count", gorm.Expr("GREATEST(enrolled_count - 1, 0)")).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, fiber.Map{
		"name": student.FirstName + " " + student.LastName,
	})

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}
