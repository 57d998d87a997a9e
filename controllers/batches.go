package controllers

import (
	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"instituteadmin_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type BatchController struct{}

// GetBatches returns all batches with pagination
func (bc *BatchController) GetBatches(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	page, limit, offset := utils.NormalizePagination(page, limit)

	var batches []models.Batch
	var total int64

	query := database.DB.Model(&models.Batch{})

	if courseID := c.Query("course_id"); courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if locationID := c.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	query.Count(&total)

	if err := query.Preload("Course").Preload("Location").
		Order("start_date DESC").
		Offset(offset).Limit(limit).Find(&batches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch batches",
		})
	}

	return c.JSON(fiber.Map{
		"batches": batches,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// GetBatch returns a specific batch by ID
func (bc *BatchController) GetBatch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID",
		})
	}

	var batch models.Batch
	if err := database.DB.Preload("Course").Preload("Location").
		First(&batch, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Batch not found",
		})
	}

	var students []models.Student
	database.DB.Where("current_batch_id = ?", batch.ID).Find(&students)

	return c.JSON(fiber.Map{
		"batch":    batch,
		"students": students,
	})
}

// GetAvailableBatches returns batches a student can switch into: ACTIVE,
// with free slots, excluding the student's current batch.
func (bc *BatchController) GetAvailableBatches(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("student_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(studentID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	query := database.DB.Model(&models.Batch{}).
		Where("status = ?", "ACTIVE").
		Where("slot_limit <= 0 OR enrolled_count < slot_limit")
	if student.CurrentBatchID != nil {
		query = query.Where("id != ?", *student.CurrentBatchID)
	}
	if courseID := c.Query("course_id"); courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	if locationID := c.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}

	var batches []models.Batch
	if err := query.Preload("Course").Preload("Location").
		Order("start_date DESC").Find(&batches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch available batches",
		})
	}

	return c.JSON(fiber.Map{
		"batches": batches,
		"total":   len(batches),
	})
}

// CreateBatch creates a new batch, defaulting its fee from the course base fee
func (bc *BatchController) CreateBatch(c *fiber.Ctx) error {
	var batch models.Batch
	if err := c.BodyParser(&batch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if batch.Name == "" || batch.CourseID == 0 || batch.LocationID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, course_id and location_id are required",
		})
	}

	var course models.Course
	if err := database.DB.First(&course, batch.CourseID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	if batch.CourseFee == 0 {
		batch.CourseFee = course.BaseFee
	}
	if batch.Status == "" {
		batch.Status = "ACTIVE"
	}
	batch.EnrolledCount = 0

	if err := database.DB.Create(&batch).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create batch",
		})
	}

	database.DB.Preload("Course").Preload("Location").First(&batch, batch.ID)

	middleware.LogActivity(c, "CREATE", "batches", batch.ID, batch)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Batch created successfully",
		"batch":   batch,
	})
}

// UpdateBatch updates an existing batch
func (bc *BatchController) UpdateBatch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID",
		})
	}

	var batch models.Batch
	if err := database.DB.First(&batch, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Batch not found",
		})
	}

	var updateData models.Batch
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Enrollment count moves only through enrollments and switches
	updateData.EnrolledCount = batch.EnrolledCount

	if updateData.SlotLimit > 0 && updateData.SlotLimit < batch.EnrolledCount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Slot limit cannot be below the enrolled count",
		})
	}

	if err := database.DB.Model(&batch).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update batch",
		})
	}

	database.DB.Preload("Course").Preload("Location").First(&batch, batch.ID)

	middleware.LogActivity(c, "UPDATE", "batches", batch.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Batch updated successfully",
		"batch":   batch,
	})
}

// DeleteBatch deletes a batch with no enrolled students
func (bc *BatchController) DeleteBatch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID",
		})
	}

	var batch models.Batch
	if err := database.DB.First(&batch, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Batch not found",
		})
	}

	var studentCount int64
	database.DB.Model(&models.Student{}).Where("current_batch_id = ?", batch.ID).Count(&studentCount)
	if studentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete a batch with enrolled students",
		})
	}

	if err := database.DB.Delete(&batch).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete batch",
		})
	}

	middleware.LogActivity(c, "DELETE", "batches", batch.ID, fiber.Map{"name": batch.Name})

	return c.JSON(fiber.Map{
		"message": "Batch deleted successfully",
	})
}
