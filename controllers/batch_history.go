package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"instituteadmin_go/services"
	"instituteadmin_go/services/dashboard"
	"instituteadmin_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BatchHistoryController struct{}

// SwitchBatchRequest represents the batch-switch request body
type SwitchBatchRequest struct {
	StudentID  uint   `json:"student_id" validate:"required"`
	NewBatchID uint   `json:"new_batch_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,max=500"`
	FeeAction  string `json:"fee_action" validate:"required"`
	ChangeDate string `json:"change_date"` // RFC3339, defaults to now
}

// EditSwitchRequest represents the amend-last-switch request body.
// Only the fields present are changed.
type EditSwitchRequest struct {
	NewBatchID *uint   `json:"new_batch_id"`
	Reason     *string `json:"reason"`
	FeeAction  *string `json:"fee_action"`
	ChangeDate *string `json:"change_date"`
}

// validateSwitchRequest checks the request fields that need no database
// lookup. Returns the parsed change date on success.
func validateSwitchRequest(req *SwitchBatchRequest, currentBatchID *uint) (time.Time, error) {
	if req.StudentID == 0 {
		return time.Time{}, errors.New("student_id is required")
	}
	if req.NewBatchID == 0 {
		return time.Time{}, errors.New("new_batch_id is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return time.Time{}, errors.New("reason is required")
	}
	if !utils.IsValidFeeAction(req.FeeAction) {
		return time.Time{}, errors.New("fee_action must be TRANSFER, NEW_FEE or SPLIT")
	}
	if currentBatchID != nil && *currentBatchID == req.NewBatchID {
		return time.Time{}, errors.New("student is already in this batch")
	}

	changeDate := time.Now()
	if req.ChangeDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ChangeDate)
		if err != nil {
			return time.Time{}, errors.New("change_date must be RFC3339")
		}
		changeDate = parsed
	}
	return changeDate, nil
}

// reasonOverride resolves an optional reason replacement against the recorded
// one. A supplied reason must be non-empty after trimming, like on a switch.
func reasonOverride(current string, override *string) (string, error) {
	if override == nil {
		return current, nil
	}
	if strings.TrimSpace(*override) == "" {
		return "", errors.New("reason must not be empty")
	}
	return *override, nil
}

// SwitchBatch moves a student to a new batch in one transaction: the history
// row, the student's current batch, both enrollment counts and the fee effect
// all commit or none do.
func (bhc *BatchHistoryController) SwitchBatch(c *fiber.Ctx) error {
	var req SwitchBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}
	if student.CurrentBatchID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student is not enrolled in any batch",
		})
	}

	changeDate, err := validateSwitchRequest(&req, student.CurrentBatchID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var newBatch models.Batch
	if err := database.DB.First(&newBatch, req.NewBatchID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Batch not found",
		})
	}
	if newBatch.Status != "ACTIVE" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Target batch is not active",
		})
	}
	if !newBatch.HasCapacity() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Target batch is full",
		})
	}

	oldBatchID := *student.CurrentBatchID
	feeService := services.NewFeeService()
	var history models.BatchHistory

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		fromFeeID, toFeeID, err := feeService.ApplyFeeAction(tx, student.ID, &newBatch, req.FeeAction)
		if err != nil {
			return err
		}

		history = models.BatchHistory{
			StudentID:   student.ID,
			FromBatchID: oldBatchID,
			ToBatchID:   newBatch.ID,
			FromFeeID:   fromFeeID,
			ToFeeID:     toFeeID,
			ChangeDate:  changeDate,
			Reason:      req.Reason,
			FeeAction:   req.FeeAction,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if err := tx.Model(&student).Update("current_batch_id", newBatch.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Batch{}).Where("id = ?", oldBatchID).
			Update("enrolled_count", gorm.Expr("GREATEST(enrolled_count - 1, 0)")).Error; err != nil {
			return err
		}
		return tx.Model(&models.Batch{}).Where("id = ?", newBatch.ID).
			Update("enrolled_count", gorm.Expr("enrolled_count + 1")).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.DB.Preload("Student").Preload("FromBatch").Preload("ToBatch").
		First(&history, history.ID)

	middleware.LogActivity(c, "CREATE", "batch_history", history.ID, fiber.Map{
		"student_id":    history.StudentID,
		"from_batch_id": history.FromBatchID,
		"to_batch_id":   history.ToBatchID,
		"fee_action":    history.FeeAction,
	})
	dashboard.Publish(dashboard.EventBatchSwitched, utils.ToBatchHistoryDTO(history))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Batch switched successfully",
		"history": utils.ToBatchHistoryDTO(history),
	})
}

// EditLastSwitch amends the student's most recent switch. The recorded fee
// effect is reversed, the row is rewritten and the (possibly new) fee action
// is re-applied, all in one transaction. Fails once payments exist on the
// fee the switch created.
func (bhc *BatchHistoryController) EditLastSwitch(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("student_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var req EditSwitchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(studentID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var history models.BatchHistory
	if err := database.DB.Where("student_id = ?", student.ID).
		Order("id DESC").First(&history).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student has no batch history",
		})
	}

	newBatchID := history.ToBatchID
	if req.NewBatchID != nil {
		newBatchID = *req.NewBatchID
	}
	feeAction := history.FeeAction
	if req.FeeAction != nil {
		if !utils.IsValidFeeAction(*req.FeeAction) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "fee_action must be TRANSFER, NEW_FEE or SPLIT",
			})
		}
		feeAction = *req.FeeAction
	}
	if newBatchID == history.FromBatchID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "New batch must differ from the original batch",
		})
	}
	reason, err := reasonOverride(history.Reason, req.Reason)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	changeDate := history.ChangeDate
	if req.ChangeDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ChangeDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "change_date must be RFC3339",
			})
		}
		changeDate = parsed
	}

	var newBatch models.Batch
	if err := database.DB.First(&newBatch, newBatchID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Batch not found",
		})
	}
	if newBatchID != history.ToBatchID {
		if newBatch.Status != "ACTIVE" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Target batch is not active",
			})
		}
		if !newBatch.HasCapacity() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Target batch is full",
			})
		}
	}

	feeService := services.NewFeeService()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := feeService.ReverseFeeAction(tx, &history); err != nil {
			return err
		}

		if newBatchID != history.ToBatchID {
			if err := tx.Model(&models.Batch{}).Where("id = ?", history.ToBatchID).
				Update("enrolled_count", gorm.Expr("GREATEST(enrolled_count - 1, 0)")).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Batch{}).Where("id = ?", newBatchID).
				Update("enrolled_count", gorm.Expr("enrolled_count + 1")).Error; err != nil {
				return err
			}
			if err := tx.Model(&student).Update("current_batch_id", newBatchID).Error; err != nil {
				return err
			}
		}

		fromFeeID, toFeeID, err := feeService.ApplyFeeAction(tx, student.ID, &newBatch, feeAction)
		if err != nil {
			return err
		}

		history.ToBatchID = newBatchID
		history.FromFeeID = fromFeeID
		history.ToFeeID = toFeeID
		history.FeeAction = feeAction
		history.ChangeDate = changeDate
		history.Reason = reason
		return tx.Save(&history).Error
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.DB.Preload("Student").Preload("FromBatch").Preload("ToBatch").
		First(&history, history.ID)

	middleware.LogActivity(c, "UPDATE", "batch_history", history.ID, fiber.Map{
		"student_id": history.StudentID,
		"fee_action": history.FeeAction,
	})
	dashboard.Publish(dashboard.EventBatchSwitched, utils.ToBatchHistoryDTO(history))

	return c.JSON(fiber.Map{
		"message": "Batch switch amended successfully",
		"history": utils.ToBatchHistoryDTO(history),
	})
}

// GetStudentHistory returns a student's switch history, newest first
func (bhc *BatchHistoryController) GetStudentHistory(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
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

	var rows []models.BatchHistory
	if err := database.DB.Where("student_id = ?", student.ID).
		Preload("Student").Preload("FromBatch").Preload("ToBatch").
		Order("id DESC").Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch batch history",
		})
	}

	history := make([]utils.BatchHistoryDTO, 0, len(rows))
	for i := range rows {
		history = append(history, utils.ToBatchHistoryDTO(rows[i]))
	}

	return c.JSON(fiber.Map{
		"history": history,
		"total":   len(history),
	})
}
