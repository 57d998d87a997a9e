package controllers

import (
	"strconv"

	"instituteadmin_go/config"
	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"instituteadmin_go/services"
	"instituteadmin_go/utils"

	"github.com/gofiber/fiber/v2"
)

type CommunicationController struct{}

// SendMessageRequest represents the outbound message request body
type SendMessageRequest struct {
	StudentID  *uint  `json:"student_id"`
	LocationID uint   `json:"location_id" validate:"required"`
	Channel    string `json:"channel" validate:"required"`
	Subject    string `json:"subject" validate:"max=255"`
	Message    string `json:"message" validate:"required"`
}

var validChannels = map[string]bool{
	"SMS": true, "EMAIL": true, "LINE": true, "CALL": true, "WHATSAPP": true,
}

// GetCommunicationLogs returns outbound message logs with pagination
func (cc *CommunicationController) GetCommunicationLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	page, limit, offset := utils.NormalizePagination(page, limit)

	var logs []models.CommunicationLog
	var total int64

	query := database.DB.Model(&models.CommunicationLog{})

	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if locationID := c.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}
	if channel := c.Query("channel"); channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	if err := query.Preload("Student").Preload("Location").
		Order("id DESC").
		Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch communication logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

// SendMessage records an outbound message. LINE messages are pushed to the
// location's group; a delivery failure is recorded on the log row, never
// returned as a request failure.
func (cc *CommunicationController) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ValidationErrorResponse(c, err)
	}
	if !validChannels[req.Channel] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid channel",
		})
	}

	var location models.Location
	if err := database.DB.First(&location, req.LocationID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	if req.StudentID != nil {
		var student models.Student
		if err := database.DB.First(&student, *req.StudentID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Student not found",
			})
		}
	}

	claims, _ := middleware.GetCurrentClaims(c)

	logEntry := models.CommunicationLog{
		StudentID:  req.StudentID,
		LocationID: req.LocationID,
		Channel:    req.Channel,
		Subject:    req.Subject,
		Message:    req.Message,
		Status:     "SENT",
	}
	if claims != nil {
		logEntry.SentBy = claims.UserID
	}

	if req.Channel == "LINE" {
		if !config.AppConfig.EnableLine {
			logEntry.Status = "FAILED"
			logEntry.Error = "LINE messaging is disabled"
		} else {
			lineService := services.NewLineMessagingService()
			if err := lineService.SendToGroup(location.LineGroupID, req.Message); err != nil {
				logEntry.Status = "FAILED"
				logEntry.Error = err.Error()
			}
		}
	}

	if err := database.DB.Create(&logEntry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record message",
		})
	}

	middleware.LogActivity(c, "CREATE", "communication_logs", logEntry.ID, fiber.Map{
		"channel": logEntry.Channel,
		"status":  logEntry.Status,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message recorded successfully",
		"log":     logEntry,
	})
}
