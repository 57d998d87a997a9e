package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"instituteadmin_go/database"
	"instituteadmin_go/models"
	"instituteadmin_go/services"
	"instituteadmin_go/utils"

	"github.com/gofiber/fiber/v2"
)

type LogController struct{}

// GetLogs returns activity logs with pagination
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	page, limit, offset := utils.NormalizePagination(page, limit)

	var logs []models.ActivityLog
	var total int64

	query := database.DB.Model(&models.ActivityLog{})

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("created_at >= ?", parsed)
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("created_at < ?", parsed)
		}
	}

	query.Count(&total)

	if err := query.Preload("User").
		Order("id DESC").
		Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
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

// GetLogStats returns aggregate counts by action and resource
func (lc *LogController) GetLogStats(c *fiber.Ctx) error {
	type statRow struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var byAction []statRow
	if err := database.DB.Model(&models.ActivityLog{}).
		Select("action AS `key`, COUNT(*) AS count").
		Group("action").Order("count DESC").
		Scan(&byAction).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute log stats",
		})
	}

	var byResource []statRow
	if err := database.DB.Model(&models.ActivityLog{}).
		Select("resource AS `key`, COUNT(*) AS count").
		Group("resource").Order("count DESC").
		Scan(&byResource).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute log stats",
		})
	}

	var total int64
	database.DB.Model(&models.ActivityLog{}).Count(&total)

	return c.JSON(fiber.Map{
		"total":       total,
		"by_action":   byAction,
		"by_resource": byResource,
	})
}

// ExportLogs streams the filtered logs as CSV
func (lc *LogController) ExportLogs(c *fiber.Ctx) error {
	query := database.DB.Model(&models.ActivityLog{}).Preload("User")

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var logs []models.ActivityLog
	if err := query.Order("id DESC").Limit(10000).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	var sb strings.Builder
	sb.WriteString("ID,User,Action,Resource,Resource ID,IP Address,Created At\n")
	for _, log := range logs {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s,%d,%s,%s\n",
			log.ID,
			log.User.Username,
			log.Action,
			log.Resource,
			log.ResourceID,
			log.IPAddress,
			log.CreatedAt.Format("2006-01-02 15:04:05"),
		))
	}

	fileName := fmt.Sprintf("activity_logs_%s.csv", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	return c.SendString(sb.String())
}

// FlushCachedLogs moves Redis-cached logs to the database on demand
func (lc *LogController) FlushCachedLogs(c *fiber.Ctx) error {
	if err := services.NewLogArchiveService().FlushCachedLogsToDatabase(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cached logs flushed successfully",
	})
}

// GetArchives lists archived log files
func (lc *LogController) GetArchives(c *fiber.Ctx) error {
	archives, err := services.NewLogArchiveService().GetArchivedLogs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"archives": archives,
		"total":    len(archives),
	})
}

// DownloadArchive streams an archived log ZIP from S3
func (lc *LogController) DownloadArchive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid archive ID",
		})
	}

	reader, fileName, err := services.NewLogArchiveService().DownloadArchivedLogs(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	return c.SendStream(reader)
}
