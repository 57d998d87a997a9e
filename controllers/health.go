package controllers

import (
	"context"
	"time"

	"instituteadmin_go/database"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports database and Redis connectivity
func HealthCheck(c *fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "ok"
	redisStatus := "ok"

	if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
		status = fiber.StatusServiceUnavailable
	}

	if rc := database.GetRedisClient(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
	} else {
		redisStatus = "disabled"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":   "institute-admin-api",
		"database": dbStatus,
		"redis":    redisStatus,
		"time":     time.Now().UTC(),
	})
}
