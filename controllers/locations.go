package controllers

import (
	"instituteadmin_go/database"
	"instituteadmin_go/middleware"
	"instituteadmin_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type LocationController struct{}

// GetLocations returns all locations
func (lc *LocationController) GetLocations(c *fiber.Ctx) error {
	var locations []models.Location

	query := database.DB.Model(&models.Location{})
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Order("name").Find(&locations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch locations",
		})
	}

	return c.JSON(fiber.Map{
		"locations": locations,
		"total":     len(locations),
	})
}

// GetLocation returns a specific location by ID
func (lc *LocationController) GetLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid location ID",
		})
	}

	var location models.Location
	if err := database.DB.First(&location, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	return c.JSON(fiber.Map{
		"location": location,
	})
}

// CreateLocation creates a new location
func (lc *LocationController) CreateLocation(c *fiber.Ctx) error {
	var location models.Location
	if err := c.BodyParser(&location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if location.Name == "" || location.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and code are required",
		})
	}

	var existing models.Location
	if err := database.DB.Where("code = ?", location.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Location code already exists",
		})
	}

	if err := database.DB.Create(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create location",
		})
	}

	middleware.LogActivity(c, "CREATE", "locations", location.ID, location)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Location created successfully",
		"location": location,
	})
}

// UpdateLocation updates an existing location
func (lc *LocationController) UpdateLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid location ID",
		})
	}

	var location models.Location
	if err := database.DB.First(&location, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	var updateData models.Location
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&location).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update location",
		})
	}

	middleware.LogActivity(c, "UPDATE", "locations", location.ID, updateData)

	return c.JSON(fiber.Map{
		"message":  "Location updated successfully",
		"location": location,
	})
}

// DeleteLocation deletes a location with no active students
func (lc *LocationController) DeleteLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid location ID",
		})
	}

	var location models.Location
	if err := database.DB.First(&location, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	var studentCount int64
	database.DB.Model(&models.Student{}).Where("location_id = ?", location.ID).Count(&studentCount)
	if studentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete a location with students",
		})
	}

	if err := database.DB.Delete(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete location",
		})
	}

	middleware.LogActivity(c, "DELETE", "locations", location.ID, fiber.Map{"code": location.Code})

	return c.JSON(fiber.Map{
		"message": "Location deleted successfully",
	})
}
