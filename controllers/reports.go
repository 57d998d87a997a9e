package controllers

import (
	"strconv"
	"time"

	"instituteadmin_go/services"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct{}

func reportScope(c *fiber.Ctx) (int, uint) {
	year, _ := strconv.Atoi(c.Query("year", "0"))
	if year == 0 {
		year = time.Now().Year()
	}
	locationID, _ := strconv.ParseUint(c.Query("location_id", "0"), 10, 32)
	return year, uint(locationID)
}

// GetMonthlyRevenue returns revenue per month of a year
func (rc *ReportController) GetMonthlyRevenue(c *fiber.Ctx) error {
	year, locationID := reportScope(c)

	rows, err := services.NewReportService().MonthlyRevenue(year, locationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute monthly revenue",
		})
	}

	return c.JSON(fiber.Map{
		"year":    year,
		"revenue": rows,
	})
}

// GetBatchPerformance returns fill and collection figures per batch
func (rc *ReportController) GetBatchPerformance(c *fiber.Ctx) error {
	_, locationID := reportScope(c)

	rows, err := services.NewReportService().BatchPerformance(locationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute batch performance",
		})
	}

	return c.JSON(fiber.Map{
		"batches": rows,
	})
}

// GetLocationComparison returns student counts and revenue per location
func (rc *ReportController) GetLocationComparison(c *fiber.Ctx) error {
	year, _ := reportScope(c)

	rows, err := services.NewReportService().LocationComparison(year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute location comparison",
		})
	}

	return c.JSON(fiber.Map{
		"year":      year,
		"locations": rows,
	})
}

// GetPaymentTypeDistribution returns counts and amounts per payment mode
func (rc *ReportController) GetPaymentTypeDistribution(c *fiber.Ctx) error {
	year, locationID := reportScope(c)

	rows, err := services.NewReportService().PaymentTypeDistribution(year, locationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute payment distribution",
		})
	}

	return c.JSON(fiber.Map{
		"year":  year,
		"modes": rows,
	})
}

// GetCourseRevenue returns revenue per course
func (rc *ReportController) GetCourseRevenue(c *fiber.Ctx) error {
	year, locationID := reportScope(c)

	rows, err := services.NewReportService().CourseRevenue(year, locationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute course revenue",
		})
	}

	return c.JSON(fiber.Map{
		"year":    year,
		"courses": rows,
	})
}
