package seeders

import (
	"time"

	"instituteadmin_go/database"
	"instituteadmin_go/models"
	"instituteadmin_go/utils"

	"github.com/sirupsen/logrus"
)

// SeedAll populates an empty database with a main location, an admin user
// and a starter course catalog. Existing rows are never touched.
func SeedAll() {
	seedLocations()
	seedAdminUser()
	seedCourses()
}

func seedLocations() {
	var count int64
	database.DB.Model(&models.Location{}).Count(&count)
	if count > 0 {
		return
	}

	locations := []models.Location{
		{Name: "Main Campus", Code: "MAIN", Address: "Head office", Active: true},
		{Name: "City Branch", Code: "CITY", Active: true},
	}

	for i := range locations {
		if err := database.DB.Create(&locations[i]).Error; err != nil {
			logrus.WithError(err).Errorf("Failed to seed location %s", locations[i].Code)
		}
	}
	logrus.Infof("Seeded %d locations", len(locations))
}

func seedAdminUser() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	var location models.Location
	if err := database.DB.Where("code = ?", "MAIN").First(&location).Error; err != nil {
		logrus.WithError(err).Error("Cannot seed admin user: main location missing")
		return
	}

	password, err := utils.HashPassword("admin123")
	if err != nil {
		logrus.WithError(err).Error("Failed to hash seed admin password")
		return
	}

	admin := models.User{
		Username:   "admin",
		Password:   password,
		Email:      "admin@institute.local",
		Role:       "owner",
		LocationID: location.ID,
		Status:     "active",
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		logrus.WithError(err).Error("Failed to seed admin user")
		return
	}
	logrus.Warn("Seeded default admin user; change the password immediately")
}

func seedCourses() {
	var count int64
	database.DB.Model(&models.Course{}).Count(&count)
	if count > 0 {
		return
	}

	var location models.Location
	if err := database.DB.Where("code = ?", "MAIN").First(&location).Error; err != nil {
		return
	}

	courses := []models.Course{
		{Name: "Spoken English", Code: "SPK-EN", DurationMonths: 3, BaseFee: 12000, LocationID: location.ID, Status: "active"},
		{Name: "IELTS Preparation", Code: "IELTS", DurationMonths: 4, BaseFee: 18000, LocationID: location.ID, Status: "active"},
		{Name: "Basic Computing", Code: "COMP-B", DurationMonths: 6, BaseFee: 15000, LocationID: location.ID, Status: "active"},
	}

	for i := range courses {
		if err := database.DB.Create(&courses[i]).Error; err != nil {
			logrus.WithError(err).Errorf("Failed to seed course %s", courses[i].Code)
			continue
		}

		start := time.Now().AddDate(0, 0, 7)
		batch := models.Batch{
			CourseID:   courses[i].ID,
			LocationID: location.ID,
			Name:       courses[i].Code + " Morning",
			StartDate:  start,
			SlotLimit:  20,
			CourseFee:  courses[i].BaseFee,
			Status:     "ACTIVE",
		}
		if err := database.DB.Create(&batch).Error; err != nil {
			logrus.WithError(err).Errorf("Failed to seed batch for course %s", courses[i].Code)
		}
	}
	logrus.Infof("Seeded %d courses with starter batches", len(courses))
}
