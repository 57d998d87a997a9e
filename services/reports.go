package services

import (
	"context"
	"encoding/json"
	"fmt"

	"instituteadmin_go/config"
	"instituteadmin_go/database"
	"instituteadmin_go/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReportService computes the read-only dashboard aggregates. Results are
// cached in Redis for a short TTL; cache failures fall through to the query.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

type MonthlyRevenueRow struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

type BatchPerformanceRow struct {
	BatchID    uint    `json:"batch_id"`
	BatchName  string  `json:"batch_name"`
	CourseName string  `json:"course_name"`
	Enrolled   int     `json:"enrolled"`
	SlotLimit  int     `json:"slot_limit"`
	FillRate   float64 `json:"fill_rate"`
	Billed     float64 `json:"billed"`
	Collected  float64 `json:"collected"`
}

type LocationComparisonRow struct {
	LocationID   uint    `json:"location_id"`
	LocationName string  `json:"location_name"`
	Students     int64   `json:"students"`
	Revenue      float64 `json:"revenue"`
}

type PaymentTypeRow struct {
	Mode   string  `json:"mode"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type CourseRevenueRow struct {
	CourseID   uint    `json:"course_id"`
	CourseName string  `json:"course_name"`
	Revenue    float64 `json:"revenue"`
}

// withCache runs compute on a cache miss and stores the JSON result.
func withCache[T any](key string, compute func() (T, error)) (T, error) {
	rc := database.GetRedisClient()
	ctx := context.Background()

	if rc != nil {
		if cached, err := rc.Get(ctx, key).Result(); err == nil {
			var out T
			if jsonErr := json.Unmarshal([]byte(cached), &out); jsonErr == nil {
				return out, nil
			}
		} else if err != redis.Nil {
			logrus.WithError(err).Warn("Report cache read failed")
		}
	}

	out, err := compute()
	if err != nil {
		return out, err
	}

	if rc != nil {
		if data, jsonErr := json.Marshal(out); jsonErr == nil {
			if err := rc.Set(ctx, key, data, config.AppConfig.ReportCacheTTL).Err(); err != nil {
				logrus.WithError(err).Warn("Report cache write failed")
			}
		}
	}
	return out, nil
}

// completedPayments joins payments to batches through fees so reports can
// scope revenue by location and course.
func completedPayments(locationID uint) *gorm.DB {
	q := database.DB.Model(&models.Payment{}).
		Joins("JOIN fees ON payments.fee_id = fees.id").
		Joins("JOIN batches ON fees.batch_id = batches.id").
		Where("payments.status = ?", models.PaymentStatusCompleted)
	if locationID != 0 {
		q = q.Where("batches.location_id = ?", locationID)
	}
	return q
}

// MonthlyRevenue returns COMPLETED payment revenue per month of a year.
// Months without revenue appear with zero values.
func (rs *ReportService) MonthlyRevenue(year int, locationID uint) ([]MonthlyRevenueRow, error) {
	key := fmt.Sprintf("report:revenue:%d:loc:%d", year, locationID)
	return withCache(key, func() ([]MonthlyRevenueRow, error) {
		var rows []MonthlyRevenueRow
		err := completedPayments(locationID).
			Select("MONTH(payments.paid_at) AS month, COALESCE(SUM(payments.amount), 0) AS revenue, COUNT(*) AS count").
			Where("YEAR(payments.paid_at) = ?", year).
			Group("MONTH(payments.paid_at)").
			Order("month").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		full := make([]MonthlyRevenueRow, 12)
		for i := range full {
			full[i].Month = i + 1
		}
		for _, r := range rows {
			if r.Month >= 1 && r.Month <= 12 {
				full[r.Month-1] = r
			}
		}
		return full, nil
	})
}

// BatchPerformance returns fill and collection figures per batch.
func (rs *ReportService) BatchPerformance(locationID uint) ([]BatchPerformanceRow, error) {
	key := fmt.Sprintf("report:batch-performance:loc:%d", locationID)
	return withCache(key, func() ([]BatchPerformanceRow, error) {
		q := database.DB.Model(&models.Batch{}).
			Select("batches.id AS batch_id, batches.name AS batch_name, courses.name AS course_name, " +
				"batches.enrolled_count AS enrolled, batches.slot_limit, " +
				"COALESCE(SUM(fees.final_fee), 0) AS billed, COALESCE(SUM(fees.paid_amount), 0) AS collected").
			Joins("JOIN courses ON batches.course_id = courses.id").
			Joins("LEFT JOIN fees ON fees.batch_id = batches.id AND fees.deleted_at IS NULL").
			Where("batches.deleted_at IS NULL").
			Group("batches.id, batches.name, courses.name, batches.enrolled_count, batches.slot_limit")
		if locationID != 0 {
			q = q.Where("batches.location_id = ?", locationID)
		}

		var rows []BatchPerformanceRow
		if err := q.Scan(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			if rows[i].SlotLimit > 0 {
				rows[i].FillRate = float64(rows[i].Enrolled) / float64(rows[i].SlotLimit)
			}
		}
		return rows, nil
	})
}

// LocationComparison returns student counts and revenue per location.
func (rs *ReportService) LocationComparison(year int) ([]LocationComparisonRow, error) {
	key := fmt.Sprintf("report:location-comparison:%d", year)
	return withCache(key, func() ([]LocationComparisonRow, error) {
		var rows []LocationComparisonRow
		err := database.DB.Model(&models.Location{}).
			Select("locations.id AS location_id, locations.name AS location_name, " +
				"COUNT(DISTINCT students.id) AS students").
			Joins("LEFT JOIN students ON students.location_id = locations.id AND students.deleted_at IS NULL").
			Where("locations.deleted_at IS NULL").
			Group("locations.id, locations.name").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		for i := range rows {
			var revenue float64
			err := completedPayments(rows[i].LocationID).
				Select("COALESCE(SUM(payments.amount), 0)").
				Where("YEAR(payments.paid_at) = ?", year).
				Scan(&revenue).Error
			if err != nil {
				return nil, err
			}
			rows[i].Revenue = revenue
		}
		return rows, nil
	})
}

// PaymentTypeDistribution returns counts and amounts per payment mode.
func (rs *ReportService) PaymentTypeDistribution(year int, locationID uint) ([]PaymentTypeRow, error) {
	key := fmt.Sprintf("report:payment-types:%d:loc:%d", year, locationID)
	return withCache(key, func() ([]PaymentTypeRow, error) {
		var rows []PaymentTypeRow
		err := completedPayments(locationID).
			Select("payments.mode AS mode, COUNT(*) AS count, COALESCE(SUM(payments.amount), 0) AS amount").
			Where("YEAR(payments.paid_at) = ?", year).
			Group("payments.mode").
			Order("amount DESC").
			Scan(&rows).Error
		return rows, err
	})
}

// CourseRevenue returns COMPLETED payment revenue per course.
func (rs *ReportService) CourseRevenue(year int, locationID uint) ([]CourseRevenueRow, error) {
	key := fmt.Sprintf("report:course-revenue:%d:loc:%d", year, locationID)
	return withCache(key, func() ([]CourseRevenueRow, error) {
		var rows []CourseRevenueRow
		err := completedPayments(locationID).
			Select("courses.id AS course_id, courses.name AS course_name, COALESCE(SUM(payments.amount), 0) AS revenue").
			Joins("JOIN courses ON batches.course_id = courses.id").
			Where("YEAR(payments.paid_at) = ?", year).
			Group("courses.id, courses.name").
			Order("revenue DESC").
			Scan(&rows).Error
		return rows, err
	})
}
