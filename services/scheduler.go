package services

import (
	"time"

	"instituteadmin_go/config"
	"instituteadmin_go/database"
	"instituteadmin_go/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MaintenanceScheduler runs the recurring housekeeping jobs: flipping
// overdue payments and flushing/archiving activity logs.
type MaintenanceScheduler struct {
	cron    *cron.Cron
	archive *LogArchiveService
}

func NewMaintenanceScheduler() *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:    cron.New(),
		archive: NewLogArchiveService(),
	}
}

// Start registers the jobs and starts the cron loop. Each job also runs once
// immediately so a restart never leaves stale state for a full interval.
func (ms *MaintenanceScheduler) Start() {
	if _, err := ms.cron.AddFunc("15 0 * * *", ms.MarkOverduePayments); err != nil {
		logrus.WithError(err).Error("Failed to schedule overdue payment sweep")
	}
	if _, err := ms.cron.AddFunc("@hourly", ms.runLogMaintenance); err != nil {
		logrus.WithError(err).Error("Failed to schedule log maintenance")
	}

	go func() {
		ms.MarkOverduePayments()
		ms.runLogMaintenance()
	}()

	ms.cron.Start()
	logrus.Info("Maintenance scheduler started")
}

// Stop halts the cron loop, waiting for running jobs.
func (ms *MaintenanceScheduler) Stop() {
	ctx := ms.cron.Stop()
	<-ctx.Done()
}

// MarkOverduePayments flips PENDING payments past their due date to OVERDUE.
func (ms *MaintenanceScheduler) MarkOverduePayments() {
	result := database.DB.Model(&models.Payment{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", models.PaymentStatusPending, time.Now()).
		Update("status", models.PaymentStatusOverdue)

	if result.Error != nil {
		logrus.WithError(result.Error).Error("Overdue payment sweep failed")
		return
	}
	if result.RowsAffected > 0 {
		logrus.Infof("Marked %d payments as overdue", result.RowsAffected)
	}
}

func (ms *MaintenanceScheduler) runLogMaintenance() {
	if err := ms.archive.FlushCachedLogsToDatabase(); err != nil {
		logrus.WithError(err).Warn("FlushCachedLogsToDatabase failed")
	}
	if err := ms.archive.ArchiveOldLogs(config.AppConfig.ArchiveDays); err != nil {
		logrus.WithError(err).Warn("ArchiveOldLogs failed")
	}
}
