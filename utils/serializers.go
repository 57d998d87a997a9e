package utils

import (
	"time"

	"instituteadmin_go/models"
)

// Compact representations used across APIs
type StudentShort struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type BatchShort struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	CourseName string `json:"course_name,omitempty"`
	Status     string `json:"status,omitempty"`
}

// BatchHistoryDTO is the wire shape of one batch-switch event.
type BatchHistoryDTO struct {
	ID         uint         `json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	Student    StudentShort `json:"student"`
	FromBatch  BatchShort   `json:"from_batch"`
	ToBatch    BatchShort   `json:"to_batch"`
	ChangeDate time.Time    `json:"change_date"`
	Reason     string       `json:"reason"`
	FeeAction  string       `json:"fee_action"`
	FromFeeID  *uint        `json:"from_fee_id,omitempty"`
	ToFeeID    *uint        `json:"to_fee_id,omitempty"`
}

// ToBatchHistoryDTO maps a models.BatchHistory to the compact DTO.
// Caller is expected to have preloaded Student, FromBatch and ToBatch.
func ToBatchHistoryDTO(h models.BatchHistory) BatchHistoryDTO {
	return BatchHistoryDTO{
		ID:        h.ID,
		CreatedAt: h.CreatedAt,
		Student: StudentShort{
			ID:        h.Student.ID,
			FirstName: h.Student.FirstName,
			LastName:  h.Student.LastName,
			Phone:     h.Student.Phone,
		},
		FromBatch: BatchShort{
			ID:         h.FromBatch.ID,
			Name:       h.FromBatch.Name,
			CourseName: h.FromBatch.Course.Name,
			Status:     h.FromBatch.Status,
		},
		ToBatch: BatchShort{
			ID:         h.ToBatch.ID,
			Name:       h.ToBatch.Name,
			CourseName: h.ToBatch.Course.Name,
			Status:     h.ToBatch.Status,
		},
		ChangeDate: h.ChangeDate,
		Reason:     h.Reason,
		FeeAction:  h.FeeAction,
		FromFeeID:  h.FromFeeID,
		ToFeeID:    h.ToFeeID,
	}
}
