package services

import (
	"fmt"

	"instituteadmin_go/models"

	"gorm.io/gorm"
)

// FeeService owns fee bookkeeping for enrollments and batch switches.
// All mutating methods take the caller's transaction so a switch stays atomic.
type FeeService struct{}

func NewFeeService() *FeeService {
	return &FeeService{}
}

// ComputeFinalFee derives the net fee from gross and discount.
func ComputeFinalFee(totalCourseFee, discountAmount float64) float64 {
	final := totalCourseFee - discountAmount
	if final < 0 {
		final = 0
	}
	return final
}

// ComputeBalance derives the outstanding balance from net fee and payments.
func ComputeBalance(finalFee, paidAmount float64) float64 {
	balance := finalFee - paidAmount
	if balance < 0 {
		balance = 0
	}
	return balance
}

// SplitOldFee writes an old fee down to what was already paid under it.
// The retained amount becomes the fee's final value and the balance clears.
func SplitOldFee(fee *models.Fee) {
	fee.FinalFee = fee.PaidAmount
	fee.BalanceAmount = 0
	fee.Status = "CLOSED"
}

// CreateEnrollmentFee opens a fee record for a student joining a batch.
func (fs *FeeService) CreateEnrollmentFee(tx *gorm.DB, studentID uint, batch *models.Batch, discount, advance float64, paymentMode string) (*models.Fee, error) {
	if paymentMode == "" {
		paymentMode = "FULL"
	}
	final := ComputeFinalFee(batch.CourseFee, discount)
	fee := &models.Fee{
		StudentID:      studentID,
		BatchID:        batch.ID,
		TotalCourseFee: batch.CourseFee,
		DiscountAmount: discount,
		AdvanceAmount:  advance,
		FinalFee:       final,
		PaidAmount:     advance,
		BalanceAmount:  ComputeBalance(final, advance),
		FeePaymentMode: paymentMode,
		Status:         "ACTIVE",
	}
	if err := tx.Create(fee).Error; err != nil {
		return nil, err
	}
	return fee, nil
}

// ActiveFee returns the student's ACTIVE fee, if any.
func (fs *FeeService) ActiveFee(tx *gorm.DB, studentID uint) (*models.Fee, error) {
	var fee models.Fee
	err := tx.Where("student_id = ? AND status = ?", studentID, "ACTIVE").
		Order("id DESC").First(&fee).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &fee, nil
}

// ApplyFeeAction executes the operator's chosen fee policy for a batch switch
// and returns the ids of the fee contexts before and after the switch.
func (fs *FeeService) ApplyFeeAction(tx *gorm.DB, studentID uint, toBatch *models.Batch, action string) (fromFeeID, toFeeID *uint, err error) {
	fee, err := fs.ActiveFee(tx, studentID)
	if err != nil {
		return nil, nil, err
	}

	switch action {
	case models.FeeActionTransfer:
		if fee == nil {
			return nil, nil, fmt.Errorf("student %d has no active fee to transfer", studentID)
		}
		fee.BatchID = toBatch.ID
		if err := tx.Save(fee).Error; err != nil {
			return nil, nil, err
		}
		return &fee.ID, &fee.ID, nil

	case models.FeeActionNewFee:
		if fee != nil {
			fee.Status = "CLOSED"
			if err := tx.Save(fee).Error; err != nil {
				return nil, nil, err
			}
			fromFeeID = &fee.ID
		}
		newFee, err := fs.CreateEnrollmentFee(tx, studentID, toBatch, 0, 0, "FULL")
		if err != nil {
			return nil, nil, err
		}
		return fromFeeID, &newFee.ID, nil

	case models.FeeActionSplit:
		if fee != nil {
			SplitOldFee(fee)
			if err := tx.Save(fee).Error; err != nil {
				return nil, nil, err
			}
			fromFeeID = &fee.ID
		}
		newFee, err := fs.CreateEnrollmentFee(tx, studentID, toBatch, 0, 0, "FULL")
		if err != nil {
			return nil, nil, err
		}
		return fromFeeID, &newFee.ID, nil
	}

	return nil, nil, fmt.Errorf("unknown fee action %q", action)
}

// ReverseFeeAction undoes what ApplyFeeAction did for a recorded switch so an
// amended switch can be re-applied. Fails if payments were already recorded
// on the fee created by the switch.
func (fs *FeeService) ReverseFeeAction(tx *gorm.DB, history *models.BatchHistory) error {
	switch history.FeeAction {
	case models.FeeActionTransfer:
		if history.FromFeeID == nil {
			return nil
		}
		var fee models.Fee
		if err := tx.First(&fee, *history.FromFeeID).Error; err != nil {
			return err
		}
		fee.BatchID = history.FromBatchID
		return tx.Save(&fee).Error

	case models.FeeActionNewFee, models.FeeActionSplit:
		if history.ToFeeID != nil {
			var count int64
			if err := tx.Model(&models.Payment{}).Where("fee_id = ?", *history.ToFeeID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("fee %d already has payments; switch cannot be amended", *history.ToFeeID)
			}
			if err := tx.Delete(&models.Fee{}, *history.ToFeeID).Error; err != nil {
				return err
			}
		}
		if history.FromFeeID != nil {
			var fee models.Fee
			if err := tx.First(&fee, *history.FromFeeID).Error; err != nil {
				return err
			}
			fee.Status = "ACTIVE"
			// SPLIT rewrote the final fee; restore it from the base amounts
			fee.FinalFee = ComputeFinalFee(fee.TotalCourseFee, fee.DiscountAmount)
			fee.BalanceAmount = ComputeBalance(fee.FinalFee, fee.PaidAmount)
			if err := tx.Save(&fee).Error; err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("unknown fee action %q", history.FeeAction)
}

// ApplyPayment books a completed amount onto a fee. Closed fees take no
// further payments; a SPLIT writes the old fee down to its paid amount and
// that retained figure must stay final.
func ApplyPayment(fee *models.Fee, amount float64) error {
	if fee.Status != "ACTIVE" {
		return fmt.Errorf("fee %d is closed and cannot take payments", fee.ID)
	}
	fee.PaidAmount += amount
	fee.BalanceAmount = ComputeBalance(fee.FinalFee, fee.PaidAmount)
	return nil
}

// RecordPayment applies a completed payment to its fee.
func (fs *FeeService) RecordPayment(tx *gorm.DB, fee *models.Fee, amount float64) error {
	if err := ApplyPayment(fee, amount); err != nil {
		return err
	}
	return tx.Save(fee).Error
}
