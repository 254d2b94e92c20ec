package assignment

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"care-circle-api/apperrors"
	"care-circle-api/matching"
	"care-circle-api/models"
)

// Coordinator performs the exclusive hand-off of a searching request to one
// helper. It is the only operation in the system where a true race exists:
// many helpers may attempt to accept the same request concurrently, and at
// most one may ever succeed.
type Coordinator struct {
	db *gorm.DB
}

func NewCoordinator(db *gorm.DB) *Coordinator {
	return &Coordinator{db: db}
}

// ActiveTaskCount returns how many active requests the helper currently holds
func ActiveTaskCount(db *gorm.DB, helperID uint) (int64, error) {
	var count int64
	err := db.Model(&models.CareRequest{}).
		Where("helper_id = ? AND status IN ?", helperID, models.ActiveStatuses).
		Count(&count).Error
	return count, err
}

// Accept assigns the request to the helper. Eligibility is re-validated at
// commit time, not just at display time, since the helper's own state may
// have changed since they queried their opportunities. The commit itself is
// a guarded UPDATE: it only applies while the request is still
// (searching, no helper), so concurrent accepts cannot both win — every
// attempt after the first success fails with ErrAlreadyTaken.
func (co *Coordinator) Accept(requestID, helperID uint) error {
	err := co.db.Transaction(func(tx *gorm.DB) error {
		var profile models.HelperProfile
		if err := tx.First(&profile, "user_id = ?", helperID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotEligible
			}
			return err
		}

		var req models.CareRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		// Request gone from the pool between query and accept
		if req.Status != models.StatusSearching || req.HelperID != nil {
			return apperrors.ErrAlreadyTaken
		}

		active, err := ActiveTaskCount(tx, helperID)
		if err != nil {
			return err
		}
		if !matching.Eligible(&profile, active > 0, &req) {
			return apperrors.ErrNotEligible
		}

		res := tx.Model(&models.CareRequest{}).
			Where("id = ? AND status = ? AND helper_id IS NULL", requestID, models.StatusSearching).
			Updates(map[string]interface{}{
				"status":    models.StatusAssigned,
				"helper_id": helperID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrAlreadyTaken
		}

		history := models.RequestStatusHistory{
			RequestID:  requestID,
			FromStatus: models.StatusSearching,
			ToStatus:   models.StatusAssigned,
			ChangedBy:  helperID,
			Note:       "Helper accepted the request",
		}
		return tx.Create(&history).Error
	})
	if err == nil {
		log.Info().Uint("request_id", requestID).Uint("helper_id", helperID).Msg("Request assigned")
	}
	return err
}
