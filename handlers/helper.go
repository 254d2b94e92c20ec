package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"care-circle-api/apperrors"
	"care-circle-api/assignment"
	"care-circle-api/certification"
	"care-circle-api/config"
	"care-circle-api/matching"
	"care-circle-api/middleware"
	"care-circle-api/models"
	"care-circle-api/statemachine"
)

// helperProfile loads the caller's helper profile or writes a 404
func helperProfile(c *gin.Context) (*models.HelperProfile, bool) {
	helperID := middleware.GetUserID(c)
	var profile models.HelperProfile
	if err := config.DB.First(&profile, "user_id = ?", helperID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Helper profile not found"})
		return nil, false
	}
	return &profile, true
}

// GetAvailableRequests shows open requests the helper may accept right now.
// Unverified helpers always see an empty set.
func GetAvailableRequests(c *gin.Context) {
	profile, ok := helperProfile(c)
	if !ok {
		return
	}

	if !profile.Verified() {
		c.JSON(http.StatusOK, gin.H{
			"count":               0,
			"requests":            []models.CareRequest{},
			"verification_status": profile.VerificationStatus,
		})
		return
	}

	active, err := assignment.ActiveTaskCount(config.DB, profile.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	var open []models.CareRequest
	config.DB.Preload("Elder").
		Where("status = ? AND helper_id IS NULL", models.StatusSearching).
		Order("created_at asc").
		Find(&open)

	visible := matching.Visible(profile, active > 0, open)
	c.JSON(http.StatusOK, gin.H{"count": len(visible), "requests": visible})
}

// AcceptRequest claims a searching request through the assignment
// coordinator. At most one accept may ever succeed per request.
func AcceptRequest(c *gin.Context) {
	helperID := middleware.GetUserID(c)

	var request models.CareRequest
	if err := config.DB.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	co := assignment.NewCoordinator(config.DB)
	if err := co.Accept(request.ID, helperID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Request has already been taken by another helper"})
		case errors.Is(err, apperrors.ErrNotEligible):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not eligible to accept this request"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Request accepted successfully",
		"request_id": request.ID,
		"status":     models.StatusAssigned,
	})
}

// AdvanceRequest moves the helper's assigned request one step forward:
// assigned → on_the_way → in_progress → completed. Skipping steps is
// rejected by the state machine.
func AdvanceRequest(c *gin.Context) {
	helperID := middleware.GetUserID(c)

	var request models.CareRequest
	if err := config.DB.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if request.HelperID == nil || *request.HelperID != helperID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned helper for this request"})
		return
	}

	next, ok := statemachine.NextForHelper(request.Status)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "No further step from the current status",
			"current_status": request.Status,
		})
		return
	}
	if err := statemachine.CanTransition(request.Status, next, statemachine.ActorHelper); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    request.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(request.Status),
		})
		return
	}

	// Guarded update: the WHERE clause pins the expected current state so a
	// stale read can never commit a skipped step
	res := config.DB.Model(&models.CareRequest{}).
		Where("id = ? AND status = ? AND helper_id = ?", request.ID, request.Status, helperID).
		Update("status", next)
	if res.Error != nil || res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Request changed in the meantime, reload and retry"})
		return
	}

	history := models.RequestStatusHistory{
		RequestID:  request.ID,
		FromStatus: request.Status,
		ToStatus:   next,
		ChangedBy:  helperID,
		Note:       "Helper advanced the request",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Status updated successfully",
		"request_id": request.ID,
		"status":     next,
	})
}

// GetMyTasks returns the helper's active and historical requests
func GetMyTasks(c *gin.Context) {
	helperID := middleware.GetUserID(c)

	var tasks []models.CareRequest
	config.DB.Preload("Elder").
		Where("helper_id = ?", helperID).
		Order("updated_at desc").
		Find(&tasks)

	active := []models.CareRequest{}
	history := []models.CareRequest{}
	for _, t := range tasks {
		if t.Status.Terminal() {
			history = append(history, t)
		} else {
			active = append(active, t)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"active":  active,
		"history": history,
	})
}

// GetCertification returns the helper's certification standing
func GetCertification(c *gin.Context) {
	profile, ok := helperProfile(c)
	if !ok {
		return
	}

	var completed []models.CareRequest
	config.DB.Where("helper_id = ? AND status = ?", profile.UserID, models.StatusCompleted).
		Find(&completed)

	summary := certification.Evaluate(profile.HelperType, completed)
	c.JSON(http.StatusOK, gin.H{"certification": summary})
}

// IssueCertificate records a certificate and returns the payload the
// external renderer needs. Only eligible helpers may issue.
func IssueCertificate(c *gin.Context) {
	profile, ok := helperProfile(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, profile.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var completed []models.CareRequest
	config.DB.Where("helper_id = ? AND status = ?", profile.UserID, models.StatusCompleted).
		Find(&completed)

	summary := certification.Evaluate(profile.HelperType, completed)
	if !summary.Eligible {
		c.JSON(http.StatusForbidden, gin.H{
			"error":         "Not yet eligible for a certificate",
			"certification": summary,
		})
		return
	}

	orgName := profile.OrgName
	if orgName == "" {
		orgName = "CareCircle"
	}

	cert := models.Certificate{
		ID:             uuid.NewString(),
		HelperID:       profile.UserID,
		Tier:           string(summary.Tier),
		ProcessedCount: summary.ProcessedCount,
		AvgRating:      summary.AvgRating,
		Language:       user.Language,
	}
	if err := config.DB.Create(&cert).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record certificate"})
		return
	}

	log.Info().Str("serial", cert.ID).Uint("helper_id", profile.UserID).
		Str("tier", cert.Tier).Msg("Certificate issued")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Certificate issued",
		"certificate": gin.H{
			"serial":          cert.ID,
			"helper_name":     user.Name,
			"org_name":        orgName,
			"processed_count": cert.ProcessedCount,
			"avg_rating":      cert.AvgRating,
			"tier":            cert.Tier,
			"language":        cert.Language,
			"issued_at":       cert.IssuedAt,
		},
	})
}
