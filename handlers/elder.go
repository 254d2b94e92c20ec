package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"care-circle-api/config"
	"care-circle-api/middleware"
	"care-circle-api/models"
	"care-circle-api/pricing"
	"care-circle-api/statemachine"
)

type CreateRequestRequest struct {
	Category      models.ServiceCategory `json:"category" binding:"required"`
	Description   string                 `json:"description" binding:"required"`
	Photo         string                 `json:"photo"`
	PickupAddress string                 `json:"pickup_address"`
	DropAddress   string                 `json:"drop_address"`
	DistanceKm    int                    `json:"distance_km" binding:"required,min=1"`
	Hours         int                    `json:"hours" binding:"required,min=1"`
}

// CreateRequest creates a new care request in the searching state. The fee
// is computed here once and never recomputed afterward.
func CreateRequest(c *gin.Context) {
	elderID := middleware.GetUserID(c)

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Category {
	case models.CategoryBasic, models.CategoryTechnical, models.CategoryPersonal:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category must be Basic, Technical, or Personal"})
		return
	}

	// Drop-off defaults to the elder's home address
	dropAddress := req.DropAddress
	if dropAddress == "" {
		var profile models.ElderProfile
		if err := config.DB.First(&profile, "user_id = ?", elderID).Error; err == nil {
			dropAddress = profile.Address
		}
	}

	request := models.CareRequest{
		ElderID:       elderID,
		Category:      req.Category,
		Description:   req.Description,
		Photo:         req.Photo,
		PickupAddress: req.PickupAddress,
		DropAddress:   dropAddress,
		DistanceKm:    req.DistanceKm,
		Hours:         req.Hours,
		Status:        models.StatusSearching,
		Payment:       pricing.Fee(req.Category, req.DistanceKm, req.Hours),
	}

	if err := config.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	history := models.RequestStatusHistory{
		RequestID: request.ID,
		ToStatus:  models.StatusSearching,
		ChangedBy: elderID,
		Note:      "Request created by elder",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Request created successfully",
		"request": request,
	})
}

// GetMyRequests returns all requests for the logged-in elder
func GetMyRequests(c *gin.Context) {
	elderID := middleware.GetUserID(c)
	var requests []models.CareRequest
	query := config.DB.Preload("Helper").Where("elder_id = ?", elderID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&requests)
	c.JSON(http.StatusOK, gin.H{"count": len(requests), "requests": requests})
}

// GetRequestDetail returns a single request's full detail with history
func GetRequestDetail(c *gin.Context) {
	elderID := middleware.GetUserID(c)

	var request models.CareRequest
	if err := config.DB.Preload("Helper").Preload("StatusHistory").
		First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if request.ElderID != elderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This request does not belong to you"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

// CancelRequest cancels a request. Only the owning elder may cancel, and
// only while the request is still searching; once assigned there is no
// cancellation path.
func CancelRequest(c *gin.Context) {
	elderID := middleware.GetUserID(c)

	var request models.CareRequest
	if err := config.DB.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if request.ElderID != elderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This request does not belong to you"})
		return
	}

	if err := statemachine.CanTransition(request.Status, models.StatusCancelled, statemachine.ActorElder); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Cannot cancel request",
			"reason":         err.Error(),
			"current_status": request.Status,
		})
		return
	}

	// Guarded update: only commits while still searching and unassigned
	res := config.DB.Model(&models.CareRequest{}).
		Where("id = ? AND status = ? AND helper_id IS NULL", request.ID, models.StatusSearching).
		Update("status", models.StatusCancelled)
	if res.Error != nil || res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Request was assigned in the meantime and can no longer be cancelled"})
		return
	}

	history := models.RequestStatusHistory{
		RequestID:  request.ID,
		FromStatus: models.StatusSearching,
		ToStatus:   models.StatusCancelled,
		ChangedBy:  elderID,
		Note:       "Request cancelled by elder",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled successfully", "request_id": request.ID})
}

// PayRequest marks a completed request as paid. Completion does not imply
// payment; the elder settles it separately.
func PayRequest(c *gin.Context) {
	elderID := middleware.GetUserID(c)

	var request models.CareRequest
	if err := config.DB.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if request.ElderID != elderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This request does not belong to you"})
		return
	}

	res := config.DB.Model(&models.CareRequest{}).
		Where("id = ? AND status = ? AND is_paid = ?", request.ID, models.StatusCompleted, false).
		Update("is_paid", true)
	if res.Error != nil || res.RowsAffected == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Payment can only be made once on a completed request",
			"current_status": request.Status,
			"is_paid":        request.IsPaid,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Payment recorded successfully",
		"request_id": request.ID,
		"amount":     request.Payment,
	})
}

type RateRequestRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// RateRequest sets the one-time rating and feedback. Valid only when the
// request is completed and paid and no rating exists yet.
func RateRequest(c *gin.Context) {
	elderID := middleware.GetUserID(c)

	var req RateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var request models.CareRequest
	if err := config.DB.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if request.ElderID != elderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This request does not belong to you"})
		return
	}

	res := config.DB.Model(&models.CareRequest{}).
		Where("id = ? AND status = ? AND is_paid = ? AND rating IS NULL",
			request.ID, models.StatusCompleted, true).
		Updates(map[string]interface{}{
			"rating":   req.Rating,
			"feedback": req.Feedback,
		})
	if res.Error != nil || res.RowsAffected == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Rating requires a completed, paid request with no existing rating",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Feedback recorded. Thank you!",
		"request_id": request.ID,
		"rating":     req.Rating,
	})
}
