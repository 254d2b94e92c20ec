package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"care-circle-api/config"
	"care-circle-api/middleware"
	"care-circle-api/models"
)

// AdminGetAllUsers returns all users, optionally filtered by role. Helpers
// come with their profile and verification status attached.
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)

	profiles := map[uint]models.HelperProfile{}
	var helperProfiles []models.HelperProfile
	helperQuery := config.DB
	if vs := c.Query("verification_status"); vs != "" {
		helperQuery = helperQuery.Where("verification_status = ?", vs)
	}
	helperQuery.Find(&helperProfiles)
	for _, p := range helperProfiles {
		profiles[p.UserID] = p
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		entry := gin.H{"user": u}
		if p, ok := profiles[u.ID]; ok {
			entry["helper_profile"] = p
		} else if u.Role == models.RoleHelper && c.Query("verification_status") != "" {
			continue // helper filtered out by verification status
		}
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{"count": len(out), "users": out})
}

// AdminGetAllRequests returns all requests with a status summary and the
// total cleared (paid, completed) volume
func AdminGetAllRequests(c *gin.Context) {
	var requests []models.CareRequest
	query := config.DB.Preload("Elder").Preload("Helper").Preload("StatusHistory")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if elderID := c.Query("elder_id"); elderID != "" {
		query = query.Where("elder_id = ?", elderID)
	}
	if helperID := c.Query("helper_id"); helperID != "" {
		query = query.Where("helper_id = ?", helperID)
	}
	query.Order("created_at desc").Find(&requests)

	summary := map[string]int{}
	totalCleared := 0
	for _, r := range requests {
		summary[string(r.Status)]++
		if r.Status == models.StatusCompleted && r.IsPaid {
			totalCleared += r.Payment
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"request_summary": summary,
		"total_cleared":   totalCleared,
		"count":           len(requests),
		"requests":        requests,
	})
}

// setVerification moves a helper's verification status. The transition is a
// direct overwrite; an admin may re-toggle a verified or rejected helper.
func setVerification(c *gin.Context, status models.VerificationStatus, note string) {
	adminID := middleware.GetUserID(c)

	var profile models.HelperProfile
	if err := config.DB.First(&profile, "user_id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Helper not found"})
		return
	}

	if err := config.DB.Model(&profile).Update("verification_status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update verification status"})
		return
	}

	log.Info().Uint("helper_id", profile.UserID).Uint("admin_id", adminID).
		Str("status", string(status)).Msg("Helper verification updated")

	c.JSON(http.StatusOK, gin.H{
		"message":             note,
		"helper_id":           profile.UserID,
		"verification_status": status,
	})
}

// VerifyHelper marks a helper as verified, making them matchable
func VerifyHelper(c *gin.Context) {
	setVerification(c, models.VerificationVerified, "Helper verified successfully")
}

// RejectHelper marks a helper as rejected; they cannot be matched
func RejectHelper(c *gin.Context) {
	setVerification(c, models.VerificationRejected, "Helper rejected")
}
