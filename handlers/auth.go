package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"care-circle-api/apperrors"
	"care-circle-api/config"
	"care-circle-api/middleware"
	"care-circle-api/models"
)

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required"`
	Role     models.Role     `json:"role" binding:"required"`
	Phone    string          `json:"phone" binding:"required"`
	Age      int             `json:"age" binding:"required"`
	Language models.Language `json:"language"`
	Avatar   string          `json:"avatar"`

	// Elder only
	Address string `json:"address"`

	// Helper only
	HelperType models.HelperType        `json:"helper_type"`
	Categories []models.ServiceCategory `json:"categories"`
	Documents  []string                 `json:"documents"`
	OrgName    string                   `json:"org_name"`
}

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// validateRegistration collects every violated rule at once rather than
// failing on the first.
func validateRegistration(req *RegisterRequest) *apperrors.ValidationError {
	var violations []string

	if len(strings.TrimSpace(req.Name)) < 2 {
		violations = append(violations, "Name is too short")
	}
	switch req.Role {
	case models.RoleElder:
		if req.Age < 55 || req.Age > 89 {
			violations = append(violations, "Elder age must be between 55 and 89")
		}
	case models.RoleHelper:
		if req.Age < 18 || req.Age > 35 {
			violations = append(violations, "Helper age must be between 18 and 35")
		}
		if len(req.Documents) < 2 {
			violations = append(violations, "Please upload both Aadhaar and Organization/Student ID")
		}
		switch req.HelperType {
		case models.HelperStudent, models.HelperPartTime, models.HelperVolunteer:
		default:
			violations = append(violations, "Helper type must be Student, Part-Time, or Volunteer")
		}
		if len(req.Categories) == 0 {
			violations = append(violations, "Select at least one service category")
		}
		for _, cat := range req.Categories {
			switch cat {
			case models.CategoryBasic, models.CategoryTechnical, models.CategoryPersonal:
			default:
				violations = append(violations, "Unknown service category: "+string(cat))
			}
		}
	default:
		violations = append(violations, "Role must be elder or helper")
	}
	if !phonePattern.MatchString(req.Phone) {
		violations = append(violations, "Phone must be exactly 10 digits")
	}
	if len(req.Password) < 6 {
		violations = append(violations, "Password must be at least 6 characters")
	}
	if req.Language != "" && req.Language != models.LanguageEnglish && req.Language != models.LanguageTamil {
		violations = append(violations, "Language must be English or Tamil")
	}

	if len(violations) > 0 {
		return &apperrors.ValidationError{Violations: violations}
	}
	return nil
}

// Register creates a new elder or helper account with its role profile.
// Admins are seeded at startup and cannot self-register.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if verr := validateRegistration(&req); verr != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "Validation failed",
			"violations": verr.Violations,
		})
		return
	}

	var existing models.User
	if result := config.DB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	language := req.Language
	if language == "" {
		language = models.LanguageEnglish
	}
	avatar := req.Avatar
	if avatar == "" {
		avatar = strings.ToUpper(strings.TrimSpace(req.Name)[:1])
	}

	user := models.User{
		Role:         req.Role,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Age:          req.Age,
		Language:     language,
		Avatar:       avatar,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		switch req.Role {
		case models.RoleElder:
			return tx.Create(&models.ElderProfile{
				UserID:  user.ID,
				Address: req.Address,
			}).Error
		case models.RoleHelper:
			return tx.Create(&models.HelperProfile{
				UserID:             user.ID,
				HelperType:         req.HelperType,
				Categories:         models.CategoryList(req.Categories),
				VerificationStatus: models.VerificationPending,
				Documents:          models.StringList(req.Documents),
				OrgName:            req.OrgName,
			}).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := middleware.GenerateToken(&user, config.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and returns a JWT
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.GenerateToken(&user, config.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetProfile returns the authenticated user's identity with its role profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resp := gin.H{"user": user}
	switch user.Role {
	case models.RoleElder:
		var profile models.ElderProfile
		if err := config.DB.First(&profile, "user_id = ?", user.ID).Error; err == nil {
			resp["elder_profile"] = profile
		}
	case models.RoleHelper:
		var profile models.HelperProfile
		if err := config.DB.First(&profile, "user_id = ?", user.ID).Error; err == nil {
			resp["helper_profile"] = profile
		}
	}
	c.JSON(http.StatusOK, resp)
}
