package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"care-circle-api/config"
	"care-circle-api/middleware"
	"care-circle-api/models"
	"care-circle-api/routes"
)

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	config.DB = db
	config.JWTSecret = []byte("test-secret")

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func send(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func registerElder(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	code, resp := send(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Meena",
		"email":    email,
		"password": "secret123",
		"role":     "elder",
		"phone":    "9876543210",
		"age":      70,
		"address":  "12 Beach Road, Chennai",
	})
	require.Equal(t, http.StatusCreated, code, "register elder: %v", resp)
	return resp["token"].(string)
}

func registerHelper(t *testing.T, r *gin.Engine, email string, ht models.HelperType, cats ...models.ServiceCategory) string {
	t.Helper()
	code, resp := send(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":        "Arjun",
		"email":       email,
		"password":    "secret123",
		"role":        "helper",
		"phone":       "9876501234",
		"age":         24,
		"helper_type": ht,
		"categories":  cats,
		"documents":   []string{"aadhaar.pdf", "student_id.pdf"},
		"org_name":    "Chennai Youth Corps",
	})
	require.Equal(t, http.StatusCreated, code, "register helper: %v", resp)
	return resp["token"].(string)
}

func adminToken(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := models.User{
		Role:         models.RoleAdmin,
		Name:         "Admin",
		Email:        fmt.Sprintf("admin-%d@test.local", time.Now().UnixNano()),
		PasswordHash: string(hash),
		Language:     models.LanguageEnglish,
	}
	require.NoError(t, config.DB.Create(&admin).Error)
	token, err := middleware.GenerateToken(&admin, time.Hour)
	require.NoError(t, err)
	return token
}

func helperUserID(t *testing.T, email string) uint {
	t.Helper()
	var user models.User
	require.NoError(t, config.DB.First(&user, "email = ?", email).Error)
	return user.ID
}

func TestFullLifecycle(t *testing.T) {
	r := setupAPI(t)

	elder := registerElder(t, r, "meena@test.local")
	helper := registerHelper(t, r, "arjun@test.local", models.HelperVolunteer, models.CategoryTechnical)
	admin := adminToken(t)

	// Pending helper sees nothing
	code, resp := send(t, r, http.MethodGet, "/api/helper/requests/available", helper, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), resp["count"])

	// Admin verifies the helper
	hid := helperUserID(t, "arjun@test.local")
	code, _ = send(t, r, http.MethodPut, fmt.Sprintf("/api/admin/helpers/%d/verify", hid), admin, nil)
	require.Equal(t, http.StatusOK, code)

	// Elder creates a Technical request; fee fixed at creation: 100 + 15*10
	code, resp = send(t, r, http.MethodPost, "/api/elder/requests", elder, map[string]interface{}{
		"category":       "Technical",
		"description":    "Fix the ceiling fan",
		"pickup_address": "12 Beach Road",
		"distance_km":    10,
		"hours":          2,
	})
	require.Equal(t, http.StatusCreated, code, "%v", resp)
	request := resp["request"].(map[string]interface{})
	assert.Equal(t, float64(250), request["payment"])
	reqID := fmt.Sprintf("%.0f", request["id"].(float64))

	// Now visible to the helper
	code, resp = send(t, r, http.MethodGet, "/api/helper/requests/available", helper, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["count"])

	// Accept; a second accept by the same helper fails the single-flight rule
	code, _ = send(t, r, http.MethodPut, "/api/helper/requests/"+reqID+"/accept", helper, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = send(t, r, http.MethodPut, "/api/helper/requests/"+reqID+"/accept", helper, nil)
	assert.Equal(t, http.StatusConflict, code, "request is no longer searching")

	// Cancellation after assignment has no path
	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/cancel", elder, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// Advance through the strict chain
	for _, want := range []string{"on_the_way", "in_progress", "completed"} {
		code, resp = send(t, r, http.MethodPut, "/api/helper/requests/"+reqID+"/advance", helper, nil)
		require.Equal(t, http.StatusOK, code, "%v", resp)
		assert.Equal(t, want, resp["status"])
	}
	// No step past completed
	code, _ = send(t, r, http.MethodPut, "/api/helper/requests/"+reqID+"/advance", helper, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// Rating before payment is rejected
	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/rate", elder,
		map[string]interface{}{"rating": 5, "feedback": "great"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// Pay once, not twice
	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/pay", elder, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/pay", elder, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// Rate once, not twice
	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/rate", elder,
		map[string]interface{}{"rating": 5, "feedback": "very kind"})
	require.Equal(t, http.StatusOK, code)
	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/rate", elder,
		map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// One processed task: tier Gold, not yet eligible
	code, resp = send(t, r, http.MethodGet, "/api/helper/certification", helper, nil)
	require.Equal(t, http.StatusOK, code)
	cert := resp["certification"].(map[string]interface{})
	assert.Equal(t, float64(1), cert["processed_count"])
	assert.Equal(t, "Gold", cert["tier"])
	assert.Equal(t, false, cert["eligible"])
	assert.Equal(t, float64(250), cert["total_earnings"])

	code, _ = send(t, r, http.MethodPost, "/api/helper/certification/issue", helper, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestCertificateIssueAfterThreeProcessedTasks(t *testing.T) {
	r := setupAPI(t)

	elder := registerElder(t, r, "meena@test.local")
	helper := registerHelper(t, r, "arjun@test.local", models.HelperStudent, models.CategoryBasic)
	admin := adminToken(t)

	hid := helperUserID(t, "arjun@test.local")
	code, _ := send(t, r, http.MethodPut, fmt.Sprintf("/api/admin/helpers/%d/verify", hid), admin, nil)
	require.Equal(t, http.StatusOK, code)

	for i := 0; i < 3; i++ {
		code, resp := send(t, r, http.MethodPost, "/api/elder/requests", elder, map[string]interface{}{
			"category":    "Basic",
			"description": "Buy groceries",
			"distance_km": 2,
			"hours":       1,
		})
		require.Equal(t, http.StatusCreated, code)
		reqID := fmt.Sprintf("%.0f", resp["request"].(map[string]interface{})["id"].(float64))

		code, _ = send(t, r, http.MethodPut, "/api/helper/requests/"+reqID+"/accept", helper, nil)
		require.Equal(t, http.StatusOK, code)
		for j := 0; j < 3; j++ {
			code, _ = send(t, r, http.MethodPut, "/api/helper/requests/"+reqID+"/advance", helper, nil)
			require.Equal(t, http.StatusOK, code)
		}
		code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/pay", elder, nil)
		require.Equal(t, http.StatusOK, code)
		code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/rate", elder,
			map[string]interface{}{"rating": 5})
		require.Equal(t, http.StatusOK, code)
	}

	code, resp := send(t, r, http.MethodPost, "/api/helper/certification/issue", helper, nil)
	require.Equal(t, http.StatusCreated, code, "%v", resp)
	cert := resp["certificate"].(map[string]interface{})
	assert.Equal(t, "Gold", cert["tier"])
	assert.Equal(t, float64(3), cert["processed_count"])
	assert.Equal(t, "Chennai Youth Corps", cert["org_name"])
	assert.NotEmpty(t, cert["serial"])
}

func TestRegistrationCollectsAllViolations(t *testing.T) {
	r := setupAPI(t)

	code, resp := send(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":        "A",
		"email":       "bad@test.local",
		"password":    "123",
		"role":        "helper",
		"phone":       "12345",
		"age":         40,
		"helper_type": "Freelancer",
		"categories":  []string{},
		"documents":   []string{"one.pdf"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)

	violations := resp["violations"].([]interface{})
	assert.GreaterOrEqual(t, len(violations), 5, "all rules reported at once: %v", violations)
}

func TestCancelWhileSearching(t *testing.T) {
	r := setupAPI(t)
	elder := registerElder(t, r, "meena@test.local")

	code, resp := send(t, r, http.MethodPost, "/api/elder/requests", elder, map[string]interface{}{
		"category":    "Personal",
		"description": "Accompany to hospital",
		"distance_km": 3,
		"hours":       2,
	})
	require.Equal(t, http.StatusCreated, code)
	request := resp["request"].(map[string]interface{})
	assert.Equal(t, float64(460), request["payment"]) // 200 + 20*3 + 100*2
	reqID := fmt.Sprintf("%.0f", request["id"].(float64))

	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/cancel", elder, nil)
	require.Equal(t, http.StatusOK, code)

	// cancelled is terminal
	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/cancel", elder, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestElderCannotTouchForeignRequest(t *testing.T) {
	r := setupAPI(t)
	owner := registerElder(t, r, "owner@test.local")
	intruder := registerElder(t, r, "intruder@test.local")

	code, resp := send(t, r, http.MethodPost, "/api/elder/requests", owner, map[string]interface{}{
		"category":    "Basic",
		"description": "Water the plants",
		"distance_km": 1,
		"hours":       1,
	})
	require.Equal(t, http.StatusCreated, code)
	reqID := fmt.Sprintf("%.0f", resp["request"].(map[string]interface{})["id"].(float64))

	code, _ = send(t, r, http.MethodPut, "/api/elder/requests/"+reqID+"/cancel", intruder, nil)
	assert.Equal(t, http.StatusForbidden, code)
}
