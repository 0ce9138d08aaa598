package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cwolf/folio/pkg/folio/gate"
	"github.com/cwolf/folio/pkg/folio/grounding"
	"github.com/cwolf/folio/pkg/folio/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	gated := r.Group("/api")
	gated.Use(gate.Middleware(db))
	handler.RegisterRoutes(gated)

	return r
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	db.Create(&models.AccessKey{Key: "VISITOR1", Name: "Visitor", MaxUsage: 100, IsActive: true})
	grounding.NewResolver(db).Save("Ada Lovelace", "# Background\nShe loves math.", "")

	req, _ := http.NewRequest("GET", "/api/profile?key=VISITOR1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body ProfileResponse
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body.Name != "Ada Lovelace" {
		t.Errorf("Expected name 'Ada Lovelace', got %q", body.Name)
	}
	if body.Content != "# Background\nShe loves math." {
		t.Errorf("Unexpected content: %q", body.Content)
	}
}

func TestGetProfileDefaults(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	db.Create(&models.AccessKey{Key: "VISITOR1", Name: "Visitor", MaxUsage: 100, IsActive: true})

	req, _ := http.NewRequest("GET", "/api/profile?key=VISITOR1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body ProfileResponse
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body.Name != grounding.DefaultName {
		t.Errorf("Expected default name, got %q", body.Name)
	}
}

func TestGetProfileDenied(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	db.Create(&models.AccessKey{Key: "USED1234", Name: "Spent", UsageCount: 5, MaxUsage: 5, IsActive: true})

	req, _ := http.NewRequest("GET", "/api/profile?key=USED1234", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", resp.Code)
	}

	var body gate.DeniedResponse
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body.Reason != gate.ReasonLimitReached {
		t.Errorf("Expected reason %q, got %q", gate.ReasonLimitReached, body.Reason)
	}
	if body.Header != "Usage Limit Reached" {
		t.Errorf("Expected header 'Usage Limit Reached', got %q", body.Header)
	}
}
