package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"github.com/guptahg47869-hub/casting-tracker/internal/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "casting-tracker-jwt-secret-key-2025"

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens an isolated in-memory sqlite database and migrates the
// casting tables. The shared cache keeps the database alive across the pooled
// connections of a single test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:casting_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Metal{},
		&entity.Tree{},
		&entity.Flask{},
		&entity.ScrapReserve{},
		&entity.ScrapMovement{},
		&entity.ReserveSnapshot{},
		&entity.Reconciliation{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, email string, roles, permissions []string) string {
	if roles == nil {
		roles = []string{}
	}
	if permissions == nil {
		permissions = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"perms": permissions,
		"iss":   "casting-tracker",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken(
		"test-user-001",
		"Test Admin",
		"admin@test.com",
		[]string{"casting_admin"},
		[]string{"*"},
	)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedMetal creates a metal in the catalog
func SeedMetal(t *testing.T, db *gorm.DB, name string) *entity.Metal {
	t.Helper()
	metal := &entity.Metal{Name: name, Active: true}
	if err := db.Create(metal).Error; err != nil {
		t.Fatalf("Failed to seed metal %s: %v", name, err)
	}
	return metal
}

// SeedReserve creates a scrap reserve with a starting balance
func SeedReserve(t *testing.T, db *gorm.DB, metal *entity.Metal, qty float64) *entity.ScrapReserve {
	t.Helper()
	reserve := &entity.ScrapReserve{MetalID: metal.ID, MetalName: metal.Name, QtyOnHand: qty}
	if err := db.Create(reserve).Error; err != nil {
		t.Fatalf("Failed to seed reserve for %s: %v", metal.Name, err)
	}
	return reserve
}

// SeedTree creates a transit tree for the given metal
func SeedTree(t *testing.T, db *gorm.DB, metal *entity.Metal, date string, treeNo int, gasket, total float64) *entity.Tree {
	t.Helper()
	tree := &entity.Tree{
		Date:         date,
		TreeNo:       treeNo,
		MetalID:      metal.ID,
		MetalName:    metal.Name,
		GasketWeight: gasket,
		TotalWeight:  total,
		TreeWeight:   total - gasket,
		Status:       entity.TreeStatusTransit,
		PostedBy:     "test-user-001",
	}
	if err := db.Create(tree).Error; err != nil {
		t.Fatalf("Failed to seed tree %d: %v", treeNo, err)
	}
	return tree
}
