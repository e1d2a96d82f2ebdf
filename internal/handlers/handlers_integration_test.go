package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services.
func setupApp() (*fiber.App, error) {
	// Configure Viper for testing
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Initialize in-memory SQLite database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(&models.Catalog{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Initialize Repositories
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// Initialize Services (no message broker in tests)
	catalogService := services.NewCatalogService(catalogRepo, nil)
	authService := services.NewAuthService(userRepo, jwtSecret)

	// Initialize Handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()

	// API Routes
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	catalogHandler.RegisterRoutes(protectedRoutes)

	// Seed catalog entries for the listing tests.
	seedCatalogsForTest(catalogRepo)

	return app, nil
}

// seedCatalogsForTest populates the catalog repository for tests.
func seedCatalogsForTest(repo repositories.CatalogRepository) {
	catalogs := []models.Catalog{
		{Code: "LAP-100", Name: "Laptop", Description: "High performance laptop", UnitPrice: 1200, TaxRate: 20, Type: models.CatalogTypeProduct},
		{Code: "KEY-200", Name: "Keyboard", Description: "Mechanical keyboard", UnitPrice: 75, TaxRate: 20, Type: models.CatalogTypeProduct},
		{Code: "SUP-300", Name: "On-site support", Description: "Hourly on-site support", UnitPrice: 90, TaxRate: 10, Type: models.CatalogTypeService},
	}
	for i := range catalogs {
		if err := repo.Create(&catalogs[i]); err != nil {
			log.Printf("Failed to seed catalog %s: %v", catalogs[i].Name, err)
		}
	}
}

var app *fiber.App

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)

	var err error
	app, err = setupApp()
	if err != nil {
		fmt.Printf("Failed to set up test app: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// registerAndLogin creates a user with the given role and returns a bearer
// token for it.
func registerAndLogin(t *testing.T, username, role string) string {
	t.Helper()

	registerBody, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"role":     role,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	loginBody, _ := json.Marshal(map[string]string{
		"username": username,
		"password": "password123",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.NotEmpty(t, payload.Token)
	return payload.Token
}

func doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	assert.NoError(t, err)
	return resp
}

type listResponse struct {
	Items      []models.CatalogRow   `json:"items"`
	Pagination models.PaginationEcho `json:"pagination"`
}

func TestCatalogRoutes_RequireAuthentication(t *testing.T) {
	resp := doJSON(t, http.MethodGet, "/api/v1/catalogs/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListCatalogs_FilterSortAndPaginate(t *testing.T) {
	token := registerAndLogin(t, "list_clerk", "Clerk")

	// Text filter matches across code, name and description.
	resp := doJSON(t, http.MethodGet, "/api/v1/catalogs/?text=keyboard", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var filtered listResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&filtered))
	assert.Len(t, filtered.Items, 1)
	assert.Equal(t, "KEY-200", filtered.Items[0].CodeArticle)

	// Type filter narrows to services; numeric wire code 1 = Service.
	resp = doJSON(t, http.MethodGet, "/api/v1/catalogs/?type=Service", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var services listResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&services))
	assert.Len(t, services.Items, 1)
	assert.Equal(t, 1, services.Items[0].Type)

	// Descending price sort.
	resp = doJSON(t, http.MethodGet, "/api/v1/catalogs/?sort=unitPrice&order=desc", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var sorted listResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&sorted))
	assert.True(t, len(sorted.Items) >= 2)
	assert.True(t, sorted.Items[0].UnitPrice >= sorted.Items[1].UnitPrice)

	// A page past the end is clamped: the echo reports the page actually
	// served.
	resp = doJSON(t, http.MethodGet, "/api/v1/catalogs/?page=99&pageSize=10", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var clamped listResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&clamped))
	assert.Equal(t, clamped.Pagination.TotalPages, clamped.Pagination.Page)
	assert.NotEmpty(t, clamped.Items)
}

func TestCreateCatalog_PermissionsAndValidation(t *testing.T) {
	clerkToken := registerAndLogin(t, "create_clerk", "Clerk")
	managerToken := registerAndLogin(t, "create_manager", "Manager")

	newRow := models.CatalogRow{
		CodeArticle:    "MON-400",
		Name:           "Monitor",
		Description:    "27 inch monitor",
		UnitPrice:      300,
		DefaultTaxRate: 20,
		Type:           0,
	}

	// Clerks may read but not create.
	resp := doJSON(t, http.MethodPost, "/api/v1/catalogs/", clerkToken, newRow)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Managers may create.
	resp = doJSON(t, http.MethodPost, "/api/v1/catalogs/", managerToken, newRow)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.CatalogRow
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotZero(t, created.ID)

	// A duplicate article code is a field-scoped rejection.
	resp = doJSON(t, http.MethodPost, "/api/v1/catalogs/", managerToken, newRow)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var rejection struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&rejection))
	assert.Contains(t, rejection.FieldErrors, "code")

	// A blank name fails validation before reaching the service.
	blankName := newRow
	blankName.CodeArticle = "MON-401"
	blankName.Name = "   "
	resp = doJSON(t, http.MethodPost, "/api/v1/catalogs/", managerToken, blankName)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// An unknown numeric type code is rejected at the boundary.
	badType := newRow
	badType.CodeArticle = "MON-402"
	badType.Type = 7
	resp = doJSON(t, http.MethodPost, "/api/v1/catalogs/", managerToken, badType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateAndDeleteCatalog_RoleGating(t *testing.T) {
	clerkToken := registerAndLogin(t, "mutate_clerk", "Clerk")
	adminToken := registerAndLogin(t, "mutate_admin", "Admin")

	row := models.CatalogRow{
		CodeArticle:    "CAM-500",
		Name:           "Webcam",
		Description:    "Full HD webcam",
		UnitPrice:      60,
		DefaultTaxRate: 20,
		Type:           0,
	}
	resp := doJSON(t, http.MethodPost, "/api/v1/catalogs/", adminToken, row)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.CatalogRow
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	path := fmt.Sprintf("/api/v1/catalogs/%d", created.ID)

	// Clerk cannot update or delete.
	updated := created
	updated.Name = "Webcam Pro"
	resp = doJSON(t, http.MethodPut, path, clerkToken, updated)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = doJSON(t, http.MethodDelete, path, clerkToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admin can do both.
	resp = doJSON(t, http.MethodPut, path, adminToken, updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var afterUpdate models.CatalogRow
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&afterUpdate))
	assert.Equal(t, "Webcam Pro", afterUpdate.Name)

	resp = doJSON(t, http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The deleted entry is gone.
	resp = doJSON(t, http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
