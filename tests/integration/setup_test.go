package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fintrack/internal/cache"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/queue"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Publisher *capturePublisher
	Stats     *cache.Store[*services.StatsReport]
}

var _ services.AlertPublisher = (*capturePublisher)(nil)

// capturePublisher records budget alert messages instead of sending them to a broker.
type capturePublisher struct {
	mu       sync.Mutex
	messages []queue.BudgetAlertMessage
}

func (p *capturePublisher) PublishBudgetAlert(_ context.Context, msg *queue.BudgetAlertMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, *msg)
	return nil
}

func (p *capturePublisher) published() []queue.BudgetAlertMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.BudgetAlertMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.BudgetLimit{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	publisher := &capturePublisher{}
	statsCache := cache.New[*services.StatsReport](15 * time.Minute)

	// Services
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	statsService := services.NewStatsService(db, statsCache)
	alertService := services.NewAlertService(db, budgetService, statsService, userService, publisher)
	transactionService := services.NewTransactionService(db, alertService)
	csvService := services.NewCSVService(transactionService, categoryService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, csvService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	alertHandler := handlers.NewAlertHandler(alertService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.POST("/import", transactionHandler.ImportTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudgetLimit)
	budgets.GET("", budgetHandler.GetUserBudgetLimits)
	budgets.GET("/:id", budgetHandler.GetBudgetLimitByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudgetLimit)
	budgets.DELETE("/:id", budgetHandler.DeleteBudgetLimit)

	protected.GET("/alerts", alertHandler.GetUserAlerts)
	protected.GET("/statistics", statsHandler.GetStatistics)

	return &testApp{DB: db, Router: router, Publisher: publisher, Stats: statsCache}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// assertAmount compares a decimal JSON field (marshalled as a quoted string)
// against an expected value, ignoring formatting differences like trailing zeros.
func assertAmount(t *testing.T, got interface{}, want string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Fatalf("expected decimal string, got %T (%v)", got, got)
	}
	g, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	if !g.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected amount %s, got %s", want, s)
	}
}

// categoryID finds a category by name for a user and fails the test if missing.
func (app *testApp) categoryID(t *testing.T, userID float64, name string) uint {
	t.Helper()
	var category models.Category
	err := app.DB.Where("user_id = ? AND name = ?", uint(userID), name).First(&category).Error
	if err != nil {
		t.Fatalf("category %q not found: %v", name, err)
	}
	return category.ID
}
