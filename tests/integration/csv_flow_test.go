package integration

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// uploadCSV posts a CSV file to the import endpoint as multipart form data.
func (app *testApp) uploadCSV(t *testing.T, content, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "transactions.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/v1/transactions/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestCSVFlow_ExportImportRoundTrip(t *testing.T) {
	app := setupApp(t)
	token, _, userID := app.registerUser(t, "csv@test.com", "password123")
	foodID := app.categoryID(t, userID, "Food")

	app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"category_id":%d,"type":"expense","amount":"12.34","description":"lunch","date":"2024-03-10"}`, foodID), token)
	app.request("POST", "/api/v1/transactions",
		`{"type":"income","amount":"2500","description":"salary","date":"2024-03-01"}`, token)

	rec := app.request("GET", "/api/v1/transactions/export", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), rec.Body.String())
	}
	if strings.TrimSpace(lines[0]) != "Date,Amount,Type,Category,Description" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// Newest first.
	if !strings.Contains(lines[1], "2024-03-10") || !strings.Contains(lines[1], "12.34") {
		t.Errorf("expected lunch row first, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "2024-03-01") || !strings.Contains(lines[2], "2500.00") {
		t.Errorf("expected salary row second, got %q", lines[2])
	}

	// Importing the export into a fresh user recreates the transactions.
	otherToken, _, _ := app.registerUser(t, "csv2@test.com", "password123")
	rec = app.uploadCSV(t, rec.Body.String(), otherToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if created := result["created"].(float64); created != 2 {
		t.Errorf("expected 2 created, got %.0f", created)
	}

	rec = app.request("GET", "/api/v1/transactions", "", otherToken)
	if data := parseJSON(t, rec)["data"].([]interface{}); len(data) != 2 {
		t.Errorf("expected 2 imported transactions, got %d", len(data))
	}
}

func TestCSVFlow_ImportReportsBadRows(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "badrows@test.com", "password123")

	csv := "Date,Amount,Type,Category,Description\n" +
		"2024-03-10,50.00,expense,Food,groceries\n" +
		"not-a-date,10.00,expense,Food,broken\n" +
		"2024-03-11,-5.00,expense,Food,negative\n"

	rec := app.uploadCSV(t, csv, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if created := result["created"].(float64); created != 1 {
		t.Errorf("expected 1 created, got %.0f", created)
	}
	errs := result["errors"].([]interface{})
	if len(errs) != 2 {
		t.Fatalf("expected 2 row errors, got %d: %v", len(errs), errs)
	}
	if !strings.HasPrefix(errs[0].(string), "row 2:") {
		t.Errorf("expected first error on row 2, got %q", errs[0])
	}
	if !strings.HasPrefix(errs[1].(string), "row 3:") {
		t.Errorf("expected second error on row 3, got %q", errs[1])
	}
}

func TestCSVFlow_ImportCreatesMissingCategories(t *testing.T) {
	app := setupApp(t)
	token, _, userID := app.registerUser(t, "newcat@test.com", "password123")

	csv := "Date,Amount,Type,Category,Description\n" +
		"2024-03-10,15.00,expense,Books,novel\n"

	rec := app.uploadCSV(t, csv, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The unknown category was created on the fly.
	app.categoryID(t, userID, "Books")
}

func TestCSVFlow_ImportRejectsWrongHeader(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "badheader@test.com", "password123")

	rec := app.uploadCSV(t, "Foo,Bar\n1,2\n", token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for wrong header, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCSVFlow_ImportedExpensesTriggerAlerts(t *testing.T) {
	app := setupApp(t)
	token, _, userID := app.registerUser(t, "csvalert@test.com", "password123")
	foodID := app.categoryID(t, userID, "Food")

	app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%d,"limit_amount":"100","period":"MONTH"}`, foodID), token)

	today := time.Now().Format("2006-01-02")
	csv := "Date,Amount,Type,Category,Description\n" +
		fmt.Sprintf("%s,150.00,expense,Food,big shop\n", today)

	rec := app.uploadCSV(t, csv, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Imports go through the same write path as the API, so the limit breach notifies.
	if n := len(app.Publisher.published()); n != 1 {
		t.Errorf("expected 1 notification from import, got %d", n)
	}
}
