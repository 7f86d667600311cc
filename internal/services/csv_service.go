package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

const csvDateLayout = "2006-01-02"

// csvHeader is the fixed column set shared by export and import.
var csvHeader = []string{"Date", "Amount", "Type", "Category", "Description"}

type csvService struct {
	transactionService TransactionServicer
	categoryService    CategoryServicer
}

// NewCSVService creates the CSV import/export service. Imports go through
// the transaction service so budget alerts and cache invalidation fire for
// imported rows exactly as they do for API writes.
func NewCSVService(transactionService TransactionServicer, categoryService CategoryServicer) CSVServicer {
	return &csvService{
		transactionService: transactionService,
		categoryService:    categoryService,
	}
}

// Export streams all of the user's transactions as CSV, newest first.
func (s *csvService) Export(userID uint, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}

	page := pagination.PageRequest{Page: 1, PageSize: 100}
	for {
		result, err := s.transactionService.GetUserTransactions(userID, page, TransactionFilter{})
		if err != nil {
			return err
		}
		for _, transaction := range result.Data {
			categoryName := ""
			if transaction.Category != nil {
				categoryName = transaction.Category.Name
			}
			record := []string{
				transaction.Date.Format(csvDateLayout),
				transaction.Amount.StringFixed(2),
				string(transaction.Type),
				categoryName,
				transaction.Description,
			}
			if err := writer.Write(record); err != nil {
				return errors.Wrap(errors.ErrInternalServer, err)
			}
		}
		if page.Page >= result.TotalPages {
			break
		}
		page.Page++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(errors.ErrInternalServer, err)
	}
	return nil
}

// Import reads transactions from CSV and creates them for the user. Rows
// that fail validation are reported individually and do not abort the rest
// of the batch. Unknown category names are created on the fly.
func (s *csvService) Import(userID uint, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidCSVFile, err)
	}
	if !headerMatches(header) {
		return nil, errors.WithMessage(errors.ErrInvalidCSVFile,
			fmt.Sprintf("expected header %s", strings.Join(csvHeader, ",")))
	}

	result := &ImportResult{Errors: []string{}}
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		if err := s.importRow(userID, record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		result.Created++
	}

	logger.Get().Infow("csv import finished",
		"user_id", userID,
		"created", result.Created,
		"rejected", len(result.Errors),
	)
	return result, nil
}

func (s *csvService) importRow(userID uint, record []string) error {
	if len(record) < len(csvHeader) {
		return fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(record))
	}

	date, err := time.Parse(csvDateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return fmt.Errorf("invalid date %q", record[0])
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return fmt.Errorf("invalid amount %q", record[1])
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %q", record[1])
	}

	transactionType := models.TransactionType(strings.ToLower(strings.TrimSpace(record[2])))
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return fmt.Errorf("invalid type %q", record[2])
	}

	var categoryID *uint
	categoryName := strings.TrimSpace(record[3])
	if categoryName != "" {
		category, err := s.categoryService.EnsureCategory(userID, categoryName)
		if err != nil {
			return err
		}
		categoryID = &category.ID
	}

	_, err = s.transactionService.CreateTransaction(userID, categoryID, transactionType, amount, strings.TrimSpace(record[4]), date)
	return err
}

func headerMatches(header []string) bool {
	if len(header) != len(csvHeader) {
		return false
	}
	for i, column := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), column) {
			return false
		}
	}
	return true
}
