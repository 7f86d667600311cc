package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-limit requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetLimitRequest represents the payload for creating a budget limit.
type CreateBudgetLimitRequest struct {
	CategoryID  uint                `json:"category_id" binding:"required"`
	LimitAmount decimal.Decimal     `json:"limit_amount" binding:"required"`
	Period      models.BudgetPeriod `json:"period" binding:"required,budget_period"`
}

// UpdateBudgetLimitRequest represents the payload for updating a budget limit.
type UpdateBudgetLimitRequest struct {
	CategoryID  *uint                `json:"category_id"`
	LimitAmount *decimal.Decimal     `json:"limit_amount"`
	Period      *models.BudgetPeriod `json:"period" binding:"omitempty,budget_period"`
}

// BudgetLimitResponse represents a budget limit in the response
type BudgetLimitResponse struct {
	ID          uint                `json:"id"`
	CategoryID  uint                `json:"category_id"`
	LimitAmount decimal.Decimal     `json:"limit_amount"`
	Period      models.BudgetPeriod `json:"period"`
}

// CreateBudgetLimit handles the creation of a new budget limit
// @Summary     Create a budget limit
// @Description Create a spending limit for a category and period. At most one limit per (category, period) pair.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetLimitRequest true "Budget limit details"
// @Success     201 {object} BudgetLimitResponse "Budget limit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate budget limit"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	limit, err := h.budgetService.CreateBudgetLimit(userID, req.CategoryID, req.LimitAmount, req.Period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget_limit": limit})
}

// GetUserBudgetLimits handles the retrieval of the user's budget limits
// @Summary     List budget limits
// @Description Get a paginated list of the authenticated user's budget limits
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BudgetLimit] "Paginated budget limits"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetUserBudgetLimits(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.GetUserBudgetLimits(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetLimitByID handles the retrieval of a specific budget limit
// @Summary     Get budget limit by ID
// @Description Get a specific budget limit by ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget limit ID"
// @Success     200 {object} BudgetLimitResponse "Budget limit details"
// @Failure     400 {object} ErrorResponse "Invalid budget limit ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudgetLimitByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, err := h.budgetService.GetBudgetLimitByID(userID, limitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_limit": limit})
}

// UpdateBudgetLimit handles updating an existing budget limit
// @Summary     Update budget limit
// @Description Update an existing budget limit. Omitted fields are left unchanged.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Budget limit ID"
// @Param       request body UpdateBudgetLimitRequest true "Fields to update"
// @Success     200 {object} BudgetLimitResponse "Updated budget limit"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget limit not found"
// @Failure     409 {object} ErrorResponse "Duplicate budget limit"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	limit, err := h.budgetService.UpdateBudgetLimit(userID, limitID, req.CategoryID, req.LimitAmount, req.Period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_limit": limit})
}

// DeleteBudgetLimit handles deleting a budget limit
// @Summary     Delete budget limit
// @Description Delete a budget limit
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget limit ID"
// @Success     204 "Budget limit deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget limit ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudgetLimit(userID, limitID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
