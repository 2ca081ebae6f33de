package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/pagination"
	"mintleaf/internal/services"
)

// ExpenseHandler handles expense requests
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the request payload for recording an expense
type CreateExpenseRequest struct {
	CategoryID  string     `json:"category_id" binding:"required,uuid"`
	Description string     `json:"description" binding:"required,min=1,max=200"`
	Amount      float64    `json:"amount" binding:"required,gt=0,money"`
	ExpenseDate *time.Time `json:"expense_date"`
	Notes       string     `json:"notes" binding:"max=1000"`
}

// UpdateExpenseRequest represents the request payload for updating an expense
type UpdateExpenseRequest struct {
	CategoryID  *string    `json:"category_id" binding:"omitempty,uuid"`
	Description *string    `json:"description" binding:"omitempty,min=1,max=200"`
	Amount      *float64   `json:"amount" binding:"omitempty,gt=0,money"`
	ExpenseDate *time.Time `json:"expense_date"`
	Notes       *string    `json:"notes" binding:"omitempty,max=1000"`
}

// ListExpensesRequest represents the list query parameters
type ListExpensesRequest struct {
	pagination.LimitOffset
	CategoryID string     `form:"category_id" binding:"omitempty,uuid"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// CreateExpense records a new expense
// @Summary     Record an expense
// @Description Record a new expense against one of the user's categories
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} services.ExpenseWithContext "Expense recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budget/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var expenseDate time.Time
	if req.ExpenseDate != nil {
		expenseDate = *req.ExpenseDate
	}

	expense, err := h.expenseService.CreateExpense(userID, req.CategoryID,
		strings.TrimSpace(req.Description), req.Amount, expenseDate,
		strings.TrimSpace(req.Notes))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// GetExpenses lists the user's expenses
// @Summary     List expenses
// @Description List expenses newest first with optional category and date filters
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       category_id query string false "Filter by category ID"
// @Param       start_date  query string false "Filter from this date (YYYY-MM-DD)"
// @Param       end_date    query string false "Filter until this date (YYYY-MM-DD)"
// @Param       limit       query int    false "Maximum results" default(100) maximum(1000)
// @Param       offset      query int    false "Results to skip"
// @Success     200 {array} services.ExpenseWithContext "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid filters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget/expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListExpensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.ExpenseFilter{
		CategoryID: req.CategoryID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}

	expenses, err := h.expenseService.GetUserExpenses(userID, filter, req.LimitOffset)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// GetExpense returns a single expense
// @Summary     Get an expense
// @Description Get one expense with its category context
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} services.ExpenseWithContext "Expense"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /budget/expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// UpdateExpense applies a partial update to an expense
// @Summary     Update an expense
// @Description Update expense fields; omitted fields are unchanged
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} services.ExpenseWithContext "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or category not found"
// @Router      /budget/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ExpenseUpdate{
		Amount:      req.Amount,
		ExpenseDate: req.ExpenseDate,
		CategoryID:  req.CategoryID,
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		update.Description = &trimmed
	}
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		update.Notes = &trimmed
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense permanently removes an expense
// @Summary     Delete an expense
// @Description Permanently delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /budget/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
