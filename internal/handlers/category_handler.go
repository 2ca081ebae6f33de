package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/services"
)

// CategoryHandler handles budget category requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	Description  string  `json:"description" binding:"max=500"`
	BudgetAmount float64 `json:"budget_amount" binding:"required,gt=0,money"`
	Color        string  `json:"color" binding:"required,hex_color"`
	Icon         string  `json:"icon" binding:"max=50"`
}

// UpdateCategoryRequest represents the request payload for updating a category
type UpdateCategoryRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string  `json:"description" binding:"omitempty,max=500"`
	BudgetAmount *float64 `json:"budget_amount" binding:"omitempty,gt=0,money"`
	Color        *string  `json:"color" binding:"omitempty,hex_color"`
	Icon         *string  `json:"icon" binding:"omitempty,max=50"`
}

// CreateCategory handles the creation of a new budget category
// @Summary     Create a budget category
// @Description Create a new budget category for the authenticated user
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} services.CategoryWithTotals "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Description),
		req.BudgetAmount, strings.ToUpper(req.Color), req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategories lists the user's budget categories
// @Summary     List budget categories
// @Description List the authenticated user's categories with spending totals
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       include_inactive query bool false "Include soft-deleted categories"
// @Success     200 {array} services.CategoryWithTotals "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))

	categories, err := h.categoryService.GetUserCategories(userID, includeInactive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory returns one category with recent expenses
// @Summary     Get a budget category
// @Description Get a category with totals and its most recent expenses
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Category ID"
// @Param       limit query int    false "Maximum recent expenses to include" default(50) maximum(100)
// @Success     200 {object} services.CategoryDetail "Category detail"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budget/categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	detail, err := h.categoryService.GetCategoryByID(userID, categoryID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateCategory applies a partial update to a category
// @Summary     Update a budget category
// @Description Update category fields; omitted fields are unchanged
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to update"
// @Success     200 {object} services.CategoryWithTotals "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budget/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.CategoryUpdate{
		Description:  req.Description,
		BudgetAmount: req.BudgetAmount,
		Icon:         req.Icon,
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		update.Name = &trimmed
	}
	if req.Color != nil {
		upper := strings.ToUpper(*req.Color)
		update.Color = &upper
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory soft-deletes a category, or hard-deletes it with force
// @Summary     Delete a budget category
// @Description Deactivate a category, or permanently delete it and its expenses with force=true
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Category ID"
// @Param       force query bool   false "Hard delete the category and its expenses"
// @Success     200 {object} MessageResponse "Category deleted or deactivated"
// @Failure     400 {object} ErrorResponse "Category still has expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budget/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	hardDeleted, err := h.categoryService.DeleteCategory(userID, categoryID, force)
	if err != nil {
		respondWithError(c, err)
		return
	}

	action := "deactivated"
	if hardDeleted {
		action = "deleted"
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget category " + action + " successfully"})
}

// GetBudgetSummary returns the overall budget overview
// @Summary     Budget summary
// @Description Aggregate budget, spending, and utilization across active categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BudgetSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/categories/summary/overview [get]
func (h *CategoryHandler) GetBudgetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.categoryService.GetBudgetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
