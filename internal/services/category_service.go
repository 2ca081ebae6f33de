package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/models"
)

// categoryService handles budget category management.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new active category. Name uniqueness is scoped
// to the user's active categories; soft-deleted categories do not block
// name reuse. The existence check and the insert are not atomic, so
// concurrent creates can theoretically admit a duplicate name; acceptable
// at this system's scale.
func (s *categoryService) CreateCategory(userID, name, description string, budgetAmount float64, color, icon string) (*CategoryWithTotals, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if budgetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be positive")
	}

	if err := s.checkNameAvailable(userID, name, ""); err != nil {
		return nil, err
	}

	category := &models.BudgetCategory{
		UserID:       userID,
		Name:         name,
		Description:  description,
		BudgetAmount: budgetAmount,
		Color:        color,
		Icon:         icon,
		IsActive:     true,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.withTotals(userID, category)
}

// GetUserCategories retrieves the user's categories, each annotated with
// freshly computed spent and remaining amounts.
func (s *categoryService) GetUserCategories(userID string, includeInactive bool) ([]CategoryWithTotals, error) {
	query := s.db.Where("user_id = ?", userID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.BudgetCategory
	if err := query.Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make([]CategoryWithTotals, 0, len(categories))
	for i := range categories {
		annotated, err := s.withTotals(userID, &categories[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *annotated)
	}
	return result, nil
}

// GetCategoryByID returns a category with its most recent expenses and
// computed totals. Categories owned by other users report as not found.
func (s *categoryService) GetCategoryByID(userID, categoryID string, expenseLimit int) (*CategoryDetail, error) {
	category, err := s.getOwned(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if expenseLimit <= 0 || expenseLimit > 100 {
		expenseLimit = 50
	}

	var recent []models.Expense
	if err := s.db.Where("category_id = ? AND user_id = ?", categoryID, userID).
		Order("expense_date DESC, created_at DESC").
		Limit(expenseLimit).
		Find(&recent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	annotated, err := s.withTotals(userID, category)
	if err != nil {
		return nil, err
	}

	return &CategoryDetail{
		CategoryWithTotals: *annotated,
		RecentExpenses:     recent,
	}, nil
}

// UpdateCategory applies a partial update. Renaming checks the new name
// against the user's other active categories.
func (s *categoryService) UpdateCategory(userID, categoryID string, update CategoryUpdate) (*CategoryWithTotals, error) {
	category, err := s.getOwned(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != category.Name {
		if err := s.checkNameAvailable(userID, *update.Name, categoryID); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.BudgetAmount != nil {
		updates["budget_amount"] = *update.BudgetAmount
	}
	if update.Color != nil {
		updates["color"] = *update.Color
	}
	if update.Icon != nil {
		updates["icon"] = *update.Icon
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.withTotals(userID, category)
}

// DeleteCategory soft-deletes by default. With force set it hard-deletes
// the category and all its expenses; without force a category that still
// has expenses is a conflict.
func (s *categoryService) DeleteCategory(userID, categoryID string, force bool) (bool, error) {
	category, err := s.getOwned(userID, categoryID)
	if err != nil {
		return false, err
	}

	var expenseCount int64
	if err := s.db.Model(&models.Expense{}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Count(&expenseCount).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if expenseCount > 0 && !force {
		return false, apperrors.WithMessage(apperrors.ErrCategoryHasExpenses,
			fmt.Sprintf("Cannot delete category with %d associated expenses. Use force=true to override.", expenseCount))
	}

	if force {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("category_id = ? AND user_id = ?", categoryID, userID).
				Delete(&models.Expense{}).Error; err != nil {
				return err
			}
			return tx.Delete(category).Error
		})
		if err != nil {
			return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return true, nil
	}

	if err := s.db.Model(category).Update("is_active", false).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return false, nil
}

// summaryRow carries one category's aggregates out of the grouped query.
type summaryRow struct {
	ID           string
	Name         string
	BudgetAmount float64
	SpentAmount  float64
}

// GetBudgetSummary aggregates all active categories for the user into an
// overall budget overview.
func (s *categoryService) GetBudgetSummary(userID string) (*BudgetSummary, error) {
	var rows []summaryRow
	err := s.db.Model(&models.BudgetCategory{}).
		Select("budget_categories.id, budget_categories.name, budget_categories.budget_amount, COALESCE(SUM(expenses.amount), 0) AS spent_amount").
		Joins("LEFT JOIN expenses ON expenses.category_id = budget_categories.id AND expenses.user_id = ?", userID).
		Where("budget_categories.user_id = ? AND budget_categories.is_active = ?", userID, true).
		Group("budget_categories.id, budget_categories.name, budget_categories.budget_amount").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &BudgetSummary{
		CategoryCount: len(rows),
		Categories:    make([]CategorySummary, 0, len(rows)),
	}

	for _, row := range rows {
		summary.TotalBudget += row.BudgetAmount
		summary.TotalSpent += row.SpentAmount

		var utilization float64
		if row.BudgetAmount > 0 {
			utilization = row.SpentAmount / row.BudgetAmount * 100
		}
		summary.Categories = append(summary.Categories, CategorySummary{
			ID:                    row.ID,
			Name:                  row.Name,
			BudgetAmount:          row.BudgetAmount,
			SpentAmount:           row.SpentAmount,
			RemainingBudget:       row.BudgetAmount - row.SpentAmount,
			UtilizationPercentage: utilization,
		})
	}

	summary.TotalRemaining = summary.TotalBudget - summary.TotalSpent
	if summary.TotalBudget > 0 {
		summary.BudgetUtilization = summary.TotalSpent / summary.TotalBudget * 100
	}

	return summary, nil
}

// getOwned fetches a category scoped to its owner.
func (s *categoryService) getOwned(userID, categoryID string) (*models.BudgetCategory, error) {
	var category models.BudgetCategory
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// checkNameAvailable rejects a name already used by another active
// category of the same user. excludeID skips the category being renamed.
func (s *categoryService) checkNameAvailable(userID, name, excludeID string) error {
	query := s.db.Model(&models.BudgetCategory{}).
		Where("user_id = ? AND name = ? AND is_active = ?", userID, name, true)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.WithMessage(apperrors.ErrDuplicateCategory,
			fmt.Sprintf("Budget category '%s' already exists", name))
	}
	return nil
}

// spentAmount sums all expenses recorded against a category.
func (s *categoryService) spentAmount(userID, categoryID string) (float64, error) {
	var spent float64
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Scan(&spent).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}

func (s *categoryService) withTotals(userID string, category *models.BudgetCategory) (*CategoryWithTotals, error) {
	spent, err := s.spentAmount(userID, category.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryWithTotals{
		BudgetCategory:  *category,
		SpentAmount:     spent,
		RemainingBudget: category.BudgetAmount - spent,
	}, nil
}
