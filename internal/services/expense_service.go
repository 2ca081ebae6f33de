package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/models"
	"mintleaf/internal/pagination"
	"mintleaf/internal/period"
)

// expenseService handles expense recording against budget categories.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records a new expense. The target category must exist and
// belong to the user; inactive categories still accept expenses. A zero
// expense date defaults to today.
func (s *expenseService) CreateExpense(userID, categoryID, description string, amount float64, expenseDate time.Time, notes string) (*ExpenseWithContext, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense amount must be positive")
	}

	category, err := s.ownedCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if expenseDate.IsZero() {
		expenseDate = time.Now().UTC()
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Description: description,
		Amount:      amount,
		ExpenseDate: period.Truncate(expenseDate),
		Notes:       notes,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.withContext(userID, expense, category)
}

// GetUserExpenses lists the user's expenses, newest first, honoring the
// optional category and date range filters.
func (s *expenseService) GetUserExpenses(userID string, filter ExpenseFilter, window pagination.LimitOffset) ([]ExpenseWithContext, error) {
	query := s.db.Where("user_id = ?", userID)
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.StartDate != nil {
		query = query.Where("expense_date >= ?", period.Truncate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("expense_date <= ?", period.Truncate(*filter.EndDate))
	}

	window.Defaults(100, 1000)

	var expenses []models.Expense
	if err := query.Order("expense_date DESC, created_at DESC").
		Scopes(pagination.Scope(window)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Category names and remaining budgets are resolved once per distinct
	// category across the page, not once per row.
	categories := make(map[string]*models.BudgetCategory)
	remaining := make(map[string]float64)

	result := make([]ExpenseWithContext, 0, len(expenses))
	for i := range expenses {
		exp := &expenses[i]
		category, ok := categories[exp.CategoryID]
		if !ok {
			var c models.BudgetCategory
			if err := s.db.Where("id = ?", exp.CategoryID).First(&c).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			spent, err := s.categorySpent(userID, exp.CategoryID)
			if err != nil {
				return nil, err
			}
			category = &c
			categories[exp.CategoryID] = category
			remaining[exp.CategoryID] = c.BudgetAmount - spent
		}
		result = append(result, ExpenseWithContext{
			Expense:         *exp,
			CategoryName:    category.Name,
			RemainingBudget: remaining[exp.CategoryID],
		})
	}
	return result, nil
}

// GetExpenseByID returns a single expense with category context. Expenses
// owned by other users report as not found.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*ExpenseWithContext, error) {
	expense, err := s.getOwned(userID, expenseID)
	if err != nil {
		return nil, err
	}
	return s.withContext(userID, expense, nil)
}

// UpdateExpense applies a partial update. Moving an expense to a different
// category verifies ownership of the target first.
func (s *expenseService) UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*ExpenseWithContext, error) {
	expense, err := s.getOwned(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if update.CategoryID != nil && *update.CategoryID != expense.CategoryID {
		if _, err := s.ownedCategory(userID, *update.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrCategoryNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "New budget category not found")
			}
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense amount must be positive")
		}
		updates["amount"] = *update.Amount
	}
	if update.ExpenseDate != nil {
		updates["expense_date"] = period.Truncate(*update.ExpenseDate)
	}
	if update.CategoryID != nil {
		updates["category_id"] = *update.CategoryID
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.withContext(userID, expense, nil)
}

// DeleteExpense permanently removes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.getOwned(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *expenseService) getOwned(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

func (s *expenseService) ownedCategory(userID, categoryID string) (*models.BudgetCategory, error) {
	var category models.BudgetCategory
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

func (s *expenseService) categorySpent(userID, categoryID string) (float64, error) {
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

// withContext annotates an expense with its category name and the
// category's remaining budget. category may be nil, in which case it is
// loaded from the expense's category ID.
func (s *expenseService) withContext(userID string, expense *models.Expense, category *models.BudgetCategory) (*ExpenseWithContext, error) {
	if category == nil {
		var err error
		category, err = s.ownedCategory(userID, expense.CategoryID)
		if err != nil {
			return nil, err
		}
	}
	spent, err := s.categorySpent(userID, expense.CategoryID)
	if err != nil {
		return nil, err
	}
	return &ExpenseWithContext{
		Expense:         *expense,
		CategoryName:    category.Name,
		RemainingBudget: category.BudgetAmount - spent,
	}, nil
}
