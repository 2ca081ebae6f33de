package services

import (
	"time"

	"mintleaf/internal/models"
	"mintleaf/internal/pagination"
	"mintleaf/internal/period"
)

// Notifier queues outbound account emails. Delivery is asynchronous and
// best-effort; enqueueing never fails the calling operation.
type Notifier interface {
	EnqueueVerification(email, firstName, token string)
	EnqueuePasswordReset(email, firstName, token string)
}

// UserServicer defines the contract for account management.
type UserServicer interface {
	Register(firstName, lastName, email, password string) (*models.User, error)
	Login(email, password string) (*models.User, string, error)
	VerifyEmail(tokenString string) (verifiedNow bool, err error)
	ResendVerification(email string) (sent bool, err error)
	ForgotPassword(email string) error
	ResetPassword(tokenString, newPassword string) error
	ChangePassword(userID, currentPassword, newPassword string) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}

// CategoryWithTotals is a category annotated with its derived spending data.
type CategoryWithTotals struct {
	models.BudgetCategory
	SpentAmount     float64 `json:"spent_amount"`
	RemainingBudget float64 `json:"remaining_budget"`
}

// CategoryDetail adds the category's most recent expenses.
type CategoryDetail struct {
	CategoryWithTotals
	RecentExpenses []models.Expense `json:"recent_expenses"`
}

// CategoryUpdate holds partial-update fields; nil means "leave unchanged".
type CategoryUpdate struct {
	Name         *string
	Description  *string
	BudgetAmount *float64
	Color        *string
	Icon         *string
}

// CategorySummary is one row of the budget overview.
type CategorySummary struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	BudgetAmount          float64 `json:"budget_amount"`
	SpentAmount           float64 `json:"spent_amount"`
	RemainingBudget       float64 `json:"remaining_budget"`
	UtilizationPercentage float64 `json:"utilization_percentage"`
}

// BudgetSummary aggregates all active categories for a user.
type BudgetSummary struct {
	TotalBudget       float64           `json:"total_budget"`
	TotalSpent        float64           `json:"total_spent"`
	TotalRemaining    float64           `json:"total_remaining"`
	BudgetUtilization float64           `json:"budget_utilization"`
	CategoryCount     int               `json:"category_count"`
	Categories        []CategorySummary `json:"categories"`
}

// CategoryServicer defines the contract for budget category management.
type CategoryServicer interface {
	CreateCategory(userID, name, description string, budgetAmount float64, color, icon string) (*CategoryWithTotals, error)
	GetUserCategories(userID string, includeInactive bool) ([]CategoryWithTotals, error)
	GetCategoryByID(userID, categoryID string, expenseLimit int) (*CategoryDetail, error)
	UpdateCategory(userID, categoryID string, update CategoryUpdate) (*CategoryWithTotals, error)
	DeleteCategory(userID, categoryID string, force bool) (hardDeleted bool, err error)
	GetBudgetSummary(userID string) (*BudgetSummary, error)
}

// ExpenseWithContext is an expense annotated with category context and the
// category's remaining budget after all its expenses.
type ExpenseWithContext struct {
	models.Expense
	CategoryName    string  `json:"category_name"`
	RemainingBudget float64 `json:"remaining_budget"`
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
}

// ExpenseUpdate holds partial-update fields; nil means "leave unchanged".
type ExpenseUpdate struct {
	Description *string
	Amount      *float64
	ExpenseDate *time.Time
	CategoryID  *string
	Notes       *string
}

// ExpenseServicer defines the contract for expense management.
type ExpenseServicer interface {
	CreateExpense(userID, categoryID, description string, amount float64, expenseDate time.Time, notes string) (*ExpenseWithContext, error)
	GetUserExpenses(userID string, filter ExpenseFilter, window pagination.LimitOffset) ([]ExpenseWithContext, error)
	GetExpenseByID(userID, expenseID string) (*ExpenseWithContext, error)
	UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*ExpenseWithContext, error)
	DeleteExpense(userID, expenseID string) error
}

// FinancialSummary is the aggregate spending picture for a period.
type FinancialSummary struct {
	TotalSpent        float64 `json:"total_spent"`
	AverageMonthly    float64 `json:"average_monthly"`
	BudgetUtilization float64 `json:"budget_utilization"`
	SavingsRate       float64 `json:"savings_rate"`
	PeriodStart       string  `json:"period_start"`
	PeriodEnd         string  `json:"period_end"`
}

// TrendPoint is one month of the spending trend series.
type TrendPoint struct {
	Period      string  `json:"period"`
	Amount      float64 `json:"amount"`
	Budget      float64 `json:"budget"`
	Utilization float64 `json:"utilization"`
}

// CategoryBreakdownRow is per-category spending within a period.
type CategoryBreakdownRow struct {
	CategoryName string  `json:"category_name"`
	Spent        float64 `json:"spent"`
	Budget       float64 `json:"budget"`
	Percentage   float64 `json:"percentage"`
	Utilization  float64 `json:"utilization"`
}

// RecentExpense is one row of the recent-expense report.
type RecentExpense struct {
	ID           string  `json:"id"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	CategoryName string  `json:"category_name"`
	ExpenseDate  string  `json:"expense_date"`
	DaysAgo      int     `json:"days_ago"`
}

// InsightType classifies a budget insight.
type InsightType string

const (
	InsightDanger  InsightType = "danger"
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
)

// Insight is a single budget alert for the current month.
type Insight struct {
	Type     InsightType `json:"type"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Amount   *float64    `json:"amount,omitempty"`
	Category string      `json:"category,omitempty"`
}

// Export is a rendered report download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportServicer defines the contract for reporting and export.
type ReportServicer interface {
	FinancialSummary(userID string, r period.Range) (*FinancialSummary, error)
	SpendingTrends(userID string, months int) ([]TrendPoint, error)
	CategoryBreakdown(userID string, r period.Range) ([]CategoryBreakdownRow, error)
	RecentExpenses(userID string, limit int) ([]RecentExpense, error)
	Insights(userID string) ([]Insight, error)
	Export(userID, format string, r period.Range) (*Export, error)
}
