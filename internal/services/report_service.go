package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/models"
	"mintleaf/internal/period"
)

// reportService produces spending analytics and data exports.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// FinancialSummary aggregates spending within the range against the
// user's current total budget. The budget is not prorated to the range;
// utilization compares range spending to the full monthly budget.
func (s *reportService) FinancialSummary(userID string, r period.Range) (*FinancialSummary, error) {
	spent, err := s.spentInRange(userID, "", r)
	if err != nil {
		return nil, err
	}

	budget, err := s.totalBudget(userID)
	if err != nil {
		return nil, err
	}

	summary := &FinancialSummary{
		TotalSpent:  spent,
		PeriodStart: r.Start.Format("2006-01-02"),
		PeriodEnd:   r.End.Format("2006-01-02"),
	}

	if days := r.Days(); days > 0 {
		summary.AverageMonthly = spent / float64(days) * 30
	}
	if budget > 0 {
		summary.BudgetUtilization = spent / budget * 100
		summary.SavingsRate = (budget - spent) / budget * 100
	}
	return summary, nil
}

// SpendingTrends returns per-month totals for the trailing months,
// oldest first. Each month is compared against the current total budget,
// not a historical snapshot.
func (s *reportService) SpendingTrends(userID string, months int) ([]TrendPoint, error) {
	if months <= 0 {
		months = 6
	}
	if months > 24 {
		months = 24
	}

	budget, err := s.totalBudget(userID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC()
	trends := make([]TrendPoint, 0, months)
	for ago := months - 1; ago >= 0; ago-- {
		window := period.MonthWindow(today, ago)
		spent, err := s.spentInRange(userID, "", window)
		if err != nil {
			return nil, err
		}

		point := TrendPoint{
			Period: fmt.Sprintf("%d-%02d", window.Start.Year(), int(window.Start.Month())),
			Amount: spent,
			Budget: budget,
		}
		if budget > 0 {
			point.Utilization = spent / budget * 100
		}
		trends = append(trends, point)
	}
	return trends, nil
}

// breakdownRow carries per-category aggregates out of the grouped query.
type breakdownRow struct {
	Name         string
	BudgetAmount float64
	Spent        float64
}

// CategoryBreakdown splits spending within the range by active category.
// Percentage is the category's share of total spending in the range.
func (s *reportService) CategoryBreakdown(userID string, r period.Range) ([]CategoryBreakdownRow, error) {
	var rows []breakdownRow
	err := s.db.Model(&models.BudgetCategory{}).
		Select("budget_categories.name, budget_categories.budget_amount, COALESCE(SUM(expenses.amount), 0) AS spent").
		Joins("LEFT JOIN expenses ON expenses.category_id = budget_categories.id AND expenses.expense_date >= ? AND expenses.expense_date <= ?", r.Start, r.End).
		Where("budget_categories.user_id = ? AND budget_categories.is_active = ?", userID, true).
		Group("budget_categories.id, budget_categories.name, budget_categories.budget_amount").
		Order("spent DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalSpent float64
	for _, row := range rows {
		totalSpent += row.Spent
	}

	breakdown := make([]CategoryBreakdownRow, 0, len(rows))
	for _, row := range rows {
		entry := CategoryBreakdownRow{
			CategoryName: row.Name,
			Spent:        row.Spent,
			Budget:       row.BudgetAmount,
		}
		if totalSpent > 0 {
			entry.Percentage = row.Spent / totalSpent * 100
		}
		if row.BudgetAmount > 0 {
			entry.Utilization = row.Spent / row.BudgetAmount * 100
		}
		breakdown = append(breakdown, entry)
	}
	return breakdown, nil
}

// RecentExpenses returns the latest expenses with category names and a
// days-ago marker relative to today.
func (s *reportService) RecentExpenses(userID string, limit int) ([]RecentExpense, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	type recentRow struct {
		ID           string
		Amount       float64
		Description  string
		CategoryName string
		ExpenseDate  time.Time
	}

	var rows []recentRow
	err := s.db.Model(&models.Expense{}).
		Select("expenses.id, expenses.amount, expenses.description, budget_categories.name AS category_name, expenses.expense_date").
		Joins("JOIN budget_categories ON budget_categories.id = expenses.category_id").
		Where("expenses.user_id = ?", userID).
		Order("expenses.expense_date DESC, expenses.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := period.Truncate(time.Now().UTC())
	recent := make([]RecentExpense, 0, len(rows))
	for _, row := range rows {
		recent = append(recent, RecentExpense{
			ID:           row.ID,
			Amount:       row.Amount,
			Description:  row.Description,
			CategoryName: row.CategoryName,
			ExpenseDate:  row.ExpenseDate.Format("2006-01-02"),
			DaysAgo:      int(today.Sub(period.Truncate(row.ExpenseDate)).Hours() / 24),
		})
	}
	return recent, nil
}

// Insights generates budget alerts for the current month to date.
// Categories at or above 90% of budget are flagged danger, at or above
// 75% warning. Categories with no spending at all produce informational
// notices, but only when there are three or fewer of them; beyond that
// the notices would be noise.
func (s *reportService) Insights(userID string) ([]Insight, error) {
	today := time.Now().UTC()
	monthToDate := period.Range{
		Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		End:   period.Truncate(today),
	}

	var categories []models.BudgetCategory
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	insights := make([]Insight, 0)
	var unused []models.BudgetCategory

	for i := range categories {
		category := &categories[i]
		spent, err := s.spentInRange(userID, category.ID, monthToDate)
		if err != nil {
			return nil, err
		}
		if category.BudgetAmount <= 0 {
			continue
		}

		utilization := spent / category.BudgetAmount * 100
		switch {
		case utilization >= 90:
			overBy := spent
			insights = append(insights, Insight{
				Type:     InsightDanger,
				Title:    "Budget Nearly Exceeded",
				Message:  fmt.Sprintf("You've used %.1f%% of your %s budget this month", utilization, category.Name),
				Amount:   &overBy,
				Category: category.Name,
			})
		case utilization >= 75:
			used := spent
			insights = append(insights, Insight{
				Type:     InsightWarning,
				Title:    "High Budget Usage",
				Message:  fmt.Sprintf("You've used %.1f%% of your %s budget this month", utilization, category.Name),
				Amount:   &used,
				Category: category.Name,
			})
		case spent == 0:
			unused = append(unused, *category)
		}
	}

	if len(unused) > 0 && len(unused) <= 3 {
		for _, category := range unused {
			budget := category.BudgetAmount
			insights = append(insights, Insight{
				Type:     InsightInfo,
				Title:    "Unused Budget",
				Message:  fmt.Sprintf("You haven't spent anything from your %s budget this month", category.Name),
				Amount:   &budget,
				Category: category.Name,
			})
		}
	}

	return insights, nil
}

// Export renders the user's expenses within the range as a download.
// Only CSV is implemented; other formats are rejected.
func (s *reportService) Export(userID, format string, r period.Range) (*Export, error) {
	if format != "csv" {
		return nil, apperrors.ErrUnsupportedFormat
	}

	type exportRow struct {
		ExpenseDate  time.Time
		Amount       float64
		Description  string
		CategoryName string
		CreatedAt    time.Time
	}

	var rows []exportRow
	err := s.db.Model(&models.Expense{}).
		Select("expenses.expense_date, expenses.amount, expenses.description, budget_categories.name AS category_name, expenses.created_at").
		Joins("JOIN budget_categories ON budget_categories.id = expenses.category_id").
		Where("expenses.user_id = ? AND expenses.expense_date >= ? AND expenses.expense_date <= ?", userID, r.Start, r.End).
		Order("expenses.expense_date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Amount", "Description", "Category", "Created At"}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, row := range rows {
		record := []string{
			row.ExpenseDate.Format("2006-01-02"),
			strconv.FormatFloat(row.Amount, 'f', 2, 64),
			row.Description,
			row.CategoryName,
			row.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Export{
		Filename:    fmt.Sprintf("expenses_%s_%s.csv", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

// spentInRange sums expenses over a date range, optionally scoped to one
// category.
func (s *reportService) spentInRange(userID, categoryID string, r period.Range) (float64, error) {
	query := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND expense_date >= ? AND expense_date <= ?", userID, r.Start, r.End)
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var spent float64
	if err := query.Scan(&spent).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}

// totalBudget sums the budgets of the user's active categories.
func (s *reportService) totalBudget(userID string) (float64, error) {
	var budget float64
	err := s.db.Model(&models.BudgetCategory{}).
		Select("COALESCE(SUM(budget_amount), 0)").
		Where("user_id = ? AND is_active = ?", userID, true).
		Scan(&budget).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}
