package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/period"
	"mintleaf/internal/services"
)

// ReportHandler handles reporting and export requests
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// PeriodRequest represents the reporting period query parameters
type PeriodRequest struct {
	Period    string     `form:"period,default=month" binding:"omitempty,period_type"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// Resolve computes the concrete date range for the request.
func (r PeriodRequest) Resolve() period.Range {
	return period.Resolve(period.Type(r.Period), r.StartDate, r.EndDate, time.Now().UTC())
}

// TrendsRequest represents the trends query parameters
type TrendsRequest struct {
	Months int `form:"months,default=6" binding:"omitempty,min=1,max=24"`
}

// RecentExpensesRequest represents the recent-expenses query parameters
type RecentExpensesRequest struct {
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=50"`
}

// ExportRequest represents the export query parameters
type ExportRequest struct {
	PeriodRequest
	Format string `form:"format,default=csv" binding:"omitempty,export_format"`
}

// GetSummary returns the financial summary for a period
// @Summary     Financial summary
// @Description Aggregate spending for the period against the current budget
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period     query string false "Period type" Enums(week, month, quarter, year, custom) default(month)
// @Param       start_date query string false "Custom period start (YYYY-MM-DD)"
// @Param       end_date   query string false "Custom period end (YYYY-MM-DD)"
// @Success     200 {object} services.FinancialSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	summary, err := h.reportService.FinancialSummary(userID, req.Resolve())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTrends returns monthly spending trends
// @Summary     Spending trends
// @Description Per-month spending totals for the trailing months, oldest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Number of trailing months" default(6) minimum(1) maximum(24)
// @Success     200 {array} services.TrendPoint "Trend points"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/trends [get]
func (h *ReportHandler) GetTrends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TrendsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trends, err := h.reportService.SpendingTrends(userID, req.Months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, trends)
}

// GetCategoryBreakdown returns per-category spending for a period
// @Summary     Category breakdown
// @Description Split spending within the period by active category
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period     query string false "Period type" Enums(week, month, quarter, year, custom) default(month)
// @Param       start_date query string false "Custom period start (YYYY-MM-DD)"
// @Param       end_date   query string false "Custom period end (YYYY-MM-DD)"
// @Success     200 {array} services.CategoryBreakdownRow "Breakdown rows"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	breakdown, err := h.reportService.CategoryBreakdown(userID, req.Resolve())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// GetRecentExpenses returns the latest expenses
// @Summary     Recent expenses
// @Description Latest expenses with category names and days-ago markers
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum results" default(10) minimum(1) maximum(50)
// @Success     200 {array} services.RecentExpense "Recent expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/recent-expenses [get]
func (h *ReportHandler) GetRecentExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecentExpensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recent, err := h.reportService.RecentExpenses(userID, req.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recent)
}

// GetInsights returns budget alerts for the current month
// @Summary     Budget insights
// @Description Danger, warning, and unused-budget notices for the current month
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.Insight "Insights"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/insights [get]
func (h *ReportHandler) GetInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.reportService.Insights(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, insights)
}

// ExportReport streams the period's expenses as a download
// @Summary     Export expenses
// @Description Download the period's expenses; only CSV is supported
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       format     query string false "Export format" Enums(csv, pdf, excel) default(csv)
// @Param       period     query string false "Period type" Enums(week, month, quarter, year, custom) default(month)
// @Param       start_date query string false "Custom period start (YYYY-MM-DD)"
// @Param       end_date   query string false "Custom period end (YYYY-MM-DD)"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} ErrorResponse "Unsupported format or invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/export [get]
func (h *ReportHandler) ExportReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	export, err := h.reportService.Export(userID, req.Format, req.Resolve())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
