package models

import "time"

// Expense represents a single spending record. ExpenseDate carries
// date-only semantics: it is always stored at midnight UTC.
type Expense struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  string    `gorm:"type:uuid;not null;index" json:"category_id"`
	Description string    `gorm:"size:200;not null" json:"description"`
	Amount      float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	ExpenseDate time.Time `gorm:"not null" json:"expense_date"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
}
