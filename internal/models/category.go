package models

// BudgetCategory represents a spending envelope owned by a single user.
// Rows reference their owner by id only; joins against expenses are
// computed explicitly at query time.
type BudgetCategory struct {
	Base
	UserID       string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Description  string  `gorm:"type:text" json:"description"`
	BudgetAmount float64 `gorm:"type:numeric(10,2);not null" json:"budget_amount"`
	Color        string  `gorm:"size:7" json:"color"`
	Icon         string  `gorm:"size:50" json:"icon"`
	IsActive     bool    `gorm:"default:true;not null" json:"is_active"`
}
