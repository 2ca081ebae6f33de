package models

import (
	"time"

	"mintleaf/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Soft deletion is modeled
// explicitly by the owning types where it applies (is_active on
// BudgetCategory), not with a deleted_at column.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
