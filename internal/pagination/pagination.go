// Package pagination provides limit/offset query parameters for list
// endpoints and the matching GORM scope.
package pagination

import "gorm.io/gorm"

// LimitOffset holds list window parameters parsed from query strings.
// Endpoint-specific maximums are enforced by the binding tags on the
// embedding request struct.
type LimitOffset struct {
	Limit  int `form:"limit" binding:"omitempty,min=1"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Defaults fills in the default limit when none was provided and clamps
// the limit to max.
func (p *LimitOffset) Defaults(defaultLimit, max int) {
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > max {
		p.Limit = max
	}
}

// Scope returns a GORM scope applying OFFSET and LIMIT for the window.
func Scope(p LimitOffset) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}
