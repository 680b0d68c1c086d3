package models

// Budget represents a monthly spending limit for one category.
// At most one budget may exist per (user, category, month).
type Budget struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;uniqueIndex:idx_budget_user_cat_month" json:"user_id"`
	Category     ExpenseCategory `gorm:"not null;uniqueIndex:idx_budget_user_cat_month" json:"category"`
	Month        string          `gorm:"size:7;not null;uniqueIndex:idx_budget_user_cat_month" json:"month"`
	MonthlyLimit int64           `gorm:"type:bigint;not null" json:"monthly_limit"`
}
