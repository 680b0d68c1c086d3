package models

// MonthlyIncome represents an income source for a given month.
type MonthlyIncome struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int64  `gorm:"type:bigint;not null" json:"amount"`
	Source      string `json:"source"`
	Month       string `gorm:"size:7;not null;index" json:"month"`
	IsRecurring bool   `gorm:"default:false" json:"is_recurring"`
}
