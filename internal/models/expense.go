package models

import "time"

// ExpenseCategory is the closed set of spending categories.
type ExpenseCategory string

const (
	ExpenseCategoryFood          ExpenseCategory = "food"
	ExpenseCategoryTransport     ExpenseCategory = "transport"
	ExpenseCategoryEntertainment ExpenseCategory = "entertainment"
	ExpenseCategoryShopping      ExpenseCategory = "shopping"
	ExpenseCategoryBills         ExpenseCategory = "bills"
	ExpenseCategoryHealth        ExpenseCategory = "health"
	ExpenseCategoryEducation     ExpenseCategory = "education"
	ExpenseCategoryOther         ExpenseCategory = "other"
)

// ExpenseCategories lists every valid expense category.
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryFood,
	ExpenseCategoryTransport,
	ExpenseCategoryEntertainment,
	ExpenseCategoryShopping,
	ExpenseCategoryBills,
	ExpenseCategoryHealth,
	ExpenseCategoryEducation,
	ExpenseCategoryOther,
}

// Expense represents a single spending record. Expenses are immutable once
// created; the only mutation is a soft delete.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    ExpenseCategory `gorm:"not null" json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
}
