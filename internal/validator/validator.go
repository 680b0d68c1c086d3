// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"stashly/internal/models"
)

// monthKeyRegex matches YYYY-MM month keys.
var monthKeyRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("goal_category", validateGoalCategory)
		_ = v.RegisterValidation("challenge_type", validateChallengeType)
		_ = v.RegisterValidation("challenge_status", validateChallengeStatus)
		_ = v.RegisterValidation("badge_category", validateBadgeCategory)
		_ = v.RegisterValidation("month_key", validateMonthKey)
	}
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	switch models.ExpenseCategory(fl.Field().String()) {
	case models.ExpenseCategoryFood, models.ExpenseCategoryTransport,
		models.ExpenseCategoryEntertainment, models.ExpenseCategoryShopping,
		models.ExpenseCategoryBills, models.ExpenseCategoryHealth,
		models.ExpenseCategoryEducation, models.ExpenseCategoryOther:
		return true
	}
	return false
}

func validateGoalCategory(fl validator.FieldLevel) bool {
	switch models.GoalCategory(fl.Field().String()) {
	case models.GoalCategoryEmergency, models.GoalCategoryVacation,
		models.GoalCategoryEducation, models.GoalCategoryHouse,
		models.GoalCategoryRetirement, models.GoalCategoryOther:
		return true
	}
	return false
}

func validateChallengeType(fl validator.FieldLevel) bool {
	switch models.ChallengeType(fl.Field().String()) {
	case models.ChallengeNoSpendWeekend, models.ChallengeReduceCategory,
		models.ChallengeSaveAmount, models.ChallengeExpenseLimit:
		return true
	}
	return false
}

func validateChallengeStatus(fl validator.FieldLevel) bool {
	switch models.ChallengeStatus(fl.Field().String()) {
	case models.ChallengeStatusActive, models.ChallengeStatusCompleted,
		models.ChallengeStatusFailed, models.ChallengeStatusExpired:
		return true
	}
	return false
}

func validateBadgeCategory(fl validator.FieldLevel) bool {
	switch models.BadgeCategory(fl.Field().String()) {
	case models.BadgeCategoryStreak, models.BadgeCategorySavings,
		models.BadgeCategoryBudget, models.BadgeCategoryAchievement:
		return true
	}
	return false
}

func validateMonthKey(fl validator.FieldLevel) bool {
	return monthKeyRegex.MatchString(fl.Field().String())
}
