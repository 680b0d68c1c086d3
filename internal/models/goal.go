package models

import "time"

// GoalCategory is the closed set of savings goal categories.
type GoalCategory string

const (
	GoalCategoryEmergency  GoalCategory = "emergency"
	GoalCategoryVacation   GoalCategory = "vacation"
	GoalCategoryEducation  GoalCategory = "education"
	GoalCategoryHouse      GoalCategory = "house"
	GoalCategoryRetirement GoalCategory = "retirement"
	GoalCategoryOther      GoalCategory = "other"
)

// SavingsGoal represents a savings target with a deadline.
// CurrentAmount may exceed TargetAmount; over-achievement is not clamped.
type SavingsGoal struct {
	Base
	UserID        string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string       `gorm:"not null" json:"name"`
	TargetAmount  int64        `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64        `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Deadline      time.Time    `gorm:"not null" json:"deadline"`
	Category      GoalCategory `gorm:"not null" json:"category"`

	Contributions []GoalContribution `gorm:"foreignKey:GoalID" json:"contributions,omitempty"`
}
