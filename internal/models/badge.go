package models

import "time"

// BadgeCategory groups badges by what they reward.
type BadgeCategory string

const (
	BadgeCategoryStreak      BadgeCategory = "streak"
	BadgeCategorySavings     BadgeCategory = "savings"
	BadgeCategoryBudget      BadgeCategory = "budget"
	BadgeCategoryAchievement BadgeCategory = "achievement"
)

// Badge is an award earned at most once per code. The unique (user, code)
// index keeps awards idempotent.
type Badge struct {
	Base
	UserID      string        `gorm:"type:uuid;not null;uniqueIndex:idx_badge_user_code" json:"user_id"`
	Code        string        `gorm:"not null;uniqueIndex:idx_badge_user_code" json:"code"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    BadgeCategory `gorm:"not null" json:"category"`
	Requirement string        `json:"requirement"`
	EarnedAt    time.Time     `gorm:"not null" json:"earned_at"`
}
