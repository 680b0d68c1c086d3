package models

// UserStreak is the per-user streak summary. One row per user, recomputed
// from streak days whenever a saving day is recorded; reads never recompute.
type UserStreak struct {
	Base
	UserID        string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentStreak int    `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak int    `gorm:"not null;default:0" json:"longest_streak"`
	LastSavingDay string `gorm:"size:10" json:"last_saving_day"`
}

// StreakDay marks one calendar date as a saving day. The unique
// (user, day) index makes recording the same day twice a no-op.
type StreakDay struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_streak_day_user_day" json:"user_id"`
	Day    string `gorm:"size:10;not null;uniqueIndex:idx_streak_day_user_day" json:"day"`
}
