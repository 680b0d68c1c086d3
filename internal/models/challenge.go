package models

import "time"

// ChallengeType is the closed set of challenge kinds. Progress computation
// switches exhaustively over this type.
type ChallengeType string

const (
	ChallengeNoSpendWeekend ChallengeType = "no_spend_weekend"
	ChallengeReduceCategory ChallengeType = "reduce_category"
	ChallengeSaveAmount     ChallengeType = "save_amount"
	ChallengeExpenseLimit   ChallengeType = "expense_limit"
)

// ChallengeStatus is the challenge state machine. Active is the only
// non-terminal state; completed, failed, and expired are never left.
type ChallengeStatus string

const (
	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusFailed    ChallengeStatus = "failed"
	ChallengeStatusExpired   ChallengeStatus = "expired"
)

// Challenge is a time-boxed savings or spending challenge evaluated over
// [StartDate, EndDate]. Progress is a 0-100 score.
type Challenge struct {
	Base
	UserID          string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Name            string           `gorm:"not null" json:"name"`
	Description     string           `json:"description"`
	Type            ChallengeType    `gorm:"not null" json:"type"`
	Category        *ExpenseCategory `json:"category,omitempty"`
	TargetAmount    *int64           `gorm:"type:bigint" json:"target_amount,omitempty"`
	TargetReduction *float64         `json:"target_reduction,omitempty"`
	StartDate       time.Time        `gorm:"not null" json:"start_date"`
	EndDate         time.Time        `gorm:"not null" json:"end_date"`
	Status          ChallengeStatus  `gorm:"not null;default:active" json:"status"`
	Progress        float64          `gorm:"not null;default:0" json:"progress"`
}

// Terminal reports whether the challenge has left the active state.
func (c *Challenge) Terminal() bool {
	return c.Status != ChallengeStatusActive
}
