package models

// SavingActivity is one row of the append-only saving log. NetSavings is
// signed: positive means net saved, negative means net spent from savings.
// More than one activity may exist per day.
type SavingActivity struct {
	Base
	UserID            string `gorm:"type:uuid;not null;index" json:"user_id"`
	Day               string `gorm:"size:10;not null;index" json:"day"`
	NetSavings        int64  `gorm:"type:bigint;not null" json:"net_savings"`
	IsManualSavingDay bool   `gorm:"default:false" json:"is_manual_saving_day"`

	Contributions []GoalContribution `gorm:"foreignKey:ActivityID" json:"contributions,omitempty"`
}

// GoalContribution records an amount applied to a savings goal as part of
// one saving activity.
type GoalContribution struct {
	Base
	ActivityID string `gorm:"type:uuid;not null;index" json:"activity_id"`
	GoalID     string `gorm:"type:uuid;not null;index" json:"goal_id"`
	Amount     int64  `gorm:"type:bigint;not null" json:"amount"`
}
