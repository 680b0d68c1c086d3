package models

// Tip is a lightweight heuristic suggestion. Tips are ephemeral: each
// generation replaces the stored set wholesale, keeping the top five by
// confidence times yearly impact.
type Tip struct {
	Base
	UserID             string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Text               string          `gorm:"not null" json:"text"`
	ImpactYearly       int64           `gorm:"type:bigint;not null" json:"impact_yearly"`
	Confidence         float64         `gorm:"not null" json:"confidence"`
	RelatedCategory    ExpenseCategory `json:"related_category,omitempty"`
	ActionType         string          `json:"action_type"`
	SuggestedReduction int64           `gorm:"type:bigint" json:"suggested_reduction"`
}

// AdvicePriority orders advice items for display.
type AdvicePriority string

const (
	AdvicePriorityHigh   AdvicePriority = "high"
	AdvicePriorityMedium AdvicePriority = "medium"
	AdvicePriorityLow    AdvicePriority = "low"
)

// Weight maps a priority to its sort weight (higher sorts first).
func (p AdvicePriority) Weight() int {
	switch p {
	case AdvicePriorityHigh:
		return 3
	case AdvicePriorityMedium:
		return 2
	case AdvicePriorityLow:
		return 1
	}
	return 0
}

// Advice is a richer advisory item produced by the rule engine. Despite the
// "AI advisor" label, generation is fully deterministic; no model is called.
// The stored set acts as a one-hour cache capped at ten rows.
type Advice struct {
	Base
	UserID            string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type              string           `gorm:"not null" json:"type"`
	Title             string           `gorm:"not null" json:"title"`
	Message           string           `json:"message"`
	MonthlySavings    int64            `gorm:"type:bigint" json:"monthly_savings"`
	YearlySavings     int64            `gorm:"type:bigint" json:"yearly_savings"`
	GoalTimeReduction *int             `json:"goal_time_reduction,omitempty"`
	Priority          AdvicePriority   `gorm:"not null" json:"priority"`
	ActionItems       string           `json:"action_items"`
	RelatedCategory   *ExpenseCategory `json:"related_category,omitempty"`
}
