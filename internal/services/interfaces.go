package services

import (
	"time"

	"stashly/internal/models"
	"stashly/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Month    *string
	Category *models.ExpenseCategory
	FromDate *time.Time
	ToDate   *time.Time
}

// ExpenseServicer defines the contract for expense-related business logic.
// Expenses are immutable after creation, so there is no update operation.
type ExpenseServicer interface {
	CreateExpense(userID string, amount int64, category models.ExpenseCategory, description string, date time.Time) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// GoalServicer defines the contract for savings-goal business logic.
type GoalServicer interface {
	CreateGoal(userID, name string, targetAmount int64, deadline time.Time, category models.GoalCategory) (*models.SavingsGoal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error)
	GetGoalByID(userID, goalID string) (*models.SavingsGoal, error)
	UpdateGoal(userID, goalID, name string, targetAmount *int64, deadline *time.Time) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID string) error
	Contribute(userID, goalID string, amount int64) (*models.SavingsGoal, error)
}

// BudgetProgress contains spending vs limit data for one budget's month.
type BudgetProgress struct {
	BudgetID     string                 `json:"budget_id"`
	Category     models.ExpenseCategory `json:"category"`
	Month        string                 `json:"month"`
	MonthlyLimit int64                  `json:"monthly_limit"`
	Spent        int64                  `json:"spent"`
	Remaining    int64                  `json:"remaining"`
	Percentage   float64                `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, category models.ExpenseCategory, month string, monthlyLimit int64) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, month *string) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, monthlyLimit *int64) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}

// IncomeServicer defines the contract for monthly-income business logic.
type IncomeServicer interface {
	CreateIncome(userID string, amount int64, source, month string, isRecurring bool) (*models.MonthlyIncome, error)
	GetUserIncomes(userID string, page pagination.PageRequest, month *string) (*pagination.PageResponse[models.MonthlyIncome], error)
	GetIncomeByID(userID, incomeID string) (*models.MonthlyIncome, error)
	DeleteIncome(userID, incomeID string) error
	MonthlyTotal(userID, month string) (int64, error)
}

// Projection is the result of a compound future-value calculation.
type Projection struct {
	FutureValue int64     `json:"future_value"`
	Formula     string    `json:"formula"`
	GeneratedAt time.Time `json:"generated_at"`
}

// RecommendationInput carries the optional context for a projection
// recommendation. Nil fields suppress the corresponding remark.
type RecommendationInput struct {
	SavingsRate          *float64
	EmergencyFundMonths  *float64
	MonthlyLivingExpense *int64
}

// ProjectionServicer defines the contract for savings projections.
type ProjectionServicer interface {
	FutureValue(principal, monthlyContribution int64, annualRate, years float64) Projection
	Recommendation(futureValue, goalAmount int64, input RecommendationInput) string
}

// ContributionInput is one goal contribution within a saving activity.
type ContributionInput struct {
	GoalID string
	Amount int64
}

// SavingResult is what recording a saving activity produced: the activity
// row, the recomputed streak, and any badges newly awarded by it.
type SavingResult struct {
	Activity  *models.SavingActivity `json:"activity"`
	Streak    *models.UserStreak     `json:"streak"`
	NewBadges []models.Badge         `json:"new_badges"`
}

// StreakServicer defines the contract for saving-day streak tracking.
type StreakServicer interface {
	RecordSavingActivity(userID string, netSavings int64, isManualSavingDay bool, contributions []ContributionInput) (*SavingResult, error)
	GetStreak(userID string) (*models.UserStreak, error)
	GetUserBadges(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Badge], error)
}

// ChallengeInput holds the caller-supplied fields for a new challenge.
// Status and progress are stored as given at creation; nothing is derived.
type ChallengeInput struct {
	Name            string
	Description     string
	Type            models.ChallengeType
	Category        *models.ExpenseCategory
	TargetAmount    *int64
	TargetReduction *float64
	StartDate       time.Time
	EndDate         time.Time
}

// ChallengeServicer defines the contract for savings challenges.
type ChallengeServicer interface {
	CreateChallenge(userID string, input ChallengeInput) (*models.Challenge, error)
	GetUserChallenges(userID string, page pagination.PageRequest, status *models.ChallengeStatus) (*pagination.PageResponse[models.Challenge], error)
	GetChallengeByID(userID, challengeID string) (*models.Challenge, error)
	EvaluateChallenges(userID string) ([]models.Challenge, error)
}

// AdvisorServicer defines the contract for the rule-based tip and advice
// generators. Generation is deterministic; no external model is consulted.
type AdvisorServicer interface {
	GenerateTips(userID string) ([]models.Tip, error)
	GetTips(userID string) ([]models.Tip, error)
	GenerateAdvice(userID string, force bool) ([]models.Advice, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
