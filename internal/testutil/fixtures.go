package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"stashly/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense creates an expense of the given category and amount (in cents)
// on the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, category models.ExpenseCategory, amount int64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Date:        date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGoal creates a savings goal with the given target (in cents) and a
// deadline one year out.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target int64) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: target,
		Deadline:     time.Now().AddDate(1, 0, 0),
		Category:     models.GoalCategoryOther,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestBudget creates a budget for the given category and month with the
// given monthly limit (in cents).
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, category models.ExpenseCategory, month string, limit int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:       userID,
		Category:     category,
		Month:        month,
		MonthlyLimit: limit,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestIncome creates an income record for the given month (in cents).
func CreateTestIncome(t *testing.T, db *gorm.DB, userID, month string, amount int64) *models.MonthlyIncome {
	t.Helper()

	income := &models.MonthlyIncome{
		UserID: userID,
		Amount: amount,
		Source: fmt.Sprintf("Test Source %d", nextID()),
		Month:  month,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestStreakDay marks the given calendar date as a saving day.
func CreateTestStreakDay(t *testing.T, db *gorm.DB, userID string, day time.Time) *models.StreakDay {
	t.Helper()

	record := &models.StreakDay{
		UserID: userID,
		Day:    day.Format(models.DateOnly),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test streak day: %v", err)
	}
	return record
}

// CreateTestActivity creates a saving activity on the given date with the
// given net savings (in cents, signed).
func CreateTestActivity(t *testing.T, db *gorm.DB, userID string, day time.Time, netSavings int64) *models.SavingActivity {
	t.Helper()

	activity := &models.SavingActivity{
		UserID:     userID,
		Day:        day.Format(models.DateOnly),
		NetSavings: netSavings,
	}
	if err := db.Create(activity).Error; err != nil {
		t.Fatalf("failed to create test activity: %v", err)
	}
	return activity
}

// CreateTestChallenge creates an active challenge of the given type over the
// given window.
func CreateTestChallenge(t *testing.T, db *gorm.DB, userID string, challengeType models.ChallengeType, start, end time.Time) *models.Challenge {
	t.Helper()

	challenge := &models.Challenge{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Challenge %d", nextID()),
		Type:      challengeType,
		StartDate: start,
		EndDate:   end,
		Status:    models.ChallengeStatusActive,
	}
	if err := db.Create(challenge).Error; err != nil {
		t.Fatalf("failed to create test challenge: %v", err)
	}
	return challenge
}
