package services

import (
	"testing"
	"time"

	"stashly/internal/models"
	"stashly/internal/pagination"
	"stashly/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, models.ExpenseCategoryFood, "2025-06", 50000)
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected non-empty budget ID")
		}
		if budget.MonthlyLimit != 50000 {
			t.Errorf("expected limit 50000, got %d", budget.MonthlyLimit)
		}
	})

	t.Run("duplicate_category_month_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, models.ExpenseCategoryFood, "2025-06", 50000)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBudget(user.ID, models.ExpenseCategoryFood, "2025-06", 60000)
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET")
	})

	t.Run("same_category_different_month_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, models.ExpenseCategoryFood, "2025-06", 50000)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBudget(user.ID, models.ExpenseCategoryFood, "2025-07", 50000)
		testutil.AssertNoError(t, err)
	})

	t.Run("other_users_do_not_conflict", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user1.ID, models.ExpenseCategoryFood, "2025-06", 50000)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBudget(user2.ID, models.ExpenseCategoryFood, "2025-06", 50000)
		testutil.AssertNoError(t, err)
	})

	t.Run("non_positive_limit_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, models.ExpenseCategoryFood, "2025-06", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetBudgetProgress(t *testing.T) {
	t.Run("spent_is_derived_from_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		month := "2025-06"
		budget := testutil.CreateTestBudget(t, db, user.ID, models.ExpenseCategoryFood, month, 50000)

		inMonth := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		outOfMonth := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 20000, inMonth)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 5000, inMonth)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 9999, outOfMonth)
		// Other categories never count against this budget.
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryBills, 7000, inMonth)

		progress, err := svc.GetBudgetProgress(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if progress.Spent != 25000 {
			t.Errorf("expected spent 25000, got %d", progress.Spent)
		}
		if progress.Remaining != 25000 {
			t.Errorf("expected remaining 25000, got %d", progress.Remaining)
		}
		if progress.Percentage != 50 {
			t.Errorf("expected 50%%, got %f", progress.Percentage)
		}
	})

	t.Run("overspend_goes_negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		budget := testutil.CreateTestBudget(t, db, user.ID, models.ExpenseCategoryFood, "2025-06", 10000)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 15000,
			time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))

		progress, err := svc.GetBudgetProgress(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if progress.Remaining != -5000 {
			t.Errorf("expected remaining -5000, got %d", progress.Remaining)
		}
		if progress.Percentage != 150 {
			t.Errorf("expected 150%%, got %f", progress.Percentage)
		}
	})

	t.Run("missing_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetBudgetProgress(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestGetUserBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestBudget(t, db, user.ID, models.ExpenseCategoryFood, "2025-06", 10000)
	testutil.CreateTestBudget(t, db, user.ID, models.ExpenseCategoryBills, "2025-07", 20000)
	testutil.CreateTestBudget(t, db, other.ID, models.ExpenseCategoryFood, "2025-06", 30000)

	page := pagination.PageRequest{Page: 1, PageSize: 20}

	result, err := svc.GetUserBudgets(user.ID, page, nil)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Errorf("expected 2 budgets, got %d", result.TotalItems)
	}

	month := "2025-06"
	result, err = svc.GetUserBudgets(user.ID, page, &month)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Errorf("expected 1 budget for June, got %d", result.TotalItems)
	}
}
