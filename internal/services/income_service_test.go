package services

import (
	"testing"

	"stashly/internal/pagination"
	"stashly/internal/testutil"
)

func TestCreateIncome(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewIncomeService(db)
		user := testutil.CreateTestUser(t, db)

		income, err := svc.CreateIncome(user.ID, 300000, "Salary", "2025-06", true)
		testutil.AssertNoError(t, err)

		if income.ID == "" {
			t.Fatal("expected non-empty income ID")
		}
		if !income.IsRecurring {
			t.Error("expected recurring income")
		}
	})

	t.Run("non_positive_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewIncomeService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateIncome(user.ID, -100, "Refund", "2025-06", false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestMonthlyTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewIncomeService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestIncome(t, db, user.ID, "2025-06", 300000)
	testutil.CreateTestIncome(t, db, user.ID, "2025-06", 50000)
	testutil.CreateTestIncome(t, db, user.ID, "2025-07", 70000)

	total, err := svc.MonthlyTotal(user.ID, "2025-06")
	testutil.AssertNoError(t, err)
	if total != 350000 {
		t.Errorf("expected 350000 for June, got %d", total)
	}

	total, err = svc.MonthlyTotal(user.ID, "2025-05")
	testutil.AssertNoError(t, err)
	if total != 0 {
		t.Errorf("expected 0 for empty month, got %d", total)
	}
}

func TestGetUserIncomes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewIncomeService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestIncome(t, db, user.ID, "2025-06", 300000)
	testutil.CreateTestIncome(t, db, user.ID, "2025-07", 300000)

	page := pagination.PageRequest{Page: 1, PageSize: 20}
	month := "2025-07"
	result, err := svc.GetUserIncomes(user.ID, page, &month)
	testutil.AssertNoError(t, err)

	if result.TotalItems != 1 {
		t.Errorf("expected 1 income for July, got %d", result.TotalItems)
	}
}
