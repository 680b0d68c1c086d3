package services

import (
	"testing"
	"time"

	"stashly/internal/models"
	"stashly/internal/testutil"
)

func TestGenerateTips(t *testing.T) {
	t.Run("heavy_category_gets_reduction_tip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		// 120000 over 90 days averages 40000/month: above the 30000
		// high-confidence threshold, reduction capped at 5000.
		now := time.Now()
		for i := 0; i < 3; i++ {
			testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 40000, now)
		}

		tips, err := svc.GenerateTips(user.ID)
		testutil.AssertNoError(t, err)

		if len(tips) != 1 {
			t.Fatalf("expected 1 tip, got %d", len(tips))
		}
		tip := tips[0]
		if tip.RelatedCategory != models.ExpenseCategoryFood {
			t.Errorf("expected food tip, got %s", tip.RelatedCategory)
		}
		if tip.Confidence != 0.8 {
			t.Errorf("expected confidence 0.8, got %f", tip.Confidence)
		}
		if tip.SuggestedReduction != 5000 {
			t.Errorf("expected reduction capped at 5000, got %d", tip.SuggestedReduction)
		}
		if tip.ImpactYearly != 60000 {
			t.Errorf("expected yearly impact 60000, got %d", tip.ImpactYearly)
		}
	})

	t.Run("moderate_category_gets_lower_confidence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		// 75000 over 90 days averages 25000/month: over 20000 but under
		// the 30000 high-confidence threshold.
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryTransport, 75000, time.Now())

		tips, err := svc.GenerateTips(user.ID)
		testutil.AssertNoError(t, err)

		if len(tips) != 1 {
			t.Fatalf("expected 1 tip, got %d", len(tips))
		}
		if tips[0].Confidence != 0.6 {
			t.Errorf("expected confidence 0.6, got %f", tips[0].Confidence)
		}
		if tips[0].SuggestedReduction != 5000 {
			t.Errorf("expected 20%% reduction of 25000, got %d", tips[0].SuggestedReduction)
		}
	})

	t.Run("budget_overrun_tip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		month := now.Format(models.MonthKey)
		testutil.CreateTestBudget(t, db, user.ID, models.ExpenseCategoryBills, month, 10000)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryBills, 16000, now)

		tips, err := svc.GenerateTips(user.ID)
		testutil.AssertNoError(t, err)

		var found *models.Tip
		for i := range tips {
			if tips[i].ActionType == "budget_overrun" {
				found = &tips[i]
			}
		}
		if found == nil {
			t.Fatal("expected a budget overrun tip")
		}
		if found.Confidence != 0.9 {
			t.Errorf("expected confidence 0.9, got %f", found.Confidence)
		}
		if found.SuggestedReduction != 6000 {
			t.Errorf("expected overrun 6000, got %d", found.SuggestedReduction)
		}
	})

	t.Run("ranked_and_capped_at_five", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		// Every category over threshold yields eight candidate tips.
		now := time.Now()
		for _, category := range models.ExpenseCategories {
			testutil.CreateTestExpense(t, db, user.ID, category, 90000, now)
		}

		tips, err := svc.GenerateTips(user.ID)
		testutil.AssertNoError(t, err)

		if len(tips) != 5 {
			t.Fatalf("expected 5 tips, got %d", len(tips))
		}
		for i := 1; i < len(tips); i++ {
			prev := tips[i-1].Confidence * float64(tips[i-1].ImpactYearly)
			curr := tips[i].Confidence * float64(tips[i].ImpactYearly)
			if curr > prev {
				t.Errorf("tips not ranked: score %f follows %f", curr, prev)
			}
		}

		var stored int64
		db.Model(&models.Tip{}).Where("user_id = ?", user.ID).Count(&stored)
		if stored != 5 {
			t.Errorf("expected 5 stored tips, got %d", stored)
		}
	})

	t.Run("regeneration_replaces_stored_set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 90000, time.Now())

		first, err := svc.GenerateTips(user.ID)
		testutil.AssertNoError(t, err)
		if len(first) != 1 {
			t.Fatalf("expected 1 tip, got %d", len(first))
		}

		second, err := svc.GenerateTips(user.ID)
		testutil.AssertNoError(t, err)
		if len(second) != 1 {
			t.Fatalf("expected 1 tip after regeneration, got %d", len(second))
		}

		var stored int64
		db.Unscoped().Model(&models.Tip{}).Where("user_id = ? AND deleted_at IS NULL", user.ID).Count(&stored)
		if stored != 1 {
			t.Errorf("expected old tips hard-deleted, got %d live rows", stored)
		}
	})
}

func TestGenerateAdvice(t *testing.T) {
	t.Run("low_savings_rate_flagged_high", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		month := now.Format(models.MonthKey)
		testutil.CreateTestIncome(t, db, user.ID, month, 200000)
		// Saving 5% of income.
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryOther, 190000, now)

		advice, err := svc.GenerateAdvice(user.ID, true)
		testutil.AssertNoError(t, err)

		var boost *models.Advice
		for i := range advice {
			if advice[i].Type == "boost_savings" {
				boost = &advice[i]
			}
		}
		if boost == nil {
			t.Fatal("expected boost_savings advice")
		}
		if boost.Priority != models.AdvicePriorityHigh {
			t.Errorf("expected high priority under 10%% rate, got %s", boost.Priority)
		}
		// Potential is the gap to a 20% savings rate.
		if boost.MonthlySavings != 30000 {
			t.Errorf("expected monthly savings 30000, got %d", boost.MonthlySavings)
		}
	})

	t.Run("category_benchmark_flagged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		month := now.Format(models.MonthKey)
		testutil.CreateTestIncome(t, db, user.ID, month, 200000)
		// Food benchmark is 15% of income (30000); double it.
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 70000, now)

		advice, err := svc.GenerateAdvice(user.ID, true)
		testutil.AssertNoError(t, err)

		var benchmark *models.Advice
		for i := range advice {
			if advice[i].Type == "category_benchmark" {
				benchmark = &advice[i]
			}
		}
		if benchmark == nil {
			t.Fatal("expected category_benchmark advice")
		}
		if benchmark.Priority != models.AdvicePriorityHigh {
			t.Errorf("expected high priority above double benchmark, got %s", benchmark.Priority)
		}
		if benchmark.RelatedCategory == nil || *benchmark.RelatedCategory != models.ExpenseCategoryFood {
			t.Error("expected advice related to food category")
		}
	})

	t.Run("budget_overrun_advice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		month := now.Format(models.MonthKey)
		testutil.CreateTestBudget(t, db, user.ID, models.ExpenseCategoryShopping, month, 10000)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryShopping, 14000, now)

		advice, err := svc.GenerateAdvice(user.ID, true)
		testutil.AssertNoError(t, err)

		var overrun *models.Advice
		for i := range advice {
			if advice[i].Type == "budget_overrun" {
				overrun = &advice[i]
			}
		}
		if overrun == nil {
			t.Fatal("expected budget_overrun advice")
		}
		if overrun.MonthlySavings != 4000 {
			t.Errorf("expected monthly savings 4000, got %d", overrun.MonthlySavings)
		}
	})

	t.Run("goal_shortfall_advice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		// 1200000 remaining over ~12 months needs ~100000/month; with no
		// income the full requirement is a high-priority shortfall.
		testutil.CreateTestGoal(t, db, user.ID, 1200000)

		advice, err := svc.GenerateAdvice(user.ID, true)
		testutil.AssertNoError(t, err)

		var shortfall *models.Advice
		for i := range advice {
			if advice[i].Type == "goal_shortfall" {
				shortfall = &advice[i]
			}
		}
		if shortfall == nil {
			t.Fatal("expected goal_shortfall advice")
		}
		if shortfall.Priority != models.AdvicePriorityHigh {
			t.Errorf("expected high priority with nothing available, got %s", shortfall.Priority)
		}
	})

	t.Run("ordered_by_priority_then_savings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		month := now.Format(models.MonthKey)
		testutil.CreateTestIncome(t, db, user.ID, month, 200000)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 70000, now)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryOther, 120000, now)
		testutil.CreateTestBudget(t, db, user.ID, models.ExpenseCategoryFood, month, 50000)

		advice, err := svc.GenerateAdvice(user.ID, true)
		testutil.AssertNoError(t, err)

		for i := 1; i < len(advice); i++ {
			prev, curr := advice[i-1], advice[i]
			if curr.Priority.Weight() > prev.Priority.Weight() {
				t.Errorf("advice not ordered by priority: %s follows %s", curr.Priority, prev.Priority)
			}
			if curr.Priority.Weight() == prev.Priority.Weight() && curr.YearlySavings > prev.YearlySavings {
				t.Errorf("ties not ordered by yearly savings: %d follows %d",
					curr.YearlySavings, prev.YearlySavings)
			}
		}
		if len(advice) > 5 {
			t.Errorf("expected at most 5 advice items, got %d", len(advice))
		}
	})

	t.Run("fresh_advice_is_served_from_cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdvisorService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		month := now.Format(models.MonthKey)
		income := testutil.CreateTestIncome(t, db, user.ID, month, 200000)
		testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryOther, 190000, now)

		first, err := svc.GenerateAdvice(user.ID, false)
		testutil.AssertNoError(t, err)
		if len(first) == 0 {
			t.Fatal("expected advice on first generation")
		}

		// Remove the income: a regeneration would now produce nothing, so
		// a non-empty result proves the cache was served.
		if err := db.Unscoped().Delete(income).Error; err != nil {
			t.Fatalf("failed to delete income: %v", err)
		}

		cached, err := svc.GenerateAdvice(user.ID, false)
		testutil.AssertNoError(t, err)
		if len(cached) == 0 {
			t.Fatal("expected cached advice within the hour")
		}

		forced, err := svc.GenerateAdvice(user.ID, true)
		testutil.AssertNoError(t, err)
		if len(forced) != 0 {
			t.Errorf("expected forced regeneration to reflect current data, got %d items", len(forced))
		}
	})
}

func TestGetTips(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAdvisorService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryFood, 90000, time.Now())
	testutil.CreateTestExpense(t, db, user.ID, models.ExpenseCategoryBills, 70000, time.Now())

	generated, err := svc.GenerateTips(user.ID)
	testutil.AssertNoError(t, err)

	fetched, err := svc.GetTips(user.ID)
	testutil.AssertNoError(t, err)

	if len(fetched) != len(generated) {
		t.Fatalf("expected %d tips, got %d", len(generated), len(fetched))
	}
	for i := range fetched {
		if fetched[i].ID != generated[i].ID {
			t.Errorf("tip order mismatch at %d", i)
		}
	}
}

func TestMonthsUntil(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	if got := monthsUntil(now, now.AddDate(0, 0, 90)); got != 3 {
		t.Errorf("expected 3 months for 90 days, got %d", got)
	}
	if got := monthsUntil(now, now.AddDate(0, 0, 1)); got != 1 {
		t.Errorf("expected minimum 1 month, got %d", got)
	}
	if got := monthsUntil(now, now.AddDate(0, 0, -30)); got != 1 {
		t.Errorf("expected past deadlines to clamp to 1 month, got %d", got)
	}
}
