package services

import (
	"testing"
	"time"

	"stashly/internal/models"
	"stashly/internal/testutil"
)

func TestRecordSavingActivity(t *testing.T) {
	t.Run("positive_savings_starts_streak", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		result, err := svc.RecordSavingActivity(user.ID, 5000, false, nil)
		testutil.AssertNoError(t, err)

		if result.Activity.NetSavings != 5000 {
			t.Errorf("expected net savings 5000, got %d", result.Activity.NetSavings)
		}
		if result.Streak.CurrentStreak != 1 {
			t.Errorf("expected streak 1, got %d", result.Streak.CurrentStreak)
		}
		if len(result.NewBadges) != 0 {
			t.Errorf("expected no badges for a 1-day streak, got %d", len(result.NewBadges))
		}
	})

	t.Run("same_day_does_not_extend_streak", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.RecordSavingActivity(user.ID, 5000, false, nil)
		testutil.AssertNoError(t, err)
		second, err := svc.RecordSavingActivity(user.ID, 3000, false, nil)
		testutil.AssertNoError(t, err)

		if second.Streak.CurrentStreak != first.Streak.CurrentStreak {
			t.Errorf("expected streak unchanged at %d, got %d",
				first.Streak.CurrentStreak, second.Streak.CurrentStreak)
		}

		var activities int64
		db.Model(&models.SavingActivity{}).Where("user_id = ?", user.ID).Count(&activities)
		if activities != 2 {
			t.Errorf("expected 2 activity rows, got %d", activities)
		}
	})

	t.Run("consecutive_days_extend_streak", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		for i := 1; i <= 3; i++ {
			testutil.CreateTestStreakDay(t, db, user.ID, now.AddDate(0, 0, -i))
		}

		result, err := svc.RecordSavingActivity(user.ID, 1000, false, nil)
		testutil.AssertNoError(t, err)

		if result.Streak.CurrentStreak != 4 {
			t.Errorf("expected streak 4, got %d", result.Streak.CurrentStreak)
		}
		if result.Streak.LongestStreak != 4 {
			t.Errorf("expected longest streak 4, got %d", result.Streak.LongestStreak)
		}
	})

	t.Run("gap_resets_streak", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		testutil.CreateTestStreakDay(t, db, user.ID, now.AddDate(0, 0, -3))
		testutil.CreateTestStreakDay(t, db, user.ID, now.AddDate(0, 0, -4))

		result, err := svc.RecordSavingActivity(user.ID, 1000, false, nil)
		testutil.AssertNoError(t, err)

		if result.Streak.CurrentStreak != 1 {
			t.Errorf("expected streak reset to 1, got %d", result.Streak.CurrentStreak)
		}
	})

	t.Run("non_saving_day_leaves_streak_alone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		result, err := svc.RecordSavingActivity(user.ID, -2000, false, nil)
		testutil.AssertNoError(t, err)

		if result.Streak.CurrentStreak != 0 {
			t.Errorf("expected streak 0, got %d", result.Streak.CurrentStreak)
		}

		var days int64
		db.Model(&models.StreakDay{}).Where("user_id = ?", user.ID).Count(&days)
		if days != 0 {
			t.Errorf("expected no streak day, got %d", days)
		}
	})

	t.Run("manual_override_counts_as_saving_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		result, err := svc.RecordSavingActivity(user.ID, 0, true, nil)
		testutil.AssertNoError(t, err)

		if result.Streak.CurrentStreak != 1 {
			t.Errorf("expected streak 1 from manual override, got %d", result.Streak.CurrentStreak)
		}
	})

	t.Run("contribution_increments_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 100000)

		_, err := svc.RecordSavingActivity(user.ID, 5000, false, []ContributionInput{
			{GoalID: goal.ID, Amount: 5000},
		})
		testutil.AssertNoError(t, err)

		var updated models.SavingsGoal
		db.First(&updated, "id = ?", goal.ID)
		if updated.CurrentAmount != 5000 {
			t.Errorf("expected current amount 5000, got %d", updated.CurrentAmount)
		}
	})

	t.Run("contribution_to_foreign_goal_fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, other.ID, 100000)

		_, err := svc.RecordSavingActivity(user.ID, 5000, false, []ContributionInput{
			{GoalID: goal.ID, Amount: 5000},
		})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")

		// The whole transaction rolls back, including the activity row.
		var activities int64
		db.Model(&models.SavingActivity{}).Where("user_id = ?", user.ID).Count(&activities)
		if activities != 0 {
			t.Errorf("expected rollback to remove activity, got %d rows", activities)
		}
	})
}

func TestStreakBadges(t *testing.T) {
	t.Run("seven_day_streak_earns_badge", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		for i := 1; i <= 6; i++ {
			testutil.CreateTestStreakDay(t, db, user.ID, now.AddDate(0, 0, -i))
		}

		result, err := svc.RecordSavingActivity(user.ID, 1000, false, nil)
		testutil.AssertNoError(t, err)

		if result.Streak.CurrentStreak != 7 {
			t.Fatalf("expected streak 7, got %d", result.Streak.CurrentStreak)
		}
		if len(result.NewBadges) != 1 {
			t.Fatalf("expected 1 new badge, got %d", len(result.NewBadges))
		}
		if result.NewBadges[0].Code != "streak_7" {
			t.Errorf("expected badge code streak_7, got %s", result.NewBadges[0].Code)
		}
	})

	t.Run("badge_awarded_only_once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		for i := 1; i <= 6; i++ {
			testutil.CreateTestStreakDay(t, db, user.ID, now.AddDate(0, 0, -i))
		}

		first, err := svc.RecordSavingActivity(user.ID, 1000, false, nil)
		testutil.AssertNoError(t, err)
		if len(first.NewBadges) != 1 {
			t.Fatalf("expected 1 new badge, got %d", len(first.NewBadges))
		}

		second, err := svc.RecordSavingActivity(user.ID, 1000, false, nil)
		testutil.AssertNoError(t, err)
		if len(second.NewBadges) != 0 {
			t.Errorf("expected no badges on re-record, got %d", len(second.NewBadges))
		}

		var badges int64
		db.Model(&models.Badge{}).Where("user_id = ?", user.ID).Count(&badges)
		if badges != 1 {
			t.Errorf("expected exactly 1 badge row, got %d", badges)
		}
	})

	t.Run("long_run_awards_all_reached_thresholds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		for i := 1; i <= 14; i++ {
			testutil.CreateTestStreakDay(t, db, user.ID, now.AddDate(0, 0, -i))
		}

		result, err := svc.RecordSavingActivity(user.ID, 1000, false, nil)
		testutil.AssertNoError(t, err)

		if result.Streak.CurrentStreak != 15 {
			t.Fatalf("expected streak 15, got %d", result.Streak.CurrentStreak)
		}
		if len(result.NewBadges) != 2 {
			t.Fatalf("expected streak_7 and streak_14 badges, got %d", len(result.NewBadges))
		}
	})
}

func TestGetStreak(t *testing.T) {
	t.Run("empty_streak_for_new_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		streak, err := svc.GetStreak(user.ID)
		testutil.AssertNoError(t, err)

		if streak.CurrentStreak != 0 || streak.LongestStreak != 0 {
			t.Errorf("expected zero streak, got current=%d longest=%d",
				streak.CurrentStreak, streak.LongestStreak)
		}
	})

	t.Run("read_does_not_recompute", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStreakService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.RecordSavingActivity(user.ID, 1000, false, nil)
		testutil.AssertNoError(t, err)

		// Adding a bare streak day does not change the stored summary
		// until the next recorded activity.
		testutil.CreateTestStreakDay(t, db, user.ID, time.Now().AddDate(0, 0, -1))

		streak, err := svc.GetStreak(user.ID)
		testutil.AssertNoError(t, err)
		if streak.CurrentStreak != 1 {
			t.Errorf("expected stored streak 1, got %d", streak.CurrentStreak)
		}
	})
}

func TestConsecutiveRun(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		days []string
		want int
	}{
		{"empty", nil, 0},
		{"today_only", []string{"2025-06-15"}, 1},
		{"ends_yesterday", []string{"2025-06-14", "2025-06-13"}, 2},
		{"stale_run", []string{"2025-06-10", "2025-06-09"}, 0},
		{"broken_run", []string{"2025-06-15", "2025-06-14", "2025-06-11"}, 2},
		{"full_week", []string{
			"2025-06-15", "2025-06-14", "2025-06-13", "2025-06-12",
			"2025-06-11", "2025-06-10", "2025-06-09",
		}, 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := consecutiveRun(tc.days, now); got != tc.want {
				t.Errorf("expected run %d, got %d", tc.want, got)
			}
		})
	}
}
