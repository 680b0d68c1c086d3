package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "stashly/internal/errors"
	"stashly/internal/models"
	"stashly/internal/pagination"
)

// streakBadgeThresholds are the streak lengths, in days, that earn a badge.
var streakBadgeThresholds = []int{7, 14, 30, 60, 100}

// streakService tracks saving days, consecutive-day streaks, and the badges
// they earn.
type streakService struct {
	db *gorm.DB
}

// NewStreakService creates a new StreakServicer.
func NewStreakService(db *gorm.DB) StreakServicer {
	return &streakService{db: db}
}

// RecordSavingActivity appends one activity row dated today and applies its
// goal contributions. When the day qualifies as a saving day (positive net
// savings or a manual override) the streak is recomputed and badge
// thresholds are checked. Recording twice on the same day does not extend
// the streak: the day set is deduplicated by a unique index.
func (s *streakService) RecordSavingActivity(
	userID string,
	netSavings int64,
	isManualSavingDay bool,
	contributions []ContributionInput,
) (*SavingResult, error) {
	result := &SavingResult{NewBadges: []models.Badge{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		today := time.Now()

		activity := &models.SavingActivity{
			UserID:            userID,
			Day:               today.Format(models.DateOnly),
			NetSavings:        netSavings,
			IsManualSavingDay: isManualSavingDay,
		}
		if err := tx.Create(activity).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for _, c := range contributions {
			if c.Amount <= 0 {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be positive")
			}

			var goal models.SavingsGoal
			if err := tx.Where("id = ? AND user_id = ?", c.GoalID, userID).First(&goal).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.ErrGoalNotFound
				}
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			contribution := &models.GoalContribution{
				ActivityID: activity.ID,
				GoalID:     goal.ID,
				Amount:     c.Amount,
			}
			if err := tx.Create(contribution).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			if err := tx.Model(&goal).
				Update("current_amount", gorm.Expr("current_amount + ?", c.Amount)).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		result.Activity = activity

		if netSavings > 0 || isManualSavingDay {
			streak, badges, err := s.refreshStreak(tx, userID, today)
			if err != nil {
				return err
			}
			result.Streak = streak
			result.NewBadges = badges
			return nil
		}

		// Not a saving day; report the streak as stored.
		streak, err := loadStreak(tx, userID)
		if err != nil {
			return err
		}
		result.Streak = streak
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetStreak returns the stored streak summary. Reads never recompute.
func (s *streakService) GetStreak(userID string) (*models.UserStreak, error) {
	return loadStreak(s.db, userID)
}

// GetUserBadges returns a paginated list of the user's badges, most recent first.
func (s *streakService) GetUserBadges(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Badge], error) {
	page.Defaults()

	base := s.db.Model(&models.Badge{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var badges []models.Badge
	if err := base.Order("earned_at DESC").Scopes(pagination.Paginate(page)).Find(&badges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(badges, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// refreshStreak marks today as a saving day, recomputes the streak from the
// stored day set, and awards any newly reached streak badges.
func (s *streakService) refreshStreak(tx *gorm.DB, userID string, today time.Time) (*models.UserStreak, []models.Badge, error) {
	day := today.Format(models.DateOnly)

	dayRow := models.StreakDay{UserID: userID, Day: day}
	if err := tx.Where("user_id = ? AND day = ?", userID, day).FirstOrCreate(&dayRow).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var days []string
	if err := tx.Model(&models.StreakDay{}).
		Where("user_id = ?", userID).
		Order("day DESC").
		Pluck("day", &days).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	current := consecutiveRun(days, today)

	streak, err := loadStreak(tx, userID)
	if err != nil {
		return nil, nil, err
	}
	streak.CurrentStreak = current
	if current > streak.LongestStreak {
		streak.LongestStreak = current
	}
	streak.LastSavingDay = day
	if err := tx.Save(streak).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	newBadges, err := awardStreakBadges(tx, userID, current, today)
	if err != nil {
		return nil, nil, err
	}

	return streak, newBadges, nil
}

// consecutiveRun walks saving days in descending order and counts the run
// ending at or adjacent to now. The run starts only if the newest day is
// within one day of now and extends only across exact one-day steps.
func consecutiveRun(days []string, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	newest, err := time.ParseInLocation(models.DateOnly, days[0], now.Location())
	if err != nil {
		return 0
	}
	if daysBetween(newest, now) > 1 {
		return 0
	}

	run := 1
	prev := newest
	for _, d := range days[1:] {
		current, err := time.ParseInLocation(models.DateOnly, d, now.Location())
		if err != nil {
			break
		}
		if daysBetween(current, prev) != 1 {
			break
		}
		run++
		prev = current
	}
	return run
}

// awardStreakBadges grants each reached threshold badge at most once. The
// fixed badge code makes the insert idempotent.
func awardStreakBadges(tx *gorm.DB, userID string, currentStreak int, now time.Time) ([]models.Badge, error) {
	newBadges := []models.Badge{}

	for _, threshold := range streakBadgeThresholds {
		if currentStreak < threshold {
			continue
		}

		code := fmt.Sprintf("streak_%d", threshold)

		var count int64
		if err := tx.Model(&models.Badge{}).
			Where("user_id = ? AND code = ?", userID, code).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}

		badge := models.Badge{
			UserID:      userID,
			Code:        code,
			Name:        fmt.Sprintf("%d-Day Streak", threshold),
			Description: fmt.Sprintf("Saved money %d days in a row", threshold),
			Icon:        "🔥",
			Category:    models.BadgeCategoryStreak,
			Requirement: fmt.Sprintf("Reach a %d-day saving streak", threshold),
			EarnedAt:    now,
		}
		if err := tx.Create(&badge).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		newBadges = append(newBadges, badge)
	}

	return newBadges, nil
}

// loadStreak fetches the user's streak row, or an unsaved zero-value
// summary when none exists yet.
func loadStreak(tx *gorm.DB, userID string) (*models.UserStreak, error) {
	var streak models.UserStreak
	if err := tx.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.UserStreak{UserID: userID}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &streak, nil
}
