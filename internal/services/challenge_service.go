package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "stashly/internal/errors"
	"stashly/internal/models"
	"stashly/internal/pagination"
)

// challengeService evaluates savings challenges against the expense and
// saving-activity history.
type challengeService struct {
	db *gorm.DB
}

// NewChallengeService creates a new ChallengeServicer.
func NewChallengeService(db *gorm.DB) ChallengeServicer {
	return &challengeService{db: db}
}

// CreateChallenge stores a new challenge. Status and progress are taken as
// given (a fresh challenge starts active at zero); nothing is derived here.
func (s *challengeService) CreateChallenge(userID string, input ChallengeInput) (*models.Challenge, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after start date")
	}

	switch input.Type {
	case models.ChallengeSaveAmount, models.ChallengeExpenseLimit:
		if input.TargetAmount == nil || *input.TargetAmount <= 0 {
			return nil, apperrors.ErrChallengeTarget
		}
	case models.ChallengeReduceCategory:
		if input.Category == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "reduce_category challenge requires a category")
		}
		if input.TargetReduction == nil || *input.TargetReduction <= 0 {
			return nil, apperrors.ErrChallengeTarget
		}
	case models.ChallengeNoSpendWeekend:
		// No target; the challenge is binary.
	}

	challenge := &models.Challenge{
		UserID:          userID,
		Name:            input.Name,
		Description:     input.Description,
		Type:            input.Type,
		Category:        input.Category,
		TargetAmount:    input.TargetAmount,
		TargetReduction: input.TargetReduction,
		StartDate:       startOfDay(input.StartDate),
		EndDate:         endOfDay(input.EndDate),
		Status:          models.ChallengeStatusActive,
	}

	if err := s.db.Create(challenge).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return challenge, nil
}

// GetUserChallenges returns a paginated list of challenges, optionally
// filtered by status.
func (s *challengeService) GetUserChallenges(
	userID string,
	page pagination.PageRequest,
	status *models.ChallengeStatus,
) (*pagination.PageResponse[models.Challenge], error) {
	page.Defaults()

	base := s.db.Model(&models.Challenge{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var challenges []models.Challenge
	if err := base.Order("end_date ASC").Scopes(pagination.Paginate(page)).Find(&challenges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(challenges, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetChallengeByID returns a challenge by ID if it belongs to the user.
func (s *challengeService) GetChallengeByID(userID, challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := s.db.Where("id = ? AND user_id = ?", challengeID, userID).First(&challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &challenge, nil
}

// EvaluateChallenges recomputes progress for every active challenge and
// applies the one-way status transitions: past the deadline a challenge
// completes at progress 100 or fails, and before the deadline it completes
// early at 100. Terminal challenges are never touched again.
func (s *challengeService) EvaluateChallenges(userID string) ([]models.Challenge, error) {
	var active []models.Challenge
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.ChallengeStatusActive).
		Find(&active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	evaluated := make([]models.Challenge, 0, len(active))

	for i := range active {
		challenge := &active[i]

		progress, err := s.challengeProgress(userID, challenge)
		if err != nil {
			return nil, err
		}
		challenge.Progress = progress

		if now.After(challenge.EndDate) {
			if progress >= 100 {
				challenge.Status = models.ChallengeStatusCompleted
			} else {
				challenge.Status = models.ChallengeStatusFailed
			}
		} else if progress >= 100 {
			challenge.Status = models.ChallengeStatusCompleted
		}

		if err := s.db.Model(challenge).
			Updates(map[string]interface{}{"progress": challenge.Progress, "status": challenge.Status}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		evaluated = append(evaluated, *challenge)
	}

	return evaluated, nil
}

// challengeProgress computes the 0-100 score for one challenge. The switch
// is exhaustive over the closed challenge type set.
func (s *challengeService) challengeProgress(userID string, challenge *models.Challenge) (float64, error) {
	var progress float64
	var err error

	switch challenge.Type {
	case models.ChallengeNoSpendWeekend:
		progress, err = s.noSpendWeekendProgress(userID, challenge)
	case models.ChallengeReduceCategory:
		progress, err = s.reduceCategoryProgress(userID, challenge)
	case models.ChallengeSaveAmount:
		progress, err = s.saveAmountProgress(userID, challenge)
	case models.ChallengeExpenseLimit:
		progress, err = s.expenseLimitProgress(userID, challenge)
	default:
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown challenge type")
	}
	if err != nil {
		return 0, err
	}

	return clampProgress(progress), nil
}

// noSpendWeekendProgress is binary: 100 when no expense in the window falls
// on a Saturday or Sunday, otherwise 0. There is no partial credit.
func (s *challengeService) noSpendWeekendProgress(userID string, challenge *models.Challenge) (float64, error) {
	var dates []time.Time
	if err := s.db.Model(&models.Expense{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, challenge.StartDate, challenge.EndDate).
		Pluck("date", &dates).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, d := range dates {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			return 0, nil
		}
	}
	return 100, nil
}

// reduceCategoryProgress compares window spend in the challenge category
// against the monthly average over the 90 days preceding the window. A zero
// historical average yields zero progress: with no prior spending there is
// no baseline to reduce against.
func (s *challengeService) reduceCategoryProgress(userID string, challenge *models.Challenge) (float64, error) {
	if challenge.Category == nil || challenge.TargetReduction == nil || *challenge.TargetReduction <= 0 {
		return 0, nil
	}

	windowSpend, err := sumExpenses(s.db, userID, challenge.Category, challenge.StartDate, challenge.EndDate)
	if err != nil {
		return 0, err
	}

	histStart := challenge.StartDate.AddDate(0, 0, -90)
	histEnd := challenge.StartDate.Add(-time.Nanosecond)
	histTotal, err := sumExpenses(s.db, userID, challenge.Category, histStart, histEnd)
	if err != nil {
		return 0, err
	}

	historicalAvg := float64(histTotal) / 3
	if historicalAvg == 0 {
		return 0, nil
	}

	reductionAchieved := (historicalAvg - float64(windowSpend)) / historicalAvg * 100
	return reductionAchieved / *challenge.TargetReduction * 100, nil
}

// saveAmountProgress measures positive net savings in the window against
// the target amount.
func (s *challengeService) saveAmountProgress(userID string, challenge *models.Challenge) (float64, error) {
	if challenge.TargetAmount == nil || *challenge.TargetAmount <= 0 {
		return 0, nil
	}

	var saved int64
	if err := s.db.Model(&models.SavingActivity{}).
		Select("COALESCE(SUM(net_savings), 0)").
		Where("user_id = ? AND net_savings > 0 AND day BETWEEN ? AND ?",
			userID,
			challenge.StartDate.Format(models.DateOnly),
			challenge.EndDate.Format(models.DateOnly)).
		Scan(&saved).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return float64(saved) / float64(*challenge.TargetAmount) * 100, nil
}

// expenseLimitProgress is 100 at or under the limit and degrades linearly
// past it: double the limit scores zero.
func (s *challengeService) expenseLimitProgress(userID string, challenge *models.Challenge) (float64, error) {
	if challenge.TargetAmount == nil || *challenge.TargetAmount <= 0 {
		return 0, nil
	}

	spend, err := sumExpenses(s.db, userID, nil, challenge.StartDate, challenge.EndDate)
	if err != nil {
		return 0, err
	}

	target := float64(*challenge.TargetAmount)
	if float64(spend) <= target {
		return 100, nil
	}
	return 100 - (float64(spend)-target)/target*100, nil
}

// clampProgress bounds a progress score to [0, 100].
func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
