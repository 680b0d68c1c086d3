package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "stashly/internal/errors"
	"stashly/internal/models"
	"stashly/internal/pagination"
)

// incomeService handles monthly-income business logic.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

// CreateIncome records an income source for a month.
func (s *incomeService) CreateIncome(userID string, amount int64, source, month string, isRecurring bool) (*models.MonthlyIncome, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	income := &models.MonthlyIncome{
		UserID:      userID,
		Amount:      amount,
		Source:      source,
		Month:       month,
		IsRecurring: isRecurring,
	}

	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return income, nil
}

// GetUserIncomes returns a paginated list of income records, optionally for one month.
func (s *incomeService) GetUserIncomes(
	userID string,
	page pagination.PageRequest,
	month *string,
) (*pagination.PageResponse[models.MonthlyIncome], error) {
	page.Defaults()

	base := s.db.Model(&models.MonthlyIncome{}).Where("user_id = ?", userID)
	if month != nil {
		base = base.Where("month = ?", *month)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.MonthlyIncome
	if err := base.Order("month DESC").Scopes(pagination.Paginate(page)).Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetIncomeByID returns an income record by ID if it belongs to the user.
func (s *incomeService) GetIncomeByID(userID, incomeID string) (*models.MonthlyIncome, error) {
	var income models.MonthlyIncome
	if err := s.db.Where("id = ? AND user_id = ?", incomeID, userID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// DeleteIncome soft-deletes an income record.
func (s *incomeService) DeleteIncome(userID, incomeID string) error {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(income).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// MonthlyTotal sums all income recorded for the given month.
func (s *incomeService) MonthlyTotal(userID, month string) (int64, error) {
	var total int64
	err := s.db.Model(&models.MonthlyIncome{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND month = ?", userID, month).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
