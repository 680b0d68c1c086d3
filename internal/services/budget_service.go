package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "stashly/internal/errors"
	"stashly/internal/models"
	"stashly/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a budget for a category and month. Uniqueness per
// (category, month) is enforced here, not left to the caller.
func (s *budgetService) CreateBudget(
	userID string,
	category models.ExpenseCategory,
	month string,
	monthlyLimit int64,
) (*models.Budget, error) {
	if monthlyLimit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly limit must be positive")
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category = ? AND month = ?", userID, category, month).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.Budget{
		UserID:       userID,
		Category:     category,
		Month:        month,
		MonthlyLimit: monthlyLimit,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets, optionally for one month.
func (s *budgetService) GetUserBudgets(
	userID string,
	page pagination.PageRequest,
	month *string,
) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if month != nil {
		base = base.Where("month = ?", *month)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("month DESC, category ASC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's monthly limit.
func (s *budgetService) UpdateBudget(userID, budgetID string, monthlyLimit *int64) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if monthlyLimit != nil {
		if *monthlyLimit <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly limit must be positive")
		}
		if err := s.db.Model(budget).Update("monthly_limit", *monthlyLimit).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress recomputes spending vs limit from the expenses of the
// budget's month and category. Spent is always derived, never stored.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	from, to := monthWindow(budget.Month)
	spent, err := sumExpenses(s.db, userID, &budget.Category, from, to)
	if err != nil {
		return nil, err
	}

	remaining := budget.MonthlyLimit - spent
	var percentage float64
	if budget.MonthlyLimit > 0 {
		percentage = float64(spent) / float64(budget.MonthlyLimit) * 100
	}

	return &BudgetProgress{
		BudgetID:     budget.ID,
		Category:     budget.Category,
		Month:        budget.Month,
		MonthlyLimit: budget.MonthlyLimit,
		Spent:        spent,
		Remaining:    remaining,
		Percentage:   percentage,
	}, nil
}
