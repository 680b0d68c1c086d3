package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "stashly/internal/errors"
	"stashly/internal/logger"
	"stashly/internal/models"
)

const (
	// adviceCacheTTL is how long a generated advice set stays fresh.
	adviceCacheTTL = time.Hour
	// adviceStoreCap is the most advice rows kept per user.
	adviceStoreCap = 10
	// adviceSurfaceCount and tipSurfaceCount are how many items callers see.
	adviceSurfaceCount = 5
	tipSurfaceCount    = 5
)

// categoryBenchmarks are the "normal" spending fractions of income per
// category. Categories not listed use the default.
var categoryBenchmarks = map[models.ExpenseCategory]float64{
	models.ExpenseCategoryFood:      0.15,
	models.ExpenseCategoryTransport: 0.15,
	models.ExpenseCategoryBills:     0.25,
}

const defaultBenchmark = 0.05

// advisorService derives tips and advice from spending aggregates. Both
// generators are deterministic rule engines; the "AI" in the product name
// never calls a model.
type advisorService struct {
	db *gorm.DB
}

// NewAdvisorService creates a new AdvisorServicer.
func NewAdvisorService(db *gorm.DB) AdvisorServicer {
	return &advisorService{db: db}
}

// GenerateTips runs the four tip heuristics, ranks the results by
// confidence times yearly impact, and replaces the stored tip set with the
// top five.
func (s *advisorService) GenerateTips(userID string) ([]models.Tip, error) {
	now := time.Now()

	// Monthly averages over the trailing 90 days.
	avgStart := now.AddDate(0, 0, -90)
	categoryTotals, err := s.categoryTotals(userID, avgStart, now)
	if err != nil {
		return nil, err
	}

	var monthlySpend int64
	categoryAvgs := make(map[models.ExpenseCategory]int64, len(categoryTotals))
	for category, total := range categoryTotals {
		avg := total / 3
		categoryAvgs[category] = avg
		monthlySpend += avg
	}

	var tips []models.Tip
	tips = append(tips, categoryTips(userID, categoryAvgs)...)

	budgetTips, err := s.budgetOverrunTips(userID, now)
	if err != nil {
		return nil, err
	}
	tips = append(tips, budgetTips...)

	goalTips, err := s.goalTips(userID, now, monthlySpend)
	if err != nil {
		return nil, err
	}
	tips = append(tips, goalTips...)

	trendTip, err := s.trendTip(userID, now)
	if err != nil {
		return nil, err
	}
	if trendTip != nil {
		tips = append(tips, *trendTip)
	}

	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Confidence*float64(tips[i].ImpactYearly) > tips[j].Confidence*float64(tips[j].ImpactYearly)
	})
	if len(tips) > tipSurfaceCount {
		tips = tips[:tipSurfaceCount]
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Tips are ephemeral: each generation replaces the set wholesale.
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Tip{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range tips {
			if err := tx.Create(&tips[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tips, nil
}

// GetTips returns the stored tips in ranked order.
func (s *advisorService) GetTips(userID string) ([]models.Tip, error) {
	var tips []models.Tip
	if err := s.db.Where("user_id = ?", userID).
		Order("confidence * impact_yearly DESC").
		Find(&tips).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tips, nil
}

// GenerateAdvice returns the cached advice set when it is under an hour old
// and force is not set; otherwise it reruns the rule engine, replaces the
// cache, and returns the top five items by priority then yearly savings.
func (s *advisorService) GenerateAdvice(userID string, force bool) ([]models.Advice, error) {
	if !force {
		cached, fresh, err := s.cachedAdvice(userID)
		if err != nil {
			return nil, err
		}
		if fresh {
			return cached, nil
		}
	}

	items, err := s.deriveAdvice(userID, time.Now())
	if err != nil {
		return nil, err
	}

	sortAdvice(items)
	if len(items) > adviceStoreCap {
		items = items[:adviceStoreCap]
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Advice{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(items) > adviceSurfaceCount {
		items = items[:adviceSurfaceCount]
	}
	return items, nil
}

// cachedAdvice loads the stored advice set and reports whether it is still
// fresh, judged by the creation time of the newest item.
func (s *advisorService) cachedAdvice(userID string) ([]models.Advice, bool, error) {
	var stored []models.Advice
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&stored).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(stored) == 0 {
		return nil, false, nil
	}
	if time.Since(stored[0].CreatedAt) >= adviceCacheTTL {
		return nil, false, nil
	}

	sortAdvice(stored)
	if len(stored) > adviceSurfaceCount {
		stored = stored[:adviceSurfaceCount]
	}
	return stored, true, nil
}

// deriveAdvice runs every advice rule against the current aggregates.
func (s *advisorService) deriveAdvice(userID string, now time.Time) ([]models.Advice, error) {
	currentMonth := now.Format(models.MonthKey)
	monthStart, monthEnd := monthWindow(currentMonth)

	var income int64
	if err := s.db.Model(&models.MonthlyIncome{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND month = ?", userID, currentMonth).
		Scan(&income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spend, err := sumExpenses(s.db, userID, nil, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	lastStart, lastEnd := monthWindow(monthKeyAgo(now, 1))
	prevStart, prevEnd := monthWindow(monthKeyAgo(now, 2))
	lastSpend, err := sumExpenses(s.db, userID, nil, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	prevSpend, err := sumExpenses(s.db, userID, nil, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	var items []models.Advice

	items = append(items, savingsRateAdvice(userID, income, spend)...)
	items = append(items, spendingSpikeAdvice(userID, lastSpend, prevSpend)...)

	goalItems, err := s.goalAdvice(userID, now, income-spend)
	if err != nil {
		return nil, err
	}
	items = append(items, goalItems...)

	budgetItems, err := s.budgetAdvice(userID, now, income)
	if err != nil {
		return nil, err
	}
	items = append(items, budgetItems...)

	if income > 0 {
		categoryTotals, err := s.categoryTotals(userID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		items = append(items, benchmarkAdvice(userID, income, categoryTotals)...)
	}

	return items, nil
}

// savingsRateAdvice flags a savings rate under 20% of income, high priority
// under 10%.
func savingsRateAdvice(userID string, income, spend int64) []models.Advice {
	if income <= 0 {
		return nil
	}

	saved := income - spend
	rate := float64(saved) / float64(income)
	if rate >= 0.20 {
		return nil
	}

	priority := models.AdvicePriorityMedium
	if rate < 0.10 {
		priority = models.AdvicePriorityHigh
	}

	potential := income/5 - saved
	return []models.Advice{{
		UserID:         userID,
		Type:           "boost_savings",
		Title:          "Boost your savings rate",
		Message:        fmt.Sprintf("You are saving %.0f%% of your income this month; 20%% is a healthy floor.", math.Max(rate, 0)*100),
		MonthlySavings: potential,
		YearlySavings:  potential * 12,
		Priority:       priority,
		ActionItems:    actionItems("Automate a transfer on payday", "Review recurring subscriptions"),
	}}
}

// spendingSpikeAdvice flags a month-over-month total increase above 15%.
func spendingSpikeAdvice(userID string, lastSpend, prevSpend int64) []models.Advice {
	if prevSpend <= 0 || lastSpend <= prevSpend {
		return nil
	}

	increase := float64(lastSpend-prevSpend) / float64(prevSpend)
	if increase <= 0.15 {
		return nil
	}

	diff := lastSpend - prevSpend
	return []models.Advice{{
		UserID:         userID,
		Type:           "spending_spike",
		Title:          "Spending jumped last month",
		Message:        fmt.Sprintf("Last month's spending rose %.0f%% over the month before, an extra $%s.", increase*100, dollars(diff)),
		MonthlySavings: diff,
		YearlySavings:  diff * 12,
		Priority:       models.AdvicePriorityHigh,
		ActionItems:    actionItems("Compare the two months by category", "Set an expense-limit challenge"),
	}}
}

// goalAdvice compares each goal's required monthly saving against what the
// user actually has left over each month.
func (s *advisorService) goalAdvice(userID string, now time.Time, available int64) ([]models.Advice, error) {
	var goals []models.SavingsGoal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.Advice
	for i := range goals {
		goal := &goals[i]
		remaining := goal.TargetAmount - goal.CurrentAmount
		if remaining <= 0 {
			continue
		}

		monthsLeft := monthsUntil(now, goal.Deadline)
		required := remaining / int64(monthsLeft)

		if required > available {
			priority := models.AdvicePriorityMedium
			if available <= 0 {
				priority = models.AdvicePriorityHigh
			}
			shortfall := required - max64(available, 0)
			items = append(items, models.Advice{
				UserID:         userID,
				Type:           "goal_shortfall",
				Title:          fmt.Sprintf("%q needs $%s/month", goal.Name, dollars(required)),
				Message:        fmt.Sprintf("Reaching %s by %s takes $%s per month; you are $%s short at the current pace.", goal.Name, goal.Deadline.Format(models.DateOnly), dollars(required), dollars(shortfall)),
				MonthlySavings: shortfall,
				YearlySavings:  shortfall * 12,
				Priority:       priority,
				ActionItems:    actionItems("Raise the monthly contribution", "Push the deadline out"),
			})
			continue
		}

		if available > required && required > 0 {
			fasterMonths := int(math.Ceil(float64(remaining) / float64(available)))
			reduction := monthsLeft - fasterMonths
			if reduction > 0 {
				extra := available - required
				items = append(items, models.Advice{
					UserID:            userID,
					Type:              "goal_surplus",
					Title:             fmt.Sprintf("%q can finish %d months early", goal.Name, reduction),
					Message:           fmt.Sprintf("Putting your full monthly surplus toward %s finishes it about %d months ahead of the deadline.", goal.Name, reduction),
					MonthlySavings:    extra,
					YearlySavings:     extra * 12,
					GoalTimeReduction: &reduction,
					Priority:          models.AdvicePriorityLow,
					ActionItems:       actionItems("Redirect surplus to this goal"),
				})
			}
		}
	}

	return items, nil
}

// budgetAdvice flags individual budget overruns and an aggregate
// budget-to-income ratio above 80%.
func (s *advisorService) budgetAdvice(userID string, now time.Time, income int64) ([]models.Advice, error) {
	currentMonth := now.Format(models.MonthKey)

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND month = ?", userID, currentMonth).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	monthStart, monthEnd := monthWindow(currentMonth)

	var items []models.Advice
	var totalBudget int64
	for i := range budgets {
		budget := &budgets[i]
		totalBudget += budget.MonthlyLimit

		spent, err := sumExpenses(s.db, userID, &budget.Category, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		if spent <= budget.MonthlyLimit {
			continue
		}

		over := spent - budget.MonthlyLimit
		category := budget.Category
		items = append(items, models.Advice{
			UserID:          userID,
			Type:            "budget_overrun",
			Title:           fmt.Sprintf("Over budget on %s", category),
			Message:         fmt.Sprintf("You have spent $%s of your $%s %s budget this month.", dollars(spent), dollars(budget.MonthlyLimit), category),
			MonthlySavings:  over,
			YearlySavings:   over * 12,
			Priority:        models.AdvicePriorityMedium,
			ActionItems:     actionItems("Pause non-essential spending in this category"),
			RelatedCategory: &category,
		})
	}

	if income > 0 && float64(totalBudget) > float64(income)*0.80 {
		excess := totalBudget - income*80/100
		items = append(items, models.Advice{
			UserID:         userID,
			Type:           "budget_ratio",
			Title:          "Budgets claim most of your income",
			Message:        fmt.Sprintf("Your budgets total $%s against $%s of income, leaving little room to save.", dollars(totalBudget), dollars(income)),
			MonthlySavings: excess,
			YearlySavings:  excess * 12,
			Priority:       models.AdvicePriorityHigh,
			ActionItems:    actionItems("Trim budget limits to 80% of income or less"),
		})
	}

	return items, nil
}

// benchmarkAdvice flags categories spending more than 150% of their income
// benchmark, high priority above 200%.
func benchmarkAdvice(userID string, income int64, categoryTotals map[models.ExpenseCategory]int64) []models.Advice {
	var items []models.Advice

	for _, category := range models.ExpenseCategories {
		spend := categoryTotals[category]
		if spend == 0 {
			continue
		}

		pct, ok := categoryBenchmarks[category]
		if !ok {
			pct = defaultBenchmark
		}
		benchmark := float64(income) * pct
		if float64(spend) <= benchmark*1.5 {
			continue
		}

		priority := models.AdvicePriorityMedium
		if float64(spend) > benchmark*2 {
			priority = models.AdvicePriorityHigh
		}

		over := spend - int64(benchmark)
		cat := category
		items = append(items, models.Advice{
			UserID:          userID,
			Type:            "category_benchmark",
			Title:           fmt.Sprintf("High %s spending", category),
			Message:         fmt.Sprintf("%s takes $%s this month against a typical $%s (%.0f%% of income).", category, dollars(spend), dollars(int64(benchmark)), pct*100),
			MonthlySavings:  over,
			YearlySavings:   over * 12,
			Priority:        priority,
			ActionItems:     actionItems(fmt.Sprintf("Review your largest %s expenses", category)),
			RelatedCategory: &cat,
		})
	}

	return items
}

// categoryTips suggests a 20% cut, capped at $50/month, for any category
// averaging over $200/month.
func categoryTips(userID string, categoryAvgs map[models.ExpenseCategory]int64) []models.Tip {
	var tips []models.Tip

	for _, category := range models.ExpenseCategories {
		avg := categoryAvgs[category]
		if avg <= 20000 {
			continue
		}

		reduction := min64(avg/5, 5000)
		confidence := 0.6
		if avg > 30000 {
			confidence = 0.8
		}

		tips = append(tips, models.Tip{
			UserID:             userID,
			Text:               fmt.Sprintf("You average $%s/month on %s. Cutting $%s/month saves $%s/year.", dollars(avg), category, dollars(reduction), dollars(reduction*12)),
			ImpactYearly:       reduction * 12,
			Confidence:         confidence,
			RelatedCategory:    category,
			ActionType:         "reduce_category",
			SuggestedReduction: reduction,
		})
	}

	return tips
}

// budgetOverrunTips emits a fixed-confidence tip for every current-month
// budget whose spending exceeds its limit.
func (s *advisorService) budgetOverrunTips(userID string, now time.Time) ([]models.Tip, error) {
	currentMonth := now.Format(models.MonthKey)
	monthStart, monthEnd := monthWindow(currentMonth)

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND month = ?", userID, currentMonth).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tips []models.Tip
	for i := range budgets {
		budget := &budgets[i]
		spent, err := sumExpenses(s.db, userID, &budget.Category, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		if spent <= budget.MonthlyLimit {
			continue
		}

		over := spent - budget.MonthlyLimit
		tips = append(tips, models.Tip{
			UserID:             userID,
			Text:               fmt.Sprintf("Your %s budget is over by $%s this month. Getting back under the limit saves $%s/year.", budget.Category, dollars(over), dollars(over*12)),
			ImpactYearly:       over * 12,
			Confidence:         0.9,
			RelatedCategory:    budget.Category,
			ActionType:         "budget_overrun",
			SuggestedReduction: over,
		})
	}

	return tips, nil
}

// goalTips computes each goal's required monthly contribution and suggests
// redirecting spending toward it, capped at 10% of monthly spending.
func (s *advisorService) goalTips(userID string, now time.Time, monthlySpend int64) ([]models.Tip, error) {
	var goals []models.SavingsGoal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tips []models.Tip
	for i := range goals {
		goal := &goals[i]
		remaining := goal.TargetAmount - goal.CurrentAmount
		if remaining <= 0 {
			continue
		}

		monthsLeft := monthsUntil(now, goal.Deadline)
		required := remaining / int64(monthsLeft)
		suggestion := min64(required, monthlySpend/10)
		if suggestion <= 0 {
			continue
		}

		tips = append(tips, models.Tip{
			UserID:             userID,
			Text:               fmt.Sprintf("%s needs $%s/month to hit its deadline. Redirecting $%s/month from spending gets you $%s/year closer.", goal.Name, dollars(required), dollars(suggestion), dollars(suggestion*12)),
			ImpactYearly:       suggestion * 12,
			Confidence:         0.7,
			ActionType:         "goal_contribution",
			SuggestedReduction: suggestion,
		})
	}

	return tips, nil
}

// trendTip flags a month-over-month total increase above $100.
func (s *advisorService) trendTip(userID string, now time.Time) (*models.Tip, error) {
	lastStart, lastEnd := monthWindow(monthKeyAgo(now, 1))
	prevStart, prevEnd := monthWindow(monthKeyAgo(now, 2))

	lastSpend, err := sumExpenses(s.db, userID, nil, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	prevSpend, err := sumExpenses(s.db, userID, nil, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	diff := lastSpend - prevSpend
	if diff <= 10000 {
		return nil, nil
	}

	return &models.Tip{
		UserID:             userID,
		Text:               fmt.Sprintf("Your spending rose $%s last month compared to the month before. Holding the earlier pace saves $%s/year.", dollars(diff), dollars(diff*12)),
		ImpactYearly:       diff * 12,
		Confidence:         0.6,
		ActionType:         "trend_alert",
		SuggestedReduction: diff,
	}, nil
}

// categoryTotals sums expenses per category for the user in [from, to].
func (s *advisorService) categoryTotals(userID string, from, to time.Time) (map[models.ExpenseCategory]int64, error) {
	var rows []struct {
		Category models.ExpenseCategory
		Total    int64
	}
	if err := s.db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[models.ExpenseCategory]int64, len(rows))
	for _, row := range rows {
		totals[row.Category] = row.Total
	}
	return totals, nil
}

// sortAdvice orders items by priority weight, then yearly savings, descending.
func sortAdvice(items []models.Advice) {
	sort.SliceStable(items, func(i, j int) bool {
		wi, wj := items[i].Priority.Weight(), items[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return items[i].YearlySavings > items[j].YearlySavings
	})
}

// monthsUntil returns the whole months from now to the deadline, at 30 days
// per month, never less than one.
func monthsUntil(now, deadline time.Time) int {
	days := daysBetween(now, deadline)
	months := int(math.Ceil(float64(days) / 30))
	if months < 1 {
		months = 1
	}
	return months
}

// actionItems encodes a list of suggested actions the way audit changes are
// stored: as a JSON string.
func actionItems(items ...string) string {
	data, err := json.Marshal(items)
	if err != nil {
		logger.Get().Errorw("failed to marshal action items", "error", err)
		return "[]"
	}
	return string(data)
}

// dollars renders cents as a dollar string without the sign.
func dollars(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
