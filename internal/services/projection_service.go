package services

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// projectionService computes compound savings projections. It is stateless;
// everything is a pure function of its inputs.
type projectionService struct{}

// NewProjectionService creates a new ProjectionServicer.
func NewProjectionService() ProjectionServicer {
	return &projectionService{}
}

// FutureValue projects a principal plus a recurring monthly contribution
// forward with monthly compounding. Contributions are applied at period end
// (ordinary annuity). Years are converted to whole months by rounding; zero
// or negative months return the principal unchanged.
func (s *projectionService) FutureValue(principal, monthlyContribution int64, annualRate, years float64) Projection {
	months := int(math.Round(years * 12))
	if months < 0 {
		months = 0
	}
	monthlyRate := annualRate / 12

	formula := fmt.Sprintf(
		"FV = P*(1+r)^n + PMT*((1+r)^n - 1)/r; P=%d, PMT=%d, r=%.6f, n=%d",
		principal, monthlyContribution, monthlyRate, months,
	)

	if months == 0 {
		return Projection{
			FutureValue: principal,
			Formula:     formula,
			GeneratedAt: time.Now(),
		}
	}

	var futureValue float64
	if monthlyRate == 0 {
		futureValue = float64(principal) + float64(monthlyContribution)*float64(months)
	} else {
		growth := math.Pow(1+monthlyRate, float64(months))
		contributionsFV := float64(monthlyContribution) * (growth - 1) / monthlyRate
		principalFV := float64(principal) * growth
		futureValue = contributionsFV + principalFV
	}

	return Projection{
		FutureValue: int64(math.Round(futureValue)),
		Formula:     formula,
		GeneratedAt: time.Now(),
	}
}

// Recommendation composes a projection summary: the goal achievement
// percentage, plus savings-rate and emergency-fund remarks when the caller
// supplied the context for them. The emergency-fund remark needs both the
// fund months and the living expense to be present.
func (s *projectionService) Recommendation(futureValue, goalAmount int64, input RecommendationInput) string {
	percent := 0
	if goalAmount > 0 {
		percent = int(math.Round(float64(futureValue) / float64(goalAmount) * 100))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "At this pace your savings reach %d%% of the goal.", percent)

	if input.SavingsRate != nil {
		if *input.SavingsRate < 0.20 {
			b.WriteString(" Your savings rate is under 20% of income; raising it will get you there sooner.")
		} else {
			b.WriteString(" Your savings rate of 20% or more of income is on track.")
		}
	}

	if input.EmergencyFundMonths != nil && input.MonthlyLivingExpense != nil {
		if *input.EmergencyFundMonths < 6 {
			fmt.Fprintf(&b, " Your emergency fund covers %.1f months of the $%.2f you spend monthly; aim for at least 6.",
				*input.EmergencyFundMonths, float64(*input.MonthlyLivingExpense)/100)
		} else {
			b.WriteString(" Your emergency fund covers 6 or more months of expenses.")
		}
	}

	return b.String()
}
