package usecase

import (
	"context"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
)

// eligibilityEvaluator decides whether a professional may create a new
// application for a job offer. It is a pure read: the same function backs
// both the pre-flight eligibility endpoint and the guard inside Create,
// and it never writes.
//
// Both checks read the store without a shared snapshot; the duplicate check
// is re-validated at commit by the unique index, the quota check is
// re-counted immediately before the insert (see Create).
type eligibilityEvaluator struct {
	apps         domain.ApplicationRepository
	monthlyLimit int
}

// Evaluate runs the ordered, short-circuiting checks:
// duplicate pair first, then the calendar-month quota.
func (e *eligibilityEvaluator) Evaluate(ctx context.Context, professionalID, jobOfferID string, now time.Time) (*domain.EligibilityResult, error) {
	exists, err := e.apps.ExistsForPair(ctx, professionalID, jobOfferID)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	from, to := MonthWindow(now)
	count, err := e.apps.CountByProfessionalBetween(ctx, professionalID, from, to)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	if exists {
		return &domain.EligibilityResult{
			CanApply:     false,
			Reason:       domain.ReasonAlreadyApplied,
			MonthlyCount: count,
		}, nil
	}
	if count >= e.monthlyLimit {
		return &domain.EligibilityResult{
			CanApply:     false,
			Reason:       domain.ReasonMonthlyLimitReached,
			MonthlyCount: count,
		}, nil
	}
	return &domain.EligibilityResult{
		CanApply:     true,
		Reason:       domain.ReasonCanApply,
		MonthlyCount: count,
	}, nil
}

// MonthWindow returns the half-open [startOfMonth, startOfNextMonth)
// interval containing now. The window is computed in UTC so the quota is
// stable regardless of server locale.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	t := now.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
