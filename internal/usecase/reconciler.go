package usecase

import (
	"context"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
)

// Reconciler keeps each job offer's cached application_count equal to the
// true count of application records referencing it. It recomputes from a
// full count rather than incrementing, so redundant or concurrent runs can
// only be transiently stale, never wrong after the last one completes.
type Reconciler struct {
	applicationRepo domain.ApplicationRepository
	jobOfferRepo    domain.JobOfferRepository
	retryDelay      time.Duration
}

func NewReconciler(applicationRepo domain.ApplicationRepository, jobOfferRepo domain.JobOfferRepository, retryDelay time.Duration) *Reconciler {
	return &Reconciler{
		applicationRepo: applicationRepo,
		jobOfferRepo:    jobOfferRepo,
		retryDelay:      retryDelay,
	}
}

// Reconcile recounts and persists the aggregate. A transient store failure
// is retried once after retryDelay; a missed run only leaves the cached
// count stale until the next successful one.
func (r *Reconciler) Reconcile(ctx context.Context, jobOfferID string) error {
	if err := r.reconcileOnce(ctx, jobOfferID); err != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.retryDelay):
		}
		if err := r.reconcileOnce(ctx, jobOfferID); err != nil {
			return apperror.StoreUnavailable(err)
		}
	}
	return nil
}

func (r *Reconciler) reconcileOnce(ctx context.Context, jobOfferID string) error {
	// All statuses and both is_active values count toward the aggregate.
	count, err := r.applicationRepo.CountByJobOffer(ctx, jobOfferID)
	if err != nil {
		return err
	}
	return r.jobOfferRepo.SetApplicationCount(ctx, jobOfferID, count)
}
