package usecase

import (
	"context"
	"errors"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type applicationUsecase struct {
	applicationRepo  domain.ApplicationRepository
	jobOfferRepo     domain.JobOfferRepository
	professionalRepo domain.ProfessionalRepository
	employerRepo     domain.EmployerRepository
	reconciler       *Reconciler
	evaluator        eligibilityEvaluator
	validate         *validator.Validate
}

// NewApplicationUsecase creates the application lifecycle usecase.
// monthlyLimit is the per-professional calendar-month creation quota.
func NewApplicationUsecase(
	applicationRepo domain.ApplicationRepository,
	jobOfferRepo domain.JobOfferRepository,
	professionalRepo domain.ProfessionalRepository,
	employerRepo domain.EmployerRepository,
	reconciler *Reconciler,
	validate *validator.Validate,
	monthlyLimit int,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo:  applicationRepo,
		jobOfferRepo:     jobOfferRepo,
		professionalRepo: professionalRepo,
		employerRepo:     employerRepo,
		reconciler:       reconciler,
		evaluator:        eligibilityEvaluator{apps: applicationRepo, monthlyLimit: monthlyLimit},
		validate:         validate,
	}
}

// CheckEligibility is the side-effect-free pre-flight "can I apply" query.
func (uc *applicationUsecase) CheckEligibility(ctx context.Context, professionalID, jobOfferID string, now time.Time) (*domain.EligibilityResult, error) {
	if professionalID == "" || jobOfferID == "" {
		return nil, apperror.BadRequest("professional_id and job_offer_id are required")
	}
	return uc.evaluator.Evaluate(ctx, professionalID, jobOfferID, now)
}

// Create runs the two-phase creation flow: evaluate, then attempt the
// atomic insert. A duplicate-key failure at commit is remapped to the same
// ALREADY_APPLIED denial the pre-check produces, so the caller sees one
// failure path regardless of when the race was caught. The monthly quota is
// only re-counted just before the insert; a burst of concurrent creations
// can overshoot it slightly (accepted weak point).
func (uc *applicationUsecase) Create(ctx context.Context, draft domain.ApplicationDraft) (*domain.Application, error) {
	now := time.Now().UTC()

	// 1. Field invariants
	if err := uc.validateDraft(draft, now); err != nil {
		return nil, err
	}

	// 2. Collaborator lookups
	ok, err := uc.professionalRepo.Exists(ctx, draft.ProfessionalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		return nil, apperror.NotFound("professional", draft.ProfessionalID)
	}

	if _, err := uc.jobOfferRepo.GetByID(ctx, draft.JobOfferID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("job offer", draft.JobOfferID)
		}
		return nil, apperror.Internal(err)
	}
	accepting, err := uc.jobOfferRepo.IsAcceptingApplications(ctx, draft.JobOfferID, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !accepting {
		return nil, apperror.BadRequest("Job offer is not accepting applications")
	}

	// 3. Eligibility (optimistic; re-validated at commit below)
	verdict, err := uc.evaluator.Evaluate(ctx, draft.ProfessionalID, draft.JobOfferID, now)
	if err != nil {
		return nil, err
	}
	if !verdict.CanApply {
		return nil, ineligible(verdict.Reason)
	}

	// 4. Commit
	priority := domain.PriorityMedium
	if draft.Priority != nil {
		priority = *draft.Priority
	}
	app := &domain.Application{
		ID:               uuid.NewString(),
		ProfessionalID:   draft.ProfessionalID,
		JobOfferID:       draft.JobOfferID,
		Status:           domain.StatusPending,
		Priority:         priority,
		CoverLetter:      draft.CoverLetter,
		Motivation:       draft.Motivation,
		SalaryAmount:     draft.SalaryAmount,
		SalaryCurrency:   draft.SalaryCurrency,
		SalaryNegotiable: draft.SalaryNegotiable,
		AvailabilityDate: draft.AvailabilityDate,
		Skills:           draft.Skills,
		Notes:            draft.Notes,
		AppliedAt:        now,
		IsActive:         true,
		UpdatedAt:        now,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Lost the race - unique index caught it at commit
			return nil, ineligible(domain.ReasonAlreadyApplied)
		}
		return nil, apperror.StoreUnavailable(err)
	}

	// 5. Keep the per-offer count converged. The record is already
	// committed, so a failed reconcile only leaves the cached count stale
	// until the next one; it never unwinds the creation.
	if err := uc.reconciler.Reconcile(ctx, app.JobOfferID); err != nil {
		logger.Log.Warn("application count reconciliation failed",
			"job_offer_id", app.JobOfferID, "error", err)
	}

	return app, nil
}

// Review moves a pending application to accepted or rejected. reviewed_at
// is set exactly once here; the precondition is re-checked inside the
// conditional update so a lost race fails with AlreadyReviewed rather than
// silently overwriting.
func (uc *applicationUsecase) Review(ctx context.Context, id string, decision domain.Status, reviewerID *string, notes *string) (*domain.Application, error) {
	if !decision.IsTerminal() {
		return nil, apperror.BadRequest("Decision must be accepted or rejected")
	}
	if notes != nil && len(*notes) > domain.MaxNotesLen {
		return nil, apperror.ValidationFailed("notes", "max=500")
	}

	app, err := uc.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.StatusPending {
		return nil, apperror.AlreadyReviewed(id)
	}

	if reviewerID != nil {
		ok, err := uc.employerRepo.Exists(ctx, *reviewerID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if !ok {
			return nil, apperror.NotFound("employer", *reviewerID)
		}
	}

	now := time.Now().UTC()
	rows, err := uc.applicationRepo.MarkReviewed(ctx, id, decision, now, reviewerID, notes)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if rows == 0 {
		// A concurrent review won between our read and the update
		return nil, apperror.AlreadyReviewed(id)
	}

	return uc.getApplication(ctx, id)
}

// SetPriority is legal in any status and never touches review fields.
func (uc *applicationUsecase) SetPriority(ctx context.Context, id string, priority domain.Priority) (*domain.Application, error) {
	if _, err := domain.ParsePriority(string(priority)); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if err := uc.applicationRepo.UpdatePriority(ctx, id, priority); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("application", id)
		}
		return nil, apperror.Internal(err)
	}
	return uc.getApplication(ctx, id)
}

// Update applies the pending-only allow-list patch. Reviewed applications
// only accept priority changes, through SetPriority.
func (uc *applicationUsecase) Update(ctx context.Context, id string, patch domain.ApplicationPatch) (*domain.Application, error) {
	if err := uc.validate.Struct(patch); err != nil {
		return nil, mapValidationError(err)
	}
	if patch.Priority != nil {
		if _, err := domain.ParsePriority(string(*patch.Priority)); err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
	}

	app, err := uc.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.StatusPending {
		return nil, apperror.CannotModifyReviewed(id)
	}

	applyPatch(app, patch)
	app.UpdatedAt = time.Now().UTC()

	rows, err := uc.applicationRepo.UpdatePending(ctx, app)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if rows == 0 {
		return nil, apperror.CannotModifyReviewed(id)
	}
	return app, nil
}

// SoftDelete flags a pending application inactive. The record stays in
// storage and keeps counting toward the offer aggregate and the quota.
func (uc *applicationUsecase) SoftDelete(ctx context.Context, id string) error {
	app, err := uc.getApplication(ctx, id)
	if err != nil {
		return err
	}
	if app.Status != domain.StatusPending {
		return apperror.CannotModifyReviewed(id)
	}

	rows, err := uc.applicationRepo.Deactivate(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if rows == 0 {
		return apperror.CannotModifyReviewed(id)
	}
	return nil
}

func (uc *applicationUsecase) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return uc.getApplication(ctx, id)
}

func (uc *applicationUsecase) ListByProfessional(ctx context.Context, professionalID string, filter domain.ListFilter) ([]domain.Application, int64, error) {
	items, total, err := uc.applicationRepo.ListByProfessional(ctx, professionalID, normalizeFilter(filter))
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return items, total, nil
}

func (uc *applicationUsecase) ListByJobOffer(ctx context.Context, jobOfferID string, filter domain.ListFilter) ([]domain.Application, int64, error) {
	items, total, err := uc.applicationRepo.ListByJobOffer(ctx, jobOfferID, normalizeFilter(filter))
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return items, total, nil
}

func (uc *applicationUsecase) getApplication(ctx context.Context, id string) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("application", id)
		}
		return nil, apperror.Internal(err)
	}
	return app, nil
}

func (uc *applicationUsecase) validateDraft(draft domain.ApplicationDraft, now time.Time) error {
	if err := uc.validate.Struct(draft); err != nil {
		return mapValidationError(err)
	}
	if draft.Priority != nil {
		if _, err := domain.ParsePriority(string(*draft.Priority)); err != nil {
			return apperror.BadRequest(err.Error())
		}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if draft.AvailabilityDate.Before(today) {
		return apperror.ValidationFailed("availability_date", "not_in_past")
	}
	return nil
}

func applyPatch(app *domain.Application, patch domain.ApplicationPatch) {
	if patch.CoverLetter != nil {
		app.CoverLetter = *patch.CoverLetter
	}
	if patch.Motivation != nil {
		app.Motivation = *patch.Motivation
	}
	if patch.SalaryAmount != nil {
		app.SalaryAmount = *patch.SalaryAmount
	}
	if patch.SalaryCurrency != nil {
		app.SalaryCurrency = *patch.SalaryCurrency
	}
	if patch.SalaryNegotiable != nil {
		app.SalaryNegotiable = *patch.SalaryNegotiable
	}
	if patch.AvailabilityDate != nil {
		app.AvailabilityDate = *patch.AvailabilityDate
	}
	if patch.Skills != nil {
		app.Skills = *patch.Skills
	}
	if patch.Notes != nil {
		app.Notes = *patch.Notes
	}
	if patch.Priority != nil {
		app.Priority = *patch.Priority
	}
}

func normalizeFilter(filter domain.ListFilter) domain.ListFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	return filter
}

func ineligible(reason domain.EligibilityReason) *apperror.AppError {
	msg := "You are not eligible to apply to this job offer"
	switch reason {
	case domain.ReasonAlreadyApplied:
		msg = "You have already applied to this job offer"
	case domain.ReasonMonthlyLimitReached:
		msg = "Monthly application limit reached"
	}
	return apperror.Ineligible(string(reason), msg)
}

func mapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint += "=" + fe.Param()
		}
		return apperror.ValidationFailed(fe.Field(), constraint)
	}
	return apperror.BadRequest(err.Error())
}
