package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/usecase"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	apps   *MockApplicationRepo
	offers *MockJobOfferRepo
	pros   *MockProfessionalRepo
	emps   *MockEmployerRepo
}

func newTestUsecase() (domain.ApplicationUsecase, testRepos) {
	repos := testRepos{
		apps:   new(MockApplicationRepo),
		offers: new(MockJobOfferRepo),
		pros:   new(MockProfessionalRepo),
		emps:   new(MockEmployerRepo),
	}
	rec := usecase.NewReconciler(repos.apps, repos.offers, time.Millisecond)
	uc := usecase.NewApplicationUsecase(
		repos.apps, repos.offers, repos.pros, repos.emps, rec, validator.New(), 3)
	return uc, repos
}

func validDraft() domain.ApplicationDraft {
	return domain.ApplicationDraft{
		ProfessionalID:   "p1",
		JobOfferID:       "j1",
		CoverLetter:      "Motivated and available.",
		SalaryAmount:     50000,
		SalaryCurrency:   "EUR",
		AvailabilityDate: time.Now().UTC().AddDate(0, 1, 0),
		Skills:           []string{"Go", "SQL"},
	}
}

func asAppError(t *testing.T, err error) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %v", err)
	return appErr
}

func expectOpenOffer(repos testRepos) {
	repos.pros.On("Exists", mock.Anything, "p1").Return(true, nil)
	repos.offers.On("GetByID", mock.Anything, "j1").Return(&domain.JobOffer{ID: "j1", Status: "open"}, nil)
	repos.offers.On("IsAcceptingApplications", mock.Anything, "j1", mock.Anything).Return(true, nil)
}

func TestCreate_Succeeds(t *testing.T) {
	uc, repos := newTestUsecase()
	expectOpenOffer(repos)
	repos.apps.On("ExistsForPair", mock.Anything, "p1", "j1").Return(false, nil)
	repos.apps.On("CountByProfessionalBetween", mock.Anything, "p1", mock.Anything, mock.Anything).Return(0, nil)
	repos.apps.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil)
	repos.apps.On("CountByJobOffer", mock.Anything, "j1").Return(int64(1), nil)
	repos.offers.On("SetApplicationCount", mock.Anything, "j1", int64(1)).Return(nil)

	app, err := uc.Create(context.Background(), validDraft())

	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.Equal(t, domain.PriorityMedium, app.Priority)
	assert.True(t, app.IsActive)
	assert.Nil(t, app.ReviewedAt)
	assert.False(t, app.AppliedAt.IsZero())

	// Aggregate convergence: the reconciler wrote the recomputed count
	repos.offers.AssertCalled(t, "SetApplicationCount", mock.Anything, "j1", int64(1))
}

func TestCreate_DeniedWhenAlreadyApplied(t *testing.T) {
	uc, repos := newTestUsecase()
	expectOpenOffer(repos)
	repos.apps.On("ExistsForPair", mock.Anything, "p1", "j1").Return(true, nil)
	repos.apps.On("CountByProfessionalBetween", mock.Anything, "p1", mock.Anything, mock.Anything).Return(1, nil)

	_, err := uc.Create(context.Background(), validDraft())

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindIneligibleApplication, appErr.Kind)
	assert.Equal(t, string(domain.ReasonAlreadyApplied), appErr.Reason)
	repos.apps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_DeniedWhenMonthlyLimitReached(t *testing.T) {
	uc, repos := newTestUsecase()
	expectOpenOffer(repos)
	repos.apps.On("ExistsForPair", mock.Anything, "p1", "j1").Return(false, nil)
	repos.apps.On("CountByProfessionalBetween", mock.Anything, "p1", mock.Anything, mock.Anything).Return(3, nil)

	_, err := uc.Create(context.Background(), validDraft())

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindIneligibleApplication, appErr.Kind)
	assert.Equal(t, string(domain.ReasonMonthlyLimitReached), appErr.Reason)
}

func TestCreate_DuplicateAtCommitMapsToAlreadyApplied(t *testing.T) {
	// Two concurrent creations can both pass evaluation; the loser hits
	// the unique index and must observe the same denial as the pre-check.
	uc, repos := newTestUsecase()
	expectOpenOffer(repos)
	repos.apps.On("ExistsForPair", mock.Anything, "p1", "j1").Return(false, nil)
	repos.apps.On("CountByProfessionalBetween", mock.Anything, "p1", mock.Anything, mock.Anything).Return(0, nil)
	repos.apps.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicate)

	_, err := uc.Create(context.Background(), validDraft())

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindIneligibleApplication, appErr.Kind)
	assert.Equal(t, string(domain.ReasonAlreadyApplied), appErr.Reason)
	repos.offers.AssertNotCalled(t, "SetApplicationCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_ValidationFailures(t *testing.T) {
	uc, _ := newTestUsecase()

	t.Run("availability date in the past", func(t *testing.T) {
		draft := validDraft()
		draft.AvailabilityDate = time.Now().UTC().AddDate(0, 0, -2)
		_, err := uc.Create(context.Background(), draft)
		appErr := asAppError(t, err)
		assert.Equal(t, apperror.KindValidationFailed, appErr.Kind)
		assert.Contains(t, appErr.Message, "availability_date")
	})

	t.Run("cover letter too long", func(t *testing.T) {
		draft := validDraft()
		draft.CoverLetter = strings.Repeat("x", domain.MaxCoverLetterLen+1)
		_, err := uc.Create(context.Background(), draft)
		appErr := asAppError(t, err)
		assert.Equal(t, apperror.KindValidationFailed, appErr.Kind)
	})

	t.Run("negative salary", func(t *testing.T) {
		draft := validDraft()
		draft.SalaryAmount = -1
		_, err := uc.Create(context.Background(), draft)
		appErr := asAppError(t, err)
		assert.Equal(t, apperror.KindValidationFailed, appErr.Kind)
	})

	t.Run("too many skills", func(t *testing.T) {
		draft := validDraft()
		draft.Skills = make([]string, domain.MaxSkills+1)
		_, err := uc.Create(context.Background(), draft)
		appErr := asAppError(t, err)
		assert.Equal(t, apperror.KindValidationFailed, appErr.Kind)
	})
}

func TestCreate_OfferNotAccepting(t *testing.T) {
	uc, repos := newTestUsecase()
	repos.pros.On("Exists", mock.Anything, "p1").Return(true, nil)
	repos.offers.On("GetByID", mock.Anything, "j1").Return(&domain.JobOffer{ID: "j1", Status: "closed"}, nil)
	repos.offers.On("IsAcceptingApplications", mock.Anything, "j1", mock.Anything).Return(false, nil)

	_, err := uc.Create(context.Background(), validDraft())

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindBadRequest, appErr.Kind)
}

func TestCreate_UnknownProfessional(t *testing.T) {
	uc, repos := newTestUsecase()
	repos.pros.On("Exists", mock.Anything, "p1").Return(false, nil)

	_, err := uc.Create(context.Background(), validDraft())

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestCreate_ReconcileFailureDoesNotUnwindCreation(t *testing.T) {
	uc, repos := newTestUsecase()
	expectOpenOffer(repos)
	repos.apps.On("ExistsForPair", mock.Anything, "p1", "j1").Return(false, nil)
	repos.apps.On("CountByProfessionalBetween", mock.Anything, "p1", mock.Anything, mock.Anything).Return(0, nil)
	repos.apps.On("Create", mock.Anything, mock.Anything).Return(nil)
	repos.apps.On("CountByJobOffer", mock.Anything, "j1").Return(int64(0), errors.New("connection reset"))

	app, err := uc.Create(context.Background(), validDraft())

	// Stale count is acceptable until the next reconcile; the record stands
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, app.Status)
}

func pendingApp(id string) *domain.Application {
	return &domain.Application{
		ID:             id,
		ProfessionalID: "p1",
		JobOfferID:     "j1",
		Status:         domain.StatusPending,
		Priority:       domain.PriorityMedium,
		AppliedAt:      time.Now().UTC().Add(-24 * time.Hour),
		IsActive:       true,
	}
}

func reviewedApp(id string) *domain.Application {
	app := pendingApp(id)
	app.Status = domain.StatusAccepted
	now := time.Now().UTC()
	app.ReviewedAt = &now
	return app
}

func TestReview_AcceptSetsReviewFields(t *testing.T) {
	uc, repos := newTestUsecase()
	reviewer := "e1"

	repos.apps.On("GetByID", mock.Anything, "a1").Return(pendingApp("a1"), nil).Once()
	repos.emps.On("Exists", mock.Anything, "e1").Return(true, nil)
	repos.apps.On("MarkReviewed", mock.Anything, "a1", domain.StatusAccepted, mock.Anything, &reviewer, (*string)(nil)).
		Return(int64(1), nil)

	accepted := reviewedApp("a1")
	accepted.ReviewedBy = &reviewer
	repos.apps.On("GetByID", mock.Anything, "a1").Return(accepted, nil).Once()

	app, err := uc.Review(context.Background(), "a1", domain.StatusAccepted, &reviewer, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, app.Status)
	assert.NotNil(t, app.ReviewedAt)
	assert.Equal(t, "e1", *app.ReviewedBy)
}

func TestReview_SecondReviewFails(t *testing.T) {
	uc, repos := newTestUsecase()
	repos.apps.On("GetByID", mock.Anything, "a1").Return(reviewedApp("a1"), nil)

	_, err := uc.Review(context.Background(), "a1", domain.StatusRejected, nil, nil)

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindAlreadyReviewed, appErr.Kind)
	repos.apps.AssertNotCalled(t, "MarkReviewed",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_LostRaceFailsAlreadyReviewed(t *testing.T) {
	// The read saw pending but a concurrent review committed first; the
	// conditional update touches zero rows.
	uc, repos := newTestUsecase()
	repos.apps.On("GetByID", mock.Anything, "a1").Return(pendingApp("a1"), nil)
	repos.apps.On("MarkReviewed", mock.Anything, "a1", domain.StatusAccepted, mock.Anything, (*string)(nil), (*string)(nil)).
		Return(int64(0), nil)

	_, err := uc.Review(context.Background(), "a1", domain.StatusAccepted, nil, nil)

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindAlreadyReviewed, appErr.Kind)
}

func TestReview_UnknownApplication(t *testing.T) {
	uc, repos := newTestUsecase()
	repos.apps.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := uc.Review(context.Background(), "missing", domain.StatusAccepted, nil, nil)

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestReview_UnknownReviewer(t *testing.T) {
	uc, repos := newTestUsecase()
	reviewer := "ghost"
	repos.apps.On("GetByID", mock.Anything, "a1").Return(pendingApp("a1"), nil)
	repos.emps.On("Exists", mock.Anything, "ghost").Return(false, nil)

	_, err := uc.Review(context.Background(), "a1", domain.StatusAccepted, &reviewer, nil)

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestReview_InvalidDecision(t *testing.T) {
	uc, _ := newTestUsecase()

	_, err := uc.Review(context.Background(), "a1", domain.StatusPending, nil, nil)

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindBadRequest, appErr.Kind)
}

func TestSetPriority_SucceedsOnReviewedApplication(t *testing.T) {
	uc, repos := newTestUsecase()
	app := reviewedApp("a1")
	app.Priority = domain.PriorityHigh
	repos.apps.On("UpdatePriority", mock.Anything, "a1", domain.PriorityHigh).Return(nil)
	repos.apps.On("GetByID", mock.Anything, "a1").Return(app, nil)

	got, err := uc.SetPriority(context.Background(), "a1", domain.PriorityHigh)

	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	// Review fields untouched by a priority change
	assert.Equal(t, domain.StatusAccepted, got.Status)
	assert.NotNil(t, got.ReviewedAt)
}

func TestSetPriority_UnknownApplication(t *testing.T) {
	uc, repos := newTestUsecase()
	repos.apps.On("UpdatePriority", mock.Anything, "missing", domain.PriorityLow).Return(domain.ErrNotFound)

	_, err := uc.SetPriority(context.Background(), "missing", domain.PriorityLow)

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestUpdate_PendingAppliesAllowListedFields(t *testing.T) {
	uc, repos := newTestUsecase()
	motivation := "Updated motivation"
	priority := domain.PriorityHigh

	repos.apps.On("GetByID", mock.Anything, "a1").Return(pendingApp("a1"), nil)
	repos.apps.On("UpdatePending", mock.Anything, mock.AnythingOfType("*domain.Application")).
		Return(int64(1), nil).
		Run(func(args mock.Arguments) {
			updated := args.Get(1).(*domain.Application)
			assert.Equal(t, "Updated motivation", updated.Motivation)
			assert.Equal(t, domain.PriorityHigh, updated.Priority)
		})

	app, err := uc.Update(context.Background(), "a1", domain.ApplicationPatch{
		Motivation: &motivation,
		Priority:   &priority,
	})

	require.NoError(t, err)
	assert.Equal(t, "Updated motivation", app.Motivation)
}

func TestUpdate_ReviewedFailsCannotModify(t *testing.T) {
	uc, repos := newTestUsecase()
	notes := "late edit"
	repos.apps.On("GetByID", mock.Anything, "a1").Return(reviewedApp("a1"), nil)

	_, err := uc.Update(context.Background(), "a1", domain.ApplicationPatch{Notes: &notes})

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindCannotModifyReviewed, appErr.Kind)
	repos.apps.AssertNotCalled(t, "UpdatePending", mock.Anything, mock.Anything)
}

func TestSoftDelete_Pending(t *testing.T) {
	uc, repos := newTestUsecase()
	repos.apps.On("GetByID", mock.Anything, "a1").Return(pendingApp("a1"), nil)
	repos.apps.On("Deactivate", mock.Anything, "a1").Return(int64(1), nil)

	err := uc.SoftDelete(context.Background(), "a1")

	assert.NoError(t, err)
}

func TestSoftDelete_ReviewedFails(t *testing.T) {
	uc, repos := newTestUsecase()
	repos.apps.On("GetByID", mock.Anything, "a1").Return(reviewedApp("a1"), nil)

	err := uc.SoftDelete(context.Background(), "a1")

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindCannotModifyReviewed, appErr.Kind)
	repos.apps.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

func TestSoftDelete_LostRaceFails(t *testing.T) {
	uc, repos := newTestUsecase()
	repos.apps.On("GetByID", mock.Anything, "a1").Return(pendingApp("a1"), nil)
	repos.apps.On("Deactivate", mock.Anything, "a1").Return(int64(0), nil)

	err := uc.SoftDelete(context.Background(), "a1")

	appErr := asAppError(t, err)
	assert.Equal(t, apperror.KindCannotModifyReviewed, appErr.Kind)
}
