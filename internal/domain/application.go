package domain

import (
	"context"
	"fmt"
	"time"
)

// Status is the lifecycle state of an application.
// pending is the only non-terminal state; accepted and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Priority of an application. Mutable in any lifecycle state.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority converts a raw string to a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Field limits enforced at creation and on pending-state edits.
const (
	MaxCoverLetterLen = 1000
	MaxMotivationLen  = 500
	MaxNotesLen       = 500
	MaxSkills         = 10
	MaxSkillLen       = 50
)

// Application is a professional's application to a job offer.
//
// reviewed_at is set exactly once, at the first transition out of pending;
// after that only priority may change. is_active=false removes the record
// from listings but never from storage or from the per-offer count.
type Application struct {
	ID               string     `json:"id"`
	ProfessionalID   string     `json:"professional_id"`
	JobOfferID       string     `json:"job_offer_id"`
	Status           Status     `json:"status"`
	Priority         Priority   `json:"priority"`
	CoverLetter      string     `json:"cover_letter,omitempty"`
	Motivation       string     `json:"motivation,omitempty"`
	SalaryAmount     float64    `json:"salary_amount"`
	SalaryCurrency   string     `json:"salary_currency"`
	SalaryNegotiable bool       `json:"salary_negotiable"`
	AvailabilityDate time.Time  `json:"availability_date"`
	Skills           []string   `json:"skills,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	ReviewedBy       *string    `json:"reviewed_by,omitempty"`
	AppliedAt        time.Time  `json:"applied_at"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	IsActive         bool       `json:"is_active"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EligibilityReason explains an eligibility verdict.
type EligibilityReason string

const (
	ReasonCanApply            EligibilityReason = "CAN_APPLY"
	ReasonAlreadyApplied      EligibilityReason = "ALREADY_APPLIED"
	ReasonMonthlyLimitReached EligibilityReason = "MONTHLY_LIMIT_REACHED"
)

// EligibilityResult is the verdict of the pre-creation eligibility check.
type EligibilityResult struct {
	CanApply     bool              `json:"can_apply"`
	Reason       EligibilityReason `json:"reason"`
	MonthlyCount int               `json:"monthly_count"`
}

// ApplicationDraft is the input for creating an application.
type ApplicationDraft struct {
	ProfessionalID   string  `validate:"required"`
	JobOfferID       string  `validate:"required"`
	CoverLetter      string  `validate:"max=1000"`
	Motivation       string  `validate:"max=500"`
	SalaryAmount     float64 `validate:"gte=0"`
	SalaryCurrency   string  `validate:"required,len=3"`
	SalaryNegotiable bool
	AvailabilityDate time.Time `validate:"required"`
	Skills           []string  `validate:"max=10,dive,max=50"`
	Notes            string    `validate:"max=500"`
	Priority         *Priority
}

// ApplicationPatch is the pending-only edit allow-list. Nil fields are left
// untouched.
type ApplicationPatch struct {
	CoverLetter      *string  `validate:"omitempty,max=1000"`
	Motivation       *string  `validate:"omitempty,max=500"`
	SalaryAmount     *float64 `validate:"omitempty,gte=0"`
	SalaryCurrency   *string  `validate:"omitempty,len=3"`
	SalaryNegotiable *bool
	AvailabilityDate *time.Time
	Skills           *[]string `validate:"omitempty,max=10,dive,max=50"`
	Notes            *string   `validate:"omitempty,max=500"`
	Priority         *Priority
}

// ListFilter narrows list queries. Page is 1-based.
type ListFilter struct {
	Status   *Status
	Page     int
	PageSize int
}

// StatsReport is the point-in-time rollup over all application records.
type StatsReport struct {
	Total           int64   `json:"total"`
	Pending         int64   `json:"pending"`
	Accepted        int64   `json:"accepted"`
	Rejected        int64   `json:"rejected"`
	AvgDaysToReview float64 `json:"avg_days_to_review"`
}

// ApplicationRepository is the Record Store surface for applications.
//
// Create must enforce the (professional_id, job_offer_id) uniqueness at
// write time and surface a lost race as ErrDuplicate. The conditional
// mutators (MarkReviewed, UpdatePending, Deactivate) apply only while the
// record is still pending and report how many rows they touched, so callers
// can tell a lost race from a missing record.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	ExistsForPair(ctx context.Context, professionalID, jobOfferID string) (bool, error)
	CountByProfessionalBetween(ctx context.Context, professionalID string, from, to time.Time) (int, error)
	CountByJobOffer(ctx context.Context, jobOfferID string) (int64, error)
	ListByProfessional(ctx context.Context, professionalID string, filter ListFilter) ([]Application, int64, error)
	ListByJobOffer(ctx context.Context, jobOfferID string, filter ListFilter) ([]Application, int64, error)
	ListAll(ctx context.Context) ([]Application, error)
	MarkReviewed(ctx context.Context, id string, status Status, reviewedAt time.Time, reviewedBy *string, notes *string) (int64, error)
	UpdatePriority(ctx context.Context, id string, priority Priority) error
	UpdatePending(ctx context.Context, app *Application) (int64, error)
	Deactivate(ctx context.Context, id string) (int64, error)
}

// ApplicationUsecase is the engine's synchronous API.
type ApplicationUsecase interface {
	CheckEligibility(ctx context.Context, professionalID, jobOfferID string, now time.Time) (*EligibilityResult, error)
	Create(ctx context.Context, draft ApplicationDraft) (*Application, error)
	Review(ctx context.Context, id string, decision Status, reviewerID *string, notes *string) (*Application, error)
	SetPriority(ctx context.Context, id string, priority Priority) (*Application, error)
	Update(ctx context.Context, id string, patch ApplicationPatch) (*Application, error)
	SoftDelete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Application, error)
	ListByProfessional(ctx context.Context, professionalID string, filter ListFilter) ([]Application, int64, error)
	ListByJobOffer(ctx context.Context, jobOfferID string, filter ListFilter) ([]Application, int64, error)
}

// StatsUsecase is the read-only reporting surface.
type StatsUsecase interface {
	GetStats(ctx context.Context) (*StatsReport, error)
	ExportApplications(ctx context.Context, format string) ([]byte, string, error)
}
