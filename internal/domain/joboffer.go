package domain

import (
	"context"
	"time"
)

// JobOffer is the slice of the job-offer directory the engine sees.
// application_count is the only field the engine writes, and only through
// the reconciler.
type JobOffer struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	ApplicationCount int64      `json:"application_count"`
}

// JobOfferRepository is the job-offer directory collaborator.
type JobOfferRepository interface {
	GetByID(ctx context.Context, id string) (*JobOffer, error)
	IsAcceptingApplications(ctx context.Context, id string, now time.Time) (bool, error)
	SetApplicationCount(ctx context.Context, id string, count int64) error
}
