package postgres

import (
	"context"
	"errors"
	"time"

	"go-jobmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobOfferRepo struct {
	db *pgxpool.Pool
}

// NewJobOfferRepository creates the job-offer directory repository.
// The engine only reads offers, except for application_count which the
// reconciler owns.
func NewJobOfferRepository(db *pgxpool.Pool) domain.JobOfferRepository {
	return &jobOfferRepo{db: db}
}

func (r *jobOfferRepo) GetByID(ctx context.Context, id string) (*domain.JobOffer, error) {
	query := `SELECT id, title, status, deadline, application_count FROM job_offers WHERE id = $1`
	var offer domain.JobOffer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&offer.ID, &offer.Title, &offer.Status, &offer.Deadline, &offer.ApplicationCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &offer, nil
}

// IsAcceptingApplications reports whether the offer is open and its
// deadline (when set) has not passed.
func (r *jobOfferRepo) IsAcceptingApplications(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		SELECT status = 'open' AND (deadline IS NULL OR deadline >= $2)
		FROM job_offers WHERE id = $1`
	var accepting bool
	err := r.db.QueryRow(ctx, query, id, now).Scan(&accepting)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	return accepting, nil
}

// SetApplicationCount writes the engine-owned derived count. Only the
// reconciler calls this.
func (r *jobOfferRepo) SetApplicationCount(ctx context.Context, id string, count int64) error {
	query := `UPDATE job_offers SET application_count = $2 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, count)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
