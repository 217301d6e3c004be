package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-jobmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

const applicationColumns = `
	id, professional_id, job_offer_id, status, priority,
	cover_letter, motivation, salary_amount, salary_currency, salary_negotiable,
	availability_date, skills, notes, reviewed_by, applied_at, reviewed_at,
	is_active, updated_at`

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application. The unique index on
// (professional_id, job_offer_id) is the commit-time authority for the
// one-application-per-pair invariant; its violation surfaces as
// domain.ErrDuplicate.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.Exec(ctx, query,
		app.ID, app.ProfessionalID, app.JobOfferID, app.Status, app.Priority,
		app.CoverLetter, app.Motivation, app.SalaryAmount, app.SalaryCurrency, app.SalaryNegotiable,
		app.AvailabilityDate, pq.Array(app.Skills), app.Notes, app.ReviewedBy, app.AppliedAt, app.ReviewedAt,
		app.IsActive, app.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

// ExistsForPair checks for any application (active or not) with this exact pair
func (r *applicationRepo) ExistsForPair(ctx context.Context, professionalID, jobOfferID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE professional_id = $1 AND job_offer_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, professionalID, jobOfferID).Scan(&exists)
	return exists, err
}

// CountByProfessionalBetween counts applications whose applied_at falls in
// the half-open [from, to) interval, regardless of is_active.
func (r *applicationRepo) CountByProfessionalBetween(ctx context.Context, professionalID string, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM applications WHERE professional_id = $1 AND applied_at >= $2 AND applied_at < $3`
	var count int
	err := r.db.QueryRow(ctx, query, professionalID, from, to).Scan(&count)
	return count, err
}

// CountByJobOffer counts all applications for an offer, all statuses and
// both is_active values.
func (r *applicationRepo) CountByJobOffer(ctx context.Context, jobOfferID string) (int64, error) {
	query := `SELECT COUNT(*) FROM applications WHERE job_offer_id = $1`
	var count int64
	err := r.db.QueryRow(ctx, query, jobOfferID).Scan(&count)
	return count, err
}

// ListByProfessional retrieves active applications for a professional
func (r *applicationRepo) ListByProfessional(ctx context.Context, professionalID string, filter domain.ListFilter) ([]domain.Application, int64, error) {
	return r.list(ctx, "professional_id", professionalID, filter)
}

// ListByJobOffer retrieves active applications for a job offer
func (r *applicationRepo) ListByJobOffer(ctx context.Context, jobOfferID string, filter domain.ListFilter) ([]domain.Application, int64, error) {
	return r.list(ctx, "job_offer_id", jobOfferID, filter)
}

func (r *applicationRepo) list(ctx context.Context, column, value string, filter domain.ListFilter) ([]domain.Application, int64, error) {
	// Soft-deleted records are excluded from every listing
	countQuery := `SELECT COUNT(*) FROM applications WHERE ` + column + ` = $1 AND is_active = TRUE`
	listQuery := `SELECT ` + applicationColumns + ` FROM applications
		WHERE ` + column + ` = $1 AND is_active = TRUE`

	args := []interface{}{value}
	if filter.Status != nil {
		countQuery += ` AND status = $2`
		listQuery += ` AND status = $2`
		args = append(args, *filter.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	listQuery += fmt.Sprintf(` ORDER BY applied_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps, err := scanApplications(rows)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// ListAll retrieves every application record, active or not
func (r *applicationRepo) ListAll(ctx context.Context) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY applied_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// MarkReviewed moves a pending application to a terminal status. The
// status precondition lives in the WHERE clause so a lost race shows up as
// zero rows affected instead of a silent overwrite.
func (r *applicationRepo) MarkReviewed(ctx context.Context, id string, status domain.Status, reviewedAt time.Time, reviewedBy *string, notes *string) (int64, error) {
	query := `
		UPDATE applications
		SET status = $2, reviewed_at = $3, reviewed_by = $4,
		    notes = COALESCE($5, notes), updated_at = $3
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, id, status, reviewedAt, reviewedBy, notes)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// UpdatePriority updates the priority in any status, no timestamp side
// effects beyond updated_at.
func (r *applicationRepo) UpdatePriority(ctx context.Context, id string, priority domain.Priority) error {
	query := `UPDATE applications SET priority = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, priority, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePending writes the mutable content fields while the record is
// still pending.
func (r *applicationRepo) UpdatePending(ctx context.Context, app *domain.Application) (int64, error) {
	query := `
		UPDATE applications
		SET cover_letter = $2, motivation = $3, salary_amount = $4,
		    salary_currency = $5, salary_negotiable = $6, availability_date = $7,
		    skills = $8, notes = $9, priority = $10, updated_at = $11
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query,
		app.ID, app.CoverLetter, app.Motivation, app.SalaryAmount,
		app.SalaryCurrency, app.SalaryNegotiable, app.AvailabilityDate,
		pq.Array(app.Skills), app.Notes, app.Priority, app.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// Deactivate soft-deletes a pending application
func (r *applicationRepo) Deactivate(ctx context.Context, id string) (int64, error) {
	query := `UPDATE applications SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND status = 'pending'`
	result, err := r.db.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ID, &app.ProfessionalID, &app.JobOfferID, &app.Status, &app.Priority,
		&app.CoverLetter, &app.Motivation, &app.SalaryAmount, &app.SalaryCurrency, &app.SalaryNegotiable,
		&app.AvailabilityDate, pq.Array(&app.Skills), &app.Notes, &app.ReviewedBy, &app.AppliedAt, &app.ReviewedAt,
		&app.IsActive, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func scanApplications(rows pgx.Rows) ([]domain.Application, error) {
	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}
