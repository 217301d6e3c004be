package postgres

import (
	"context"

	"go-jobmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type professionalRepo struct {
	db *pgxpool.Pool
}

// NewProfessionalRepository creates the professional directory repository
func NewProfessionalRepository(db *pgxpool.Pool) domain.ProfessionalRepository {
	return &professionalRepo{db: db}
}

func (r *professionalRepo) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM professionals WHERE id = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}

type employerRepo struct {
	db *pgxpool.Pool
}

// NewEmployerRepository creates the employer directory repository
func NewEmployerRepository(db *pgxpool.Pool) domain.EmployerRepository {
	return &employerRepo{db: db}
}

func (r *employerRepo) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM employers WHERE id = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}
