package domain

import "context"

// ProfessionalRepository is the professional directory collaborator.
// The engine only needs identifier validity.
type ProfessionalRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// EmployerRepository is the employer directory collaborator, used to
// validate reviewer attribution on review calls.
type EmployerRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}
