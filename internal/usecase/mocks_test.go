package usecase_test

import (
	"context"
	"os"
	"testing"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ExistsForPair(ctx context.Context, professionalID, jobOfferID string) (bool, error) {
	args := m.Called(ctx, professionalID, jobOfferID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) CountByProfessionalBetween(ctx context.Context, professionalID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, professionalID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockApplicationRepo) CountByJobOffer(ctx context.Context, jobOfferID string) (int64, error) {
	args := m.Called(ctx, jobOfferID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepo) ListByProfessional(ctx context.Context, professionalID string, filter domain.ListFilter) ([]domain.Application, int64, error) {
	args := m.Called(ctx, professionalID, filter)
	var items []domain.Application
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Application)
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockApplicationRepo) ListByJobOffer(ctx context.Context, jobOfferID string, filter domain.ListFilter) ([]domain.Application, int64, error) {
	args := m.Called(ctx, jobOfferID, filter)
	var items []domain.Application
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Application)
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockApplicationRepo) ListAll(ctx context.Context) ([]domain.Application, error) {
	args := m.Called(ctx)
	var items []domain.Application
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Application)
	}
	return items, args.Error(1)
}

func (m *MockApplicationRepo) MarkReviewed(ctx context.Context, id string, status domain.Status, reviewedAt time.Time, reviewedBy *string, notes *string) (int64, error) {
	args := m.Called(ctx, id, status, reviewedAt, reviewedBy, notes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepo) UpdatePriority(ctx context.Context, id string, priority domain.Priority) error {
	return m.Called(ctx, id, priority).Error(0)
}

func (m *MockApplicationRepo) UpdatePending(ctx context.Context, app *domain.Application) (int64, error) {
	args := m.Called(ctx, app)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepo) Deactivate(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockJobOfferRepo struct {
	mock.Mock
}

func (m *MockJobOfferRepo) GetByID(ctx context.Context, id string) (*domain.JobOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobOffer), args.Error(1)
}

func (m *MockJobOfferRepo) IsAcceptingApplications(ctx context.Context, id string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobOfferRepo) SetApplicationCount(ctx context.Context, id string, count int64) error {
	return m.Called(ctx, id, count).Error(0)
}

type MockProfessionalRepo struct {
	mock.Mock
}

func (m *MockProfessionalRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockEmployerRepo struct {
	mock.Mock
}

func (m *MockEmployerRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
