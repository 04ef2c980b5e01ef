package mocks

import (
	"context"
	"time"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockReferenceDataRepository is a mock implementation of ports.ReferenceDataRepository
type MockReferenceDataRepository struct {
	mock.Mock
}

func NewMockReferenceDataRepository() *MockReferenceDataRepository {
	return &MockReferenceDataRepository{}
}

func (m *MockReferenceDataRepository) ListUnits(ctx context.Context) ([]domain.OrgUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrgUnit), args.Error(1)
}

func (m *MockReferenceDataRepository) ListGroupingMembers(ctx context.Context) ([]domain.GroupingMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupingMember), args.Error(1)
}

func (m *MockReferenceDataRepository) ListGrants(ctx context.Context) ([]domain.AccessGrant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccessGrant), args.Error(1)
}

func (m *MockReferenceDataRepository) ListUsernames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAccessResolver is a mock implementation of ports.AccessResolver
type MockAccessResolver struct {
	mock.Mock
}

func NewMockAccessResolver() *MockAccessResolver {
	return &MockAccessResolver{}
}

func (m *MockAccessResolver) Resolve(ctx context.Context, username string) (*ports.ResolvedAccess, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ResolvedAccess), args.Error(1)
}

// MockUserDirectory is a mock implementation of ports.UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func NewMockUserDirectory() *MockUserDirectory {
	return &MockUserDirectory{}
}

func (m *MockUserDirectory) ListUsers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) FetchUpdatedSince(ctx context.Context, since time.Time) ([]domain.Ticket, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

// MockMetricsService is a mock implementation of ports.MetricsService
type MockMetricsService struct {
	mock.Mock
}

func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) GetMetrics(ctx context.Context, params ports.GetMetricsParams) (*domain.MetricsReport, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricsReport), args.Error(1)
}
