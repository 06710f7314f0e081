package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) GetMemberWorkload(ctx context.Context, userID, teamID string) (*domain.MemberWorkload, error) {
	args := m.Called(ctx, userID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberWorkload), args.Error(1)
}

// MockTeamDirectory is a mock implementation of ports.TeamDirectory
type MockTeamDirectory struct {
	mock.Mock
}

func NewMockTeamDirectory() *MockTeamDirectory {
	return &MockTeamDirectory{}
}

func (m *MockTeamDirectory) ListTeamMembers(ctx context.Context, teamID string) ([]domain.MemberProfile, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberProfile), args.Error(1)
}

func (m *MockTeamDirectory) GetMemberProfile(ctx context.Context, userID, teamID string) (*domain.MemberProfile, error) {
	args := m.Called(ctx, userID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberProfile), args.Error(1)
}

// MockWorkloadEventStore is a mock implementation of ports.WorkloadEventStore
type MockWorkloadEventStore struct {
	mock.Mock
}

func NewMockWorkloadEventStore() *MockWorkloadEventStore {
	return &MockWorkloadEventStore{}
}

func (m *MockWorkloadEventStore) AppendWorkloadEvent(ctx context.Context, event *domain.WorkloadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWorkloadEventStore) ListWorkloadEvents(ctx context.Context, userID, teamID string, limit int) ([]*domain.WorkloadEvent, error) {
	args := m.Called(ctx, userID, teamID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkloadEvent), args.Error(1)
}

// MockRiskNotifier is a mock implementation of ports.RiskNotifier
type MockRiskNotifier struct {
	mock.Mock
}

func NewMockRiskNotifier() *MockRiskNotifier {
	return &MockRiskNotifier{}
}

func (m *MockRiskNotifier) NotifyRisk(ctx context.Context, params ports.RiskNotification) {
	m.Called(ctx, params)
}

// MockAlertBroadcaster is a mock implementation of ports.AlertBroadcaster
type MockAlertBroadcaster struct {
	mock.Mock
}

func NewMockAlertBroadcaster() *MockAlertBroadcaster {
	return &MockAlertBroadcaster{}
}

func (m *MockAlertBroadcaster) Broadcast(event domain.DistributionAlertEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockCapacityService is a mock implementation of ports.CapacityService
type MockCapacityService struct {
	mock.Mock
}

func NewMockCapacityService() *MockCapacityService {
	return &MockCapacityService{}
}

func (m *MockCapacityService) GetCapacityProfile(ctx context.Context, userID, teamID string) (*domain.CapacityProfile, error) {
	args := m.Called(ctx, userID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapacityProfile), args.Error(1)
}

func (m *MockCapacityService) UpdateMemberWorkload(ctx context.Context, params ports.UpdateWorkloadParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCapacityService) ListWorkloadEvents(ctx context.Context, userID, teamID string, limit int) ([]*domain.WorkloadEvent, error) {
	args := m.Called(ctx, userID, teamID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkloadEvent), args.Error(1)
}

// MockImpactService is a mock implementation of ports.ImpactService
type MockImpactService struct {
	mock.Mock
}

func NewMockImpactService() *MockImpactService {
	return &MockImpactService{}
}

func (m *MockImpactService) AnalyzeAssignment(ctx context.Context, req domain.AssignmentRequest) (*domain.AssignmentImpactAnalysis, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssignmentImpactAnalysis), args.Error(1)
}

// MockDistributionService is a mock implementation of ports.DistributionService
type MockDistributionService struct {
	mock.Mock
}

func NewMockDistributionService() *MockDistributionService {
	return &MockDistributionService{}
}

func (m *MockDistributionService) GetTeamDistribution(ctx context.Context, teamID string) (*domain.TeamDistribution, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamDistribution), args.Error(1)
}

// MockRiskAssessmentService is a mock implementation of ports.RiskAssessmentService
type MockRiskAssessmentService struct {
	mock.Mock
}

func NewMockRiskAssessmentService() *MockRiskAssessmentService {
	return &MockRiskAssessmentService{}
}

func (m *MockRiskAssessmentService) AssessTicketEvent(ctx context.Context, params ports.TicketEventParams) (*domain.RiskAssessment, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiskAssessment), args.Error(1)
}

func (m *MockRiskAssessmentService) Shutdown() {
	m.Called()
}
