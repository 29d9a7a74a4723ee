package http

import (
	"context"

	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/projectpulse/jira-dashboard-service/internal/jira"
	"github.com/projectpulse/jira-dashboard-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type ProjectServiceMock struct {
	mock.Mock
}

var _ service.ProjectService = (*ProjectServiceMock)(nil)

func (m *ProjectServiceMock) ListProjects(ctx context.Context, filter domain.ProjectFilter) (*service.ProjectListing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.ProjectListing), args.Error(1)
}

func (m *ProjectServiceMock) GetProject(ctx context.Context, id string) (*service.ProjectDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.ProjectDetails), args.Error(1)
}

func (m *ProjectServiceMock) ListProjectIssues(ctx context.Context, projectID string) ([]domain.Issue, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *ProjectServiceMock) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *ProjectServiceMock) UpdateProject(ctx context.Context, id string, update domain.ProjectUpdate) (*domain.Project, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *ProjectServiceMock) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *ProjectServiceMock) ListTeams(ctx context.Context) ([]domain.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Team), args.Error(1)
}

type SyncServiceMock struct {
	mock.Mock
}

var _ service.SyncService = (*SyncServiceMock)(nil)

func (m *SyncServiceMock) TestConnection(ctx context.Context, creds service.Credentials) (*jira.Myself, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*jira.Myself), args.Error(1)
}

func (m *SyncServiceMock) RunSync(ctx context.Context, creds service.Credentials) (*domain.SyncResult, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.SyncResult), args.Error(1)
}
