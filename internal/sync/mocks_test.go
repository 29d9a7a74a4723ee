package sync

import (
	"context"

	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/projectpulse/jira-dashboard-service/internal/jira"
	"github.com/stretchr/testify/mock"
)

type TrackerMock struct {
	mock.Mock
}

var _ Tracker = (*TrackerMock)(nil)

func (m *TrackerMock) GetProjects(ctx context.Context, maxResults int) ([]jira.RawProject, error) {
	args := m.Called(ctx, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]jira.RawProject), args.Error(1)
}

func (m *TrackerMock) SearchIssues(ctx context.Context, jql string, maxResults int) ([]jira.RawIssue, error) {
	args := m.Called(ctx, jql, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]jira.RawIssue), args.Error(1)
}

type ProjectStoreMock struct {
	mock.Mock
}

var _ ProjectStore = (*ProjectStoreMock)(nil)

func (m *ProjectStoreMock) Upsert(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Project), args.Error(1)
}

type IssueStoreMock struct {
	mock.Mock
}

var _ IssueStore = (*IssueStoreMock)(nil)

func (m *IssueStoreMock) UpsertBatch(ctx context.Context, issues []domain.Issue) (int, error) {
	args := m.Called(ctx, issues)
	return args.Int(0), args.Error(1)
}
