package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/projectpulse/jira-dashboard-service/internal/apperrors"
	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProjectServiceImpl_ListProjects(t *testing.T) {
	ctx := context.Background()

	projects := []domain.Project{
		{ID: "p1", Name: "Apollo", JiraKey: "APOLLO"},
		{ID: "p2", Name: "Borealis", JiraKey: "BOR"},
	}
	stats := &domain.ProjectStats{TotalProjects: 2, ActiveProjects: 2}

	testCases := []struct {
		name          string
		filter        domain.ProjectFilter
		setupMock     func(*ProjectRepositoryMock)
		expectedCount int
		expectedError bool
	}{
		{
			name:   "Success",
			filter: domain.ProjectFilter{Status: []string{"active"}},
			setupMock: func(repoMock *ProjectRepositoryMock) {
				repoMock.On("List", mock.Anything, domain.ProjectFilter{Status: []string{"active"}}).
					Return(projects, nil).Once()
				repoMock.On("Stats", mock.Anything).Return(stats, nil).Once()
			},
			expectedCount: 2,
		},
		{
			name:   "Failure: listing error",
			filter: domain.ProjectFilter{},
			setupMock: func(repoMock *ProjectRepositoryMock) {
				repoMock.On("List", mock.Anything, mock.Anything).
					Return(nil, errors.New("database connection lost")).Once()
			},
			expectedError: true,
		},
		{
			name:   "Failure: stats error",
			filter: domain.ProjectFilter{},
			setupMock: func(repoMock *ProjectRepositoryMock) {
				repoMock.On("List", mock.Anything, mock.Anything).Return(projects, nil).Once()
				repoMock.On("Stats", mock.Anything).
					Return(nil, errors.New("database connection lost")).Once()
			},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repoMock := new(ProjectRepositoryMock)
			tc.setupMock(repoMock)

			svc := NewProjectService(discardLogger(), repoMock, nil, nil)

			listing, err := svc.ListProjects(ctx, tc.filter)

			if tc.expectedError {
				assert.Error(t, err)
				assert.Nil(t, listing)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedCount, listing.Count)
				assert.Len(t, listing.Projects, tc.expectedCount)
				assert.Equal(t, stats, listing.Stats)
			}

			repoMock.AssertExpectations(t)
		})
	}
}

func TestProjectServiceImpl_GetProject(t *testing.T) {
	ctx := context.Background()

	project := &domain.Project{ID: "p1", Name: "Apollo", JiraKey: "APOLLO"}

	testCases := []struct {
		name          string
		setupMock     func(*ProjectRepositoryMock, *IssueRepositoryMock)
		expectedError error
	}{
		{
			name: "Success",
			setupMock: func(projects *ProjectRepositoryMock, issues *IssueRepositoryMock) {
				projects.On("GetByID", mock.Anything, "p1").Return(project, nil).Once()
				issues.On("CountByProject", mock.Anything, "p1").Return(7, nil).Once()
			},
		},
		{
			name: "Failure: project not found",
			setupMock: func(projects *ProjectRepositoryMock, issues *IssueRepositoryMock) {
				projects.On("GetByID", mock.Anything, "p1").Return(nil, apperrors.ErrNotFound).Once()
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			projectsMock := new(ProjectRepositoryMock)
			issuesMock := new(IssueRepositoryMock)
			tc.setupMock(projectsMock, issuesMock)

			svc := NewProjectService(discardLogger(), projectsMock, issuesMock, nil)

			details, err := svc.GetProject(ctx, "p1")

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, details)
			} else {
				require.NoError(t, err)
				assert.Equal(t, *project, details.Project)
				assert.Equal(t, 7, details.IssueCount)
			}

			projectsMock.AssertExpectations(t)
			issuesMock.AssertExpectations(t)
		})
	}
}

func TestProjectServiceImpl_ListProjectIssues(t *testing.T) {
	ctx := context.Background()

	project := &domain.Project{ID: "p1", Name: "Apollo"}
	issues := []domain.Issue{
		{ID: "i1", JiraKey: "APOLLO-1", ProjectID: "p1"},
	}

	t.Run("Success", func(t *testing.T) {
		projectsMock := new(ProjectRepositoryMock)
		issuesMock := new(IssueRepositoryMock)
		projectsMock.On("GetByID", mock.Anything, "p1").Return(project, nil).Once()
		issuesMock.On("ListByProject", mock.Anything, "p1").Return(issues, nil).Once()

		svc := NewProjectService(discardLogger(), projectsMock, issuesMock, nil)

		got, err := svc.ListProjectIssues(ctx, "p1")

		require.NoError(t, err)
		assert.Equal(t, issues, got)
		projectsMock.AssertExpectations(t)
		issuesMock.AssertExpectations(t)
	})

	t.Run("Unknown project is a not found error, not an empty list", func(t *testing.T) {
		projectsMock := new(ProjectRepositoryMock)
		issuesMock := new(IssueRepositoryMock)
		projectsMock.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

		svc := NewProjectService(discardLogger(), projectsMock, issuesMock, nil)

		got, err := svc.ListProjectIssues(ctx, "missing")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, got)
		projectsMock.AssertExpectations(t)
		issuesMock.AssertExpectations(t)
	})
}

func TestProjectServiceImpl_CreateProject(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		input         *domain.Project
		setupMock     func(*ProjectRepositoryMock)
		expectedError error
	}{
		{
			name:  "Success: defaults are applied",
			input: &domain.Project{Name: "Apollo", JiraKey: "APOLLO", JiraProjectID: "10001"},
			setupMock: func(repoMock *ProjectRepositoryMock) {
				repoMock.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Project) bool {
					return p.Status == domain.ProjectActive &&
						p.Health == domain.HealthUnknown &&
						p.LastSyncedAt != nil
				})).Return(&domain.Project{ID: "p1", Name: "Apollo"}, nil).Once()
			},
		},
		{
			name: "Success: explicit status is kept",
			input: &domain.Project{
				Name: "Apollo", JiraKey: "APOLLO", JiraProjectID: "10001",
				Status: domain.ProjectOnHold, Health: domain.HealthAtRisk,
			},
			setupMock: func(repoMock *ProjectRepositoryMock) {
				repoMock.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Project) bool {
					return p.Status == domain.ProjectOnHold && p.Health == domain.HealthAtRisk
				})).Return(&domain.Project{ID: "p1", Name: "Apollo"}, nil).Once()
			},
		},
		{
			name:  "Failure: duplicate jira key",
			input: &domain.Project{Name: "Apollo", JiraKey: "APOLLO", JiraProjectID: "10001"},
			setupMock: func(repoMock *ProjectRepositoryMock) {
				repoMock.On("Create", mock.Anything, mock.Anything).
					Return(nil, &apperrors.ProjectExistsError{JiraKey: "APOLLO"}).Once()
			},
			expectedError: apperrors.ErrAlreadyExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repoMock := new(ProjectRepositoryMock)
			tc.setupMock(repoMock)

			svc := NewProjectService(discardLogger(), repoMock, nil, nil)

			saved, err := svc.CreateProject(ctx, tc.input)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, saved)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "p1", saved.ID)
			}

			repoMock.AssertExpectations(t)
		})
	}
}

func TestProjectServiceImpl_UpdateProject(t *testing.T) {
	ctx := context.Background()

	name := "Renamed"
	update := domain.ProjectUpdate{Name: &name}

	t.Run("Success", func(t *testing.T) {
		repoMock := new(ProjectRepositoryMock)
		repoMock.On("Update", mock.Anything, "p1", update).
			Return(&domain.Project{ID: "p1", Name: name}, nil).Once()

		svc := NewProjectService(discardLogger(), repoMock, nil, nil)

		saved, err := svc.UpdateProject(ctx, "p1", update)

		require.NoError(t, err)
		assert.Equal(t, name, saved.Name)
		repoMock.AssertExpectations(t)
	})

	t.Run("Failure: not found", func(t *testing.T) {
		repoMock := new(ProjectRepositoryMock)
		repoMock.On("Update", mock.Anything, "missing", update).
			Return(nil, apperrors.ErrNotFound).Once()

		svc := NewProjectService(discardLogger(), repoMock, nil, nil)

		saved, err := svc.UpdateProject(ctx, "missing", update)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, saved)
		repoMock.AssertExpectations(t)
	})
}

func TestProjectServiceImpl_ListTeams(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		teamsMock := new(TeamRepositoryMock)
		teamsMock.On("List", mock.Anything).Return([]domain.Team{
			{ID: "t1", Name: "Platform"},
		}, nil).Once()

		svc := NewProjectService(discardLogger(), nil, nil, teamsMock)

		teams, err := svc.ListTeams(ctx)

		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, "Platform", teams[0].Name)
		teamsMock.AssertExpectations(t)
	})

	t.Run("Failure: repository error", func(t *testing.T) {
		teamsMock := new(TeamRepositoryMock)
		teamsMock.On("List", mock.Anything).
			Return(nil, errors.New("database connection lost")).Once()

		svc := NewProjectService(discardLogger(), nil, nil, teamsMock)

		teams, err := svc.ListTeams(ctx)

		assert.Error(t, err)
		assert.Nil(t, teams)
		teamsMock.AssertExpectations(t)
	})
}

func TestProjectServiceImpl_DeleteProject(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repoMock := new(ProjectRepositoryMock)
		repoMock.On("Delete", mock.Anything, "p1").Return(nil).Once()

		svc := NewProjectService(discardLogger(), repoMock, nil, nil)

		err := svc.DeleteProject(ctx, "p1")

		require.NoError(t, err)
		repoMock.AssertExpectations(t)
	})

	t.Run("Failure: not found", func(t *testing.T) {
		repoMock := new(ProjectRepositoryMock)
		repoMock.On("Delete", mock.Anything, "missing").Return(apperrors.ErrNotFound).Once()

		svc := NewProjectService(discardLogger(), repoMock, nil, nil)

		err := svc.DeleteProject(ctx, "missing")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		repoMock.AssertExpectations(t)
	})
}
