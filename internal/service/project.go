// package service implements the business logic between the HTTP transport
// and the repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/projectpulse/jira-dashboard-service/internal/repository"
)

// ProjectListing is the dashboard listing payload: filtered projects plus the
// header stats.
type ProjectListing struct {
	Projects []domain.Project     `json:"projects"`
	Stats    *domain.ProjectStats `json:"stats"`
	Count    int                  `json:"count"`
}

// ProjectDetails is a single project with its stored issue count.
type ProjectDetails struct {
	domain.Project
	IssueCount int `json:"issues_count"`
}

type ProjectService interface {
	ListProjects(ctx context.Context, filter domain.ProjectFilter) (*ProjectListing, error)
	GetProject(ctx context.Context, id string) (*ProjectDetails, error)
	ListProjectIssues(ctx context.Context, projectID string) ([]domain.Issue, error)
	CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, update domain.ProjectUpdate) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListTeams(ctx context.Context) ([]domain.Team, error)
}

type ProjectServiceImpl struct {
	log      *slog.Logger
	projects repository.ProjectRepository
	issues   repository.IssueRepository
	teams    repository.TeamRepository
}

func NewProjectService(
	log *slog.Logger,
	projects repository.ProjectRepository,
	issues repository.IssueRepository,
	teams repository.TeamRepository,
) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		log:      log,
		projects: projects,
		issues:   issues,
		teams:    teams,
	}
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context, filter domain.ProjectFilter) (*ProjectListing, error) {
	const op = "internal.service.project.ListProjects"

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list projects: %w", op, err)
	}

	stats, err := s.projects.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get project stats: %w", op, err)
	}

	return &ProjectListing{
		Projects: projects,
		Stats:    stats,
		Count:    len(projects),
	}, nil
}

func (s *ProjectServiceImpl) GetProject(ctx context.Context, id string) (*ProjectDetails, error) {
	const op = "internal.service.project.GetProject"

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get project: %w", op, err)
	}

	issueCount, err := s.issues.CountByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count issues: %w", op, err)
	}

	return &ProjectDetails{
		Project:    *project,
		IssueCount: issueCount,
	}, nil
}

func (s *ProjectServiceImpl) ListProjectIssues(ctx context.Context, projectID string) ([]domain.Issue, error) {
	const op = "internal.service.project.ListProjectIssues"

	// Ensure a 404 for unknown projects rather than an empty list.
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	issues, err := s.issues.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list issues: %w", op, err)
	}

	return issues, nil
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	const op = "internal.service.project.CreateProject"
	log := s.log.With(slog.String("op", op), slog.String("jira_key", project.JiraKey))

	if project.Status == "" {
		project.Status = domain.ProjectActive
	}

	if project.Health == "" {
		project.Health = domain.HealthUnknown
	}

	now := time.Now().UTC()
	project.LastSyncedAt = &now

	saved, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	log.Info("project created", slog.String("id", saved.ID))

	return saved, nil
}

func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, id string, update domain.ProjectUpdate) (*domain.Project, error) {
	const op = "internal.service.project.UpdateProject"

	saved, err := s.projects.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update project: %w", op, err)
	}

	return saved, nil
}

// ListTeams returns the teams available for project assignment.
func (s *ProjectServiceImpl) ListTeams(ctx context.Context) ([]domain.Team, error) {
	const op = "internal.service.project.ListTeams"

	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list teams: %w", op, err)
	}

	return teams, nil
}

func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, id string) error {
	const op = "internal.service.project.DeleteProject"
	log := s.log.With(slog.String("op", op), slog.String("id", id))

	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete project: %w", op, err)
	}

	log.Info("project deleted")

	return nil
}
