// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// service layer and the sync orchestrator.
package repository

import (
	"context"

	"github.com/projectpulse/jira-dashboard-service/internal/domain"
)

// ProjectRepository defines the contract for project persistence.
type ProjectRepository interface {
	// Upsert inserts or updates a project keyed by its jira project id and
	// returns the persisted row, including the generated local id.
	Upsert(ctx context.Context, project *domain.Project) (*domain.Project, error)

	// List returns projects matching the filter, most recently updated first.
	List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)

	// GetByID retrieves a project by its local id.
	// It returns apperrors.ErrNotFound if the project does not exist.
	GetByID(ctx context.Context, id string) (*domain.Project, error)

	// Create inserts a manually created project.
	// It returns apperrors.ErrAlreadyExists on a duplicate jira key or id.
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)

	// Update applies a partial update and returns the updated row.
	// It returns apperrors.ErrNotFound if the project does not exist.
	Update(ctx context.Context, id string, update domain.ProjectUpdate) (*domain.Project, error)

	// Delete removes a project and, via the schema's cascade, its issues.
	// It returns apperrors.ErrNotFound if the project does not exist.
	Delete(ctx context.Context, id string) error

	// Stats computes the dashboard header aggregate over all projects.
	Stats(ctx context.Context) (*domain.ProjectStats, error)
}

// IssueRepository defines the contract for issue persistence. Issues are
// written only by sync runs.
type IssueRepository interface {
	// UpsertBatch inserts or updates a batch of issues keyed by jira issue id
	// and returns the number of rows written.
	UpsertBatch(ctx context.Context, issues []domain.Issue) (int, error)

	// ListByProject returns a project's issues, newest created first.
	ListByProject(ctx context.Context, projectID string) ([]domain.Issue, error)

	// CountByProject returns the number of issues stored for a project.
	CountByProject(ctx context.Context, projectID string) (int, error)
}

// TeamRepository defines read-only access to teams; teams are not written by
// the sync flow.
type TeamRepository interface {
	List(ctx context.Context) ([]domain.Team, error)
}
