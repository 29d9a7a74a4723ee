package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/projectpulse/jira-dashboard-service/internal/apperrors"
	"github.com/projectpulse/jira-dashboard-service/internal/domain"
)

var projectColumns = []string{
	"id", "name", "jira_key", "jira_project_id", "description",
	"status", "health", "health_score",
	"total_story_points", "completed_story_points", "total_issues", "completed_issues",
	"team_id", "last_synced_at", "created_at", "updated_at",
}

type ProjectRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewProjectRepository(db *sqlx.DB, log *slog.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Upsert writes a project keyed by jira_project_id. The local id and
// created_at survive updates; everything sync-derived is overwritten.
func (r *ProjectRepository) Upsert(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	const op = "internal.repository.postgres.project.Upsert"

	query, args, err := r.sq.Insert("projects").
		Columns(
			"name", "jira_key", "jira_project_id", "description",
			"status", "health", "health_score",
			"total_story_points", "completed_story_points", "total_issues", "completed_issues",
			"last_synced_at",
		).
		Values(
			project.Name, project.JiraKey, project.JiraProjectID, project.Description,
			project.Status, project.Health, project.HealthScore,
			project.TotalStoryPoints, project.CompletedStoryPoints, project.TotalIssues, project.CompletedIssues,
			project.LastSyncedAt,
		).
		Suffix(`ON CONFLICT (jira_project_id) DO UPDATE SET
			name = EXCLUDED.name,
			jira_key = EXCLUDED.jira_key,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			health = EXCLUDED.health,
			health_score = EXCLUDED.health_score,
			total_story_points = EXCLUDED.total_story_points,
			completed_story_points = EXCLUDED.completed_story_points,
			total_issues = EXCLUDED.total_issues,
			completed_issues = EXCLUDED.completed_issues,
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = now()
		RETURNING ` + columnList(projectColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}

	var saved domain.Project
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&saved); err != nil {
		return nil, fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	return &saved, nil
}

func (r *ProjectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	const op = "internal.repository.postgres.project.List"

	queryBuilder := r.sq.Select(projectColumns...).
		From("projects").
		OrderBy("updated_at DESC")

	if len(filter.Status) > 0 {
		queryBuilder = queryBuilder.Where(sq.Eq{"status": filter.Status})
	}

	if len(filter.Health) > 0 {
		queryBuilder = queryBuilder.Where(sq.Eq{"health": filter.Health})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		queryBuilder = queryBuilder.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"jira_key": pattern},
		})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var projects []domain.Project
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const op = "internal.repository.postgres.project.GetByID"

	query, args, err := r.sq.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var project domain.Project
	if err := r.db.GetContext(ctx, &project, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: project with id '%s'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to get project: %w", op, err)
	}

	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	const op = "internal.repository.postgres.project.Create"

	query, args, err := r.sq.Insert("projects").
		Columns(
			"name", "jira_key", "jira_project_id", "description",
			"status", "health", "health_score",
			"total_story_points", "completed_story_points", "total_issues", "completed_issues",
			"team_id", "last_synced_at",
		).
		Values(
			project.Name, project.JiraKey, project.JiraProjectID, project.Description,
			project.Status, project.Health, project.HealthScore,
			project.TotalStoryPoints, project.CompletedStoryPoints, project.TotalIssues, project.CompletedIssues,
			project.TeamID, project.LastSyncedAt,
		).
		Suffix("RETURNING " + columnList(projectColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var saved domain.Project
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&saved); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, &apperrors.ProjectExistsError{JiraKey: project.JiraKey}
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &saved, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, update domain.ProjectUpdate) (*domain.Project, error) {
	const op = "internal.repository.postgres.project.Update"

	updateBuilder := r.sq.Update("projects").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList(projectColumns))

	if update.Name != nil {
		updateBuilder = updateBuilder.Set("name", *update.Name)
	}

	if update.Description != nil {
		updateBuilder = updateBuilder.Set("description", *update.Description)
	}

	if update.Status != nil {
		updateBuilder = updateBuilder.Set("status", *update.Status)
	}

	if update.Health != nil {
		updateBuilder = updateBuilder.Set("health", *update.Health)
	}

	if update.TeamID != nil {
		updateBuilder = updateBuilder.Set("team_id", *update.TeamID)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var saved domain.Project
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&saved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: project with id '%s'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &saved, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	const op = "internal.repository.postgres.project.Delete"

	query, args, err := r.sq.Delete("projects").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w: project with id '%s'", op, apperrors.ErrNotFound, id)
	}

	return nil
}

func (r *ProjectRepository) Stats(ctx context.Context) (*domain.ProjectStats, error) {
	const op = "internal.repository.postgres.project.Stats"

	query, args, err := r.sq.Select(
		"COUNT(*) as total_projects",
		"COUNT(CASE WHEN status = 'active' THEN 1 END) as active_projects",
		"COUNT(CASE WHEN health = 'on_track' THEN 1 END) as on_track",
		"COUNT(CASE WHEN health = 'at_risk' THEN 1 END) as at_risk",
		"COUNT(CASE WHEN health = 'blocked' THEN 1 END) as blocked",
		"COALESCE(ROUND(AVG(COALESCE(health_score, 0))), 0)::int as avg_health_score",
	).
		From("projects").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var stats domain.ProjectStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &stats, nil
}

func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}
