package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/projectpulse/jira-dashboard-service/internal/domain"
)

var issueColumns = []string{
	"id", "jira_id", "jira_key", "project_id", "summary", "description",
	"issue_type", "status", "priority", "story_points", "labels", "components",
	"created_date", "updated_date", "resolved_date", "due_date",
	"is_blocked", "blocked_reason", "created_at", "updated_at",
}

type IssueRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewIssueRepository(db *sqlx.DB, log *slog.Logger) *IssueRepository {
	return &IssueRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// UpsertBatch writes a batch of issues in one statement, keyed by jira_id.
// Rows keep their local id and created_at across updates.
func (r *IssueRepository) UpsertBatch(ctx context.Context, issues []domain.Issue) (int, error) {
	const op = "internal.repository.postgres.issue.UpsertBatch"

	if len(issues) == 0 {
		return 0, nil
	}

	insertBuilder := r.sq.Insert("issues").
		Columns(
			"jira_id", "jira_key", "project_id", "summary", "description",
			"issue_type", "status", "priority", "story_points", "labels", "components",
			"created_date", "updated_date", "resolved_date", "due_date",
			"is_blocked", "blocked_reason",
		)

	for _, issue := range issues {
		insertBuilder = insertBuilder.Values(
			issue.JiraID, issue.JiraKey, issue.ProjectID, issue.Summary, issue.Description,
			issue.IssueType, issue.Status, issue.Priority, issue.StoryPoints, issue.Labels, issue.Components,
			issue.CreatedDate, issue.UpdatedDate, issue.ResolvedDate, issue.DueDate,
			issue.IsBlocked, issue.BlockedReason,
		)
	}

	query, args, err := insertBuilder.
		Suffix(`ON CONFLICT (jira_id) DO UPDATE SET
			jira_key = EXCLUDED.jira_key,
			project_id = EXCLUDED.project_id,
			summary = EXCLUDED.summary,
			description = EXCLUDED.description,
			issue_type = EXCLUDED.issue_type,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			story_points = EXCLUDED.story_points,
			labels = EXCLUDED.labels,
			components = EXCLUDED.components,
			created_date = EXCLUDED.created_date,
			updated_date = EXCLUDED.updated_date,
			resolved_date = EXCLUDED.resolved_date,
			due_date = EXCLUDED.due_date,
			is_blocked = EXCLUDED.is_blocked,
			blocked_reason = EXCLUDED.blocked_reason,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return len(issues), nil
	}

	return int(count), nil
}

func (r *IssueRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Issue, error) {
	const op = "internal.repository.postgres.issue.ListByProject"

	query, args, err := r.sq.Select(issueColumns...).
		From("issues").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var issues []domain.Issue
	if err := r.db.SelectContext(ctx, &issues, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Issue{}, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return issues, nil
}

func (r *IssueRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	const op = "internal.repository.postgres.issue.CountByProject"

	query, args, err := r.sq.Select("COUNT(*)").
		From("issues").
		Where(sq.Eq{"project_id": projectID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return count, nil
}
