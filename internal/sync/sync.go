// package sync reconciles the jira workspace into the local store: it lists
// projects, fetches their issues, derives health metrics and upserts
// everything keyed by the stable jira identifiers. One bad project never
// prevents others from syncing.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/projectpulse/jira-dashboard-service/internal/apperrors"
	"github.com/projectpulse/jira-dashboard-service/internal/config"
	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/projectpulse/jira-dashboard-service/internal/jira"
	"github.com/projectpulse/jira-dashboard-service/pkg/logger/sl"
)

// Tracker is the read side of the external issue tracker.
type Tracker interface {
	GetProjects(ctx context.Context, maxResults int) ([]jira.RawProject, error)
	SearchIssues(ctx context.Context, jql string, maxResults int) ([]jira.RawIssue, error)
}

// ProjectStore persists projects, keyed by the jira project id.
type ProjectStore interface {
	Upsert(ctx context.Context, project *domain.Project) (*domain.Project, error)
}

// IssueStore persists issue batches, keyed by the jira issue id.
type IssueStore interface {
	UpsertBatch(ctx context.Context, issues []domain.Issue) (int, error)
}

type Syncer struct {
	tracker  Tracker
	projects ProjectStore
	issues   IssueStore
	log      *slog.Logger

	storyPointField string
	projectPageSize int
	issuePageSize   int
}

func NewSyncer(tracker Tracker, projects ProjectStore, issues IssueStore, cfg config.Jira, log *slog.Logger) *Syncer {
	return &Syncer{
		tracker:         tracker,
		projects:        projects,
		issues:          issues,
		log:             log,
		storyPointField: cfg.StoryPointField,
		projectPageSize: cfg.ProjectPageSize,
		issuePageSize:   cfg.IssuePageSize,
	}
}

// Run executes one full reconciliation. It never returns an error: failures
// are accumulated in the result. The run fails fast only when the project
// listing itself fails or comes back empty; after that, each project is an
// independent attempt. Success means at least one project synced.
func (s *Syncer) Run(ctx context.Context) *domain.SyncResult {
	const op = "internal.sync.Run"
	log := s.log.With(slog.String("op", op))

	result := &domain.SyncResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	started := time.Now()

	log.Info("starting jira sync")

	projects, err := s.tracker.GetProjects(ctx, s.projectPageSize)
	if err != nil {
		log.Error("failed to list jira projects", sl.Err(err))
		result.Errors = append(result.Errors, fmt.Sprintf("failed to list jira projects: %s", err))
		syncRunsTotal.WithLabelValues("failure").Inc()

		return result
	}

	if len(projects) == 0 {
		result.Errors = append(result.Errors, apperrors.ErrNoProjects.Error())
		syncRunsTotal.WithLabelValues("failure").Inc()

		return result
	}

	log.Info("found jira projects", slog.Int("count", len(projects)))

	for _, project := range projects {
		synced, err := s.syncProject(ctx, project)
		if err == nil {
			result.ProjectsSynced++
			result.IssuesSynced += synced

			continue
		}

		var apiErr *apperrors.JiraAPIError

		if errors.As(err, &apiErr) && apiErr.IsGone() {
			// Archived or deleted projects still show up in the listing;
			// degrade to a metadata-only record instead of failing the run.
			log.Warn("project archived or deleted", slog.String("key", project.Key))
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: project archived or deleted", project.Key))

			if saveErr := s.saveArchived(ctx, project); saveErr != nil {
				log.Error("failed to save archived project metadata",
					slog.String("key", project.Key), sl.Err(saveErr))
			} else {
				result.ProjectsSynced++
			}

			continue
		}

		log.Error("failed to sync project", slog.String("key", project.Key), sl.Err(err))
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", project.Key, err))
	}

	result.Success = result.ProjectsSynced > 0

	outcome := "failure"
	if result.Success {
		outcome = "success"
	}

	syncRunsTotal.WithLabelValues(outcome).Inc()
	syncProjectsTotal.Add(float64(result.ProjectsSynced))
	syncIssuesTotal.Add(float64(result.IssuesSynced))
	syncDuration.Observe(time.Since(started).Seconds())

	log.Info("jira sync completed",
		slog.Int("projects", result.ProjectsSynced),
		slog.Int("issues", result.IssuesSynced),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)),
	)

	return result
}

// syncProject reconciles one project: fetch its issues newest first, compute
// aggregates and health, upsert the project, then bulk-upsert the issues.
// Returns the number of issues processed.
func (s *Syncer) syncProject(ctx context.Context, raw jira.RawProject) (int, error) {
	const op = "internal.sync.syncProject"
	log := s.log.With(slog.String("op", op), slog.String("key", raw.Key))

	jql := fmt.Sprintf("project = %q ORDER BY created DESC", raw.Key)

	issues, err := s.tracker.SearchIssues(ctx, jql, s.issuePageSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch issues: %w", err)
	}

	metrics := Aggregate(issues, s.storyPointField)
	score := Score(metrics)
	health := HealthFor(score)

	log.Info("computed project metrics",
		slog.Int("total", metrics.TotalIssues),
		slog.Int("completed", metrics.CompletedIssues),
		slog.Int("blocked", metrics.BlockedIssues),
		slog.Int("score", score),
	)

	project := MapProject(raw, metrics, score, health, time.Now().UTC())

	saved, err := s.projects.Upsert(ctx, project)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert project: %w", err)
	}

	if len(issues) > 0 {
		if err := s.syncIssues(ctx, saved.ID, issues); err != nil {
			return 0, err
		}
	}

	return len(issues), nil
}

// syncIssues maps and bulk-upserts a project's issues. A record that cannot
// be mapped is dropped individually; it never fails its siblings.
func (s *Syncer) syncIssues(ctx context.Context, projectID string, raw []jira.RawIssue) error {
	const op = "internal.sync.syncIssues"
	log := s.log.With(slog.String("op", op), slog.String("project_id", projectID))

	mapped := make([]domain.Issue, 0, len(raw))

	for _, issue := range raw {
		localIssue, err := MapIssue(issue, projectID, s.storyPointField)
		if err != nil {
			log.Warn("dropping unmappable issue", slog.String("key", issue.Key), sl.Err(err))

			continue
		}

		mapped = append(mapped, *localIssue)
	}

	if len(mapped) == 0 {
		log.Warn("no valid issues to sync")

		return nil
	}

	count, err := s.issues.UpsertBatch(ctx, mapped)
	if err != nil {
		return fmt.Errorf("failed to upsert issues: %w", err)
	}

	log.Info("issues synced", slog.Int("count", count))

	return nil
}

func (s *Syncer) saveArchived(ctx context.Context, raw jira.RawProject) error {
	project := MapArchivedProject(raw, time.Now().UTC())

	if _, err := s.projects.Upsert(ctx, project); err != nil {
		return fmt.Errorf("failed to save project metadata: %w", err)
	}

	return nil
}
