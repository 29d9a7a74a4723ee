package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/projectpulse/jira-dashboard-service/internal/config"
	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/projectpulse/jira-dashboard-service/internal/jira"
	"github.com/projectpulse/jira-dashboard-service/internal/repository"
	syncer "github.com/projectpulse/jira-dashboard-service/internal/sync"
)

// Credentials are the per-request jira credentials taken from the OAuth
// cookie store.
type Credentials struct {
	AccessToken string
	CloudID     string
}

type SyncService interface {
	// TestConnection validates the credentials against the identity endpoint.
	TestConnection(ctx context.Context, creds Credentials) (*jira.Myself, error)

	// RunSync executes one full reconciliation. The returned result carries
	// per-project errors and warnings; the error return covers only the
	// inability to start (bad credentials).
	RunSync(ctx context.Context, creds Credentials) (*domain.SyncResult, error)
}

type SyncServiceImpl struct {
	cfg      config.Jira
	log      *slog.Logger
	projects repository.ProjectRepository
	issues   repository.IssueRepository
}

func NewSyncService(
	cfg config.Jira,
	log *slog.Logger,
	projects repository.ProjectRepository,
	issues repository.IssueRepository,
) *SyncServiceImpl {
	return &SyncServiceImpl{
		cfg:      cfg,
		log:      log,
		projects: projects,
		issues:   issues,
	}
}

func (s *SyncServiceImpl) TestConnection(ctx context.Context, creds Credentials) (*jira.Myself, error) {
	const op = "internal.service.sync.TestConnection"

	client := jira.NewClient(s.cfg, creds.AccessToken, creds.CloudID, s.log)

	me, err := client.Myself(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: connection test failed: %w", op, err)
	}

	return me, nil
}

func (s *SyncServiceImpl) RunSync(ctx context.Context, creds Credentials) (*domain.SyncResult, error) {
	const op = "internal.service.sync.RunSync"
	log := s.log.With(slog.String("op", op))

	client := jira.NewClient(s.cfg, creds.AccessToken, creds.CloudID, s.log)

	// Validate the stored credentials before touching anything.
	if _, err := client.Myself(ctx); err != nil {
		return nil, fmt.Errorf("%s: connection test failed: %w", op, err)
	}

	log.Info("jira connection verified, starting sync")

	run := syncer.NewSyncer(client, s.projects, s.issues, s.cfg, s.log)

	return run.Run(ctx), nil
}
