package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/projectpulse/jira-dashboard-service/internal/config"
	"github.com/projectpulse/jira-dashboard-service/internal/jira"
	"github.com/projectpulse/jira-dashboard-service/internal/repository/postgres"
	"github.com/projectpulse/jira-dashboard-service/internal/service"
	myhttp "github.com/projectpulse/jira-dashboard-service/internal/transport/http"

	"github.com/projectpulse/jira-dashboard-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting jira-dashboard-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		err = db.DB().Close()
		if err != nil {
			errChan <- fmt.Errorf("db close failed: %v", err)
		}
	}()

	projectRepo := postgres.NewProjectRepository(db.DB(), log)
	issueRepo := postgres.NewIssueRepository(db.DB(), log)
	teamRepo := postgres.NewTeamRepository(db.DB(), log)

	projectService := service.NewProjectService(log, projectRepo, issueRepo, teamRepo)
	syncService := service.NewSyncService(cfg.Jira, log, projectRepo, issueRepo)
	oauth := jira.NewOAuth(cfg.Jira)

	if !oauth.Configured() {
		log.Warn("jira oauth credentials are not set, the connect flow is disabled")
	}

	srv := myhttp.NewServer(log, cfg.Jira, oauth, projectService, syncService)
	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shuting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
