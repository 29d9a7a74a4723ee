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

// TeamRepository is read-only: teams are managed outside the sync flow.
type TeamRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTeamRepository(db *sqlx.DB, log *slog.Logger) *TeamRepository {
	return &TeamRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	const op = "internal.repository.postgres.team.List"

	query, args, err := r.sq.Select("id", "name", "description", "jira_team_id").
		From("teams").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var teams []domain.Team
	if err := r.db.SelectContext(ctx, &teams, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Team{}, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return teams, nil
}
