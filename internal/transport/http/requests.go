package http

import (
	"strings"

	"github.com/projectpulse/jira-dashboard-service/internal/domain"
)

type createProjectRequest struct {
	Name          string  `json:"name" validate:"required"`
	JiraKey       string  `json:"jira_key" validate:"required,jira_key"`
	JiraProjectID string  `json:"jira_project_id" validate:"required"`
	Description   *string `json:"description"`
	Status        string  `json:"status" validate:"omitempty,oneof=active completed on_hold cancelled"`
	Health        string  `json:"health" validate:"omitempty,oneof=on_track at_risk blocked unknown"`
	TeamID        *string `json:"team_id" validate:"omitempty,uuid"`
}

func (r createProjectRequest) toDomain() *domain.Project {
	return &domain.Project{
		Name:          r.Name,
		JiraKey:       r.JiraKey,
		JiraProjectID: r.JiraProjectID,
		Description:   r.Description,
		Status:        domain.ProjectStatus(r.Status),
		Health:        domain.ProjectHealth(r.Health),
		TeamID:        r.TeamID,
	}
}

type updateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=active completed on_hold cancelled"`
	Health      *string `json:"health" validate:"omitempty,oneof=on_track at_risk blocked unknown"`
	TeamID      *string `json:"team_id" validate:"omitempty,uuid"`
}

func (r updateProjectRequest) toDomain() domain.ProjectUpdate {
	update := domain.ProjectUpdate{
		Name:        r.Name,
		Description: r.Description,
		TeamID:      r.TeamID,
	}

	if r.Status != nil {
		status := domain.ProjectStatus(*r.Status)
		update.Status = &status
	}

	if r.Health != nil {
		health := domain.ProjectHealth(*r.Health)
		update.Health = &health
	}

	return update
}

// parseFilter builds a project filter from the listing query parameters.
// status and health take comma-separated lists.
func parseFilter(status, health, search string) domain.ProjectFilter {
	filter := domain.ProjectFilter{Search: search}

	if status != "" {
		filter.Status = strings.Split(status, ",")
	}

	if health != "" {
		filter.Health = strings.Split(health, ",")
	}

	return filter
}
