// package domain defines the local schema the jira workspace is mirrored
// into, plus the structured result of a sync run.
package domain

import (
	"time"

	"github.com/lib/pq"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCancelled ProjectStatus = "cancelled"
)

type ProjectHealth string

const (
	HealthOnTrack ProjectHealth = "on_track"
	HealthAtRisk  ProjectHealth = "at_risk"
	HealthBlocked ProjectHealth = "blocked"
	HealthUnknown ProjectHealth = "unknown"
)

type IssueStatus string

const (
	IssueToDo       IssueStatus = "to_do"
	IssueInProgress IssueStatus = "in_progress"
	IssueDone       IssueStatus = "done"
	IssueBlocked    IssueStatus = "blocked"
)

type IssueType string

const (
	TypeEpic    IssueType = "epic"
	TypeStory   IssueType = "story"
	TypeTask    IssueType = "task"
	TypeBug     IssueType = "bug"
	TypeSubtask IssueType = "subtask"
)

// Project mirrors one jira project. The local id is a generated uuid and is
// never exposed to jira; JiraProjectID is the stable identity used as the
// upsert conflict key.
type Project struct {
	ID                   string        `db:"id" json:"id"`
	Name                 string        `db:"name" json:"name"`
	JiraKey              string        `db:"jira_key" json:"jira_key"`
	JiraProjectID        string        `db:"jira_project_id" json:"jira_project_id"`
	Description          *string       `db:"description" json:"description"`
	Status               ProjectStatus `db:"status" json:"status"`
	Health               ProjectHealth `db:"health" json:"health"`
	HealthScore          *int          `db:"health_score" json:"health_score"`
	TotalStoryPoints     float64       `db:"total_story_points" json:"total_story_points"`
	CompletedStoryPoints float64       `db:"completed_story_points" json:"completed_story_points"`
	TotalIssues          int           `db:"total_issues" json:"total_issues"`
	CompletedIssues      int           `db:"completed_issues" json:"completed_issues"`
	TeamID               *string       `db:"team_id" json:"team_id"`
	LastSyncedAt         *time.Time    `db:"last_synced_at" json:"last_synced_at"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `db:"updated_at" json:"updated_at"`
}

// Issue mirrors one jira issue. Identity is JiraID, the upsert conflict key.
// Issues are created and updated only by sync runs.
type Issue struct {
	ID            string         `db:"id" json:"id"`
	JiraID        string         `db:"jira_id" json:"jira_id"`
	JiraKey       string         `db:"jira_key" json:"jira_key"`
	ProjectID     string         `db:"project_id" json:"project_id"`
	Summary       string         `db:"summary" json:"summary"`
	Description   *string        `db:"description" json:"description"`
	IssueType     IssueType      `db:"issue_type" json:"issue_type"`
	Status        IssueStatus    `db:"status" json:"status"`
	Priority      *string        `db:"priority" json:"priority"`
	StoryPoints   *float64       `db:"story_points" json:"story_points"`
	Labels        pq.StringArray `db:"labels" json:"labels"`
	Components    pq.StringArray `db:"components" json:"components"`
	CreatedDate   time.Time      `db:"created_date" json:"created_date"`
	UpdatedDate   time.Time      `db:"updated_date" json:"updated_date"`
	ResolvedDate  *time.Time     `db:"resolved_date" json:"resolved_date"`
	DueDate       *time.Time     `db:"due_date" json:"due_date"`
	IsBlocked     bool           `db:"is_blocked" json:"is_blocked"`
	BlockedReason *string        `db:"blocked_reason" json:"blocked_reason"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

type Team struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	JiraTeamID  *string `db:"jira_team_id" json:"jira_team_id"`
}

type User struct {
	ID         string  `db:"id" json:"id"`
	Email      string  `db:"email" json:"email"`
	FullName   string  `db:"full_name" json:"full_name"`
	JiraUserID *string `db:"jira_user_id" json:"jira_user_id"`
	TeamID     *string `db:"team_id" json:"team_id"`
	IsActive   bool    `db:"is_active" json:"is_active"`
}

// ProjectFilter narrows the project listing. Empty slices and strings mean
// "no filtering on that field".
type ProjectFilter struct {
	Status []string
	Health []string
	Search string
}

// ProjectUpdate is a partial update for interactive project edits. Nil fields
// are left untouched. Sync-owned aggregate fields are deliberately absent;
// they change only through sync upserts.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *ProjectStatus
	Health      *ProjectHealth
	TeamID      *string
}

// ProjectStats is the dashboard header aggregate over all projects.
type ProjectStats struct {
	TotalProjects  int `db:"total_projects" json:"total_projects"`
	ActiveProjects int `db:"active_projects" json:"active_projects"`
	OnTrack        int `db:"on_track" json:"on_track"`
	AtRisk         int `db:"at_risk" json:"at_risk"`
	Blocked        int `db:"blocked" json:"blocked"`
	AvgHealthScore int `db:"avg_health_score" json:"avg_health_score"`
}

// SyncResult accumulates the outcome of one sync run. Errors and warnings are
// collected, never thrown past the orchestrator.
type SyncResult struct {
	Success        bool     `json:"success"`
	ProjectsSynced int      `json:"projects_synced"`
	IssuesSynced   int      `json:"issues_synced"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
}
