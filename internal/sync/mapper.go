package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/projectpulse/jira-dashboard-service/internal/apperrors"
	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/projectpulse/jira-dashboard-service/internal/jira"
)

// Jira timestamps come as "2014-01-09T10:22:45.000+0100", due dates as plain
// dates.
const (
	jiraTimeLayout = "2006-01-02T15:04:05.000-0700"
	jiraDateLayout = "2006-01-02"
)

// typeRule maps a substring of the raw issue type name to a local issue type.
// Rules are evaluated top-down: epic beats story beats bug beats subtask, and
// anything unmatched falls through to task.
type typeRule struct {
	substrings []string
	issueType  domain.IssueType
}

var typeRules = []typeRule{
	{[]string{"epic"}, domain.TypeEpic},
	{[]string{"story"}, domain.TypeStory},
	{[]string{"bug"}, domain.TypeBug},
	{[]string{"subtask", "sub-task"}, domain.TypeSubtask},
}

// MapIssueType normalizes a free-text jira issue type name. Unknown types
// default to task.
func MapIssueType(rawType string) domain.IssueType {
	lower := strings.ToLower(rawType)

	for _, rule := range typeRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.issueType
			}
		}
	}

	return domain.TypeTask
}

// MapStatus normalizes a jira status category key (the coarse new /
// indeterminate / done classification). It never produces "blocked": the
// blocked state is carried separately via IsBlocked/BlockedReason, derived
// from the status display name. A blocked issue can therefore sit at
// in_progress while IsBlocked is true; that asymmetry is deliberate.
func MapStatus(statusCategory string) domain.IssueStatus {
	switch strings.ToLower(statusCategory) {
	case "done":
		return domain.IssueDone
	case "indeterminate":
		return domain.IssueInProgress
	case "new":
		return domain.IssueToDo
	default:
		return domain.IssueToDo
	}
}

// MapIssue translates one raw jira issue into the local schema. Every field
// read is treated as optional with an explicit default; only a missing
// identity (id or key) makes the record unmappable, signalled via
// apperrors.ErrSkipIssue so the caller can drop it without failing siblings.
func MapIssue(raw jira.RawIssue, projectID, storyPointField string) (*domain.Issue, error) {
	if raw.ID == "" || raw.Key == "" {
		return nil, fmt.Errorf("%w: missing id or key", apperrors.ErrSkipIssue)
	}

	now := time.Now().UTC()

	statusName := nestedString(raw.Fields, "status", "name")
	isBlocked := strings.Contains(strings.ToLower(statusName), "blocked")

	issue := &domain.Issue{
		JiraID:      raw.ID,
		JiraKey:     raw.Key,
		ProjectID:   projectID,
		Summary:     stringOr(raw.Fields, "summary", "No summary"),
		Description: optionalString(raw.Fields, "description"),
		IssueType:   MapIssueType(stringOr(nested(raw.Fields, "issuetype"), "name", "Task")),
		Status:      MapStatus(stringOr(nested(raw.Fields, "status", "statusCategory"), "key", "new")),
		Priority:    optionalString(nested(raw.Fields, "priority"), "name"),
		StoryPoints: optionalNumber(raw.Fields, storyPointField),
		Labels:      stringSlice(raw.Fields, "labels"),
		Components:  componentNames(raw.Fields),
		CreatedDate: timeOr(raw.Fields, "created", now),
		UpdatedDate: timeOr(raw.Fields, "updated", now),
		IsBlocked:   isBlocked,
	}

	issue.ResolvedDate = optionalTime(raw.Fields, "resolutiondate", jiraTimeLayout)
	issue.DueDate = optionalTime(raw.Fields, "duedate", jiraDateLayout)

	if isBlocked {
		issue.BlockedReason = &statusName
	}

	return issue, nil
}

// MapProject translates a raw jira project plus its computed aggregates into
// the local schema. The local primary key is left empty for the store to
// generate.
func MapProject(raw jira.RawProject, m Metrics, score int, health domain.ProjectHealth, syncedAt time.Time) *domain.Project {
	project := &domain.Project{
		Name:                 raw.Name,
		JiraKey:              raw.Key,
		JiraProjectID:        raw.ID,
		Status:               domain.ProjectActive,
		Health:               health,
		HealthScore:          &score,
		TotalStoryPoints:     m.TotalStoryPoints,
		CompletedStoryPoints: m.CompletedStoryPoints,
		TotalIssues:          m.TotalIssues,
		CompletedIssues:      m.CompletedIssues,
		LastSyncedAt:         &syncedAt,
	}

	if raw.Description != "" {
		project.Description = &raw.Description
	}

	return project
}

// MapArchivedProject builds the metadata-only record persisted for projects
// whose issues can no longer be fetched (archived or deleted upstream).
func MapArchivedProject(raw jira.RawProject, syncedAt time.Time) *domain.Project {
	description := raw.Description
	if description == "" {
		description = "Archived project"
	}

	score := 0

	return &domain.Project{
		Name:          raw.Name,
		JiraKey:       raw.Key,
		JiraProjectID: raw.ID,
		Description:   &description,
		Status:        domain.ProjectOnHold,
		Health:        domain.HealthUnknown,
		HealthScore:   &score,
		LastSyncedAt:  &syncedAt,
	}
}

// Defensive accessors over the dynamic jira payload. Missing or mistyped
// fields yield zero values, never a fault.

func nested(fields map[string]any, keys ...string) map[string]any {
	current := fields

	for _, key := range keys {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}

		current = next
	}

	return current
}

func nestedString(fields map[string]any, keys ...string) string {
	if len(keys) == 0 {
		return ""
	}

	parent := nested(fields, keys[:len(keys)-1]...)
	if parent == nil {
		return ""
	}

	s, _ := parent[keys[len(keys)-1]].(string)

	return s
}

func stringOr(fields map[string]any, key, fallback string) string {
	if s, ok := fields[key].(string); ok && s != "" {
		return s
	}

	return fallback
}

func optionalString(fields map[string]any, keys ...string) *string {
	s := nestedString(fields, keys...)
	if s == "" {
		return nil
	}

	return &s
}

func optionalNumber(fields map[string]any, key string) *float64 {
	if n, ok := fields[key].(float64); ok {
		return &n
	}

	return nil
}

func stringSlice(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}

	values := make([]string, 0, len(raw))

	for _, v := range raw {
		if s, ok := v.(string); ok {
			values = append(values, s)
		}
	}

	if len(values) == 0 {
		return nil
	}

	return values
}

func componentNames(fields map[string]any) []string {
	raw, ok := fields["components"].([]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(raw))

	for _, v := range raw {
		if component, ok := v.(map[string]any); ok {
			if name, ok := component["name"].(string); ok {
				names = append(names, name)
			}
		}
	}

	if len(names) == 0 {
		return nil
	}

	return names
}

func timeOr(fields map[string]any, key string, fallback time.Time) time.Time {
	s, ok := fields[key].(string)
	if !ok {
		return fallback
	}

	t, err := time.Parse(jiraTimeLayout, s)
	if err != nil {
		return fallback
	}

	return t
}

func optionalTime(fields map[string]any, key, layout string) *time.Time {
	s, ok := fields[key].(string)
	if !ok || s == "" {
		return nil
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}

	return &t
}
