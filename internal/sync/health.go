package sync

import (
	"math"
	"strings"

	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/projectpulse/jira-dashboard-service/internal/jira"
)

// Metrics are the raw aggregates computed over one project's issues.
type Metrics struct {
	TotalIssues          int
	CompletedIssues      int
	BlockedIssues        int
	TotalStoryPoints     float64
	CompletedStoryPoints float64
}

// Aggregate computes the per-project metrics from raw jira issues. An issue
// counts as completed when its status category is "done" and as blocked when
// its status name contains "blocked" or its category is "indeterminate".
// Missing or non-numeric story points count as zero.
func Aggregate(issues []jira.RawIssue, storyPointField string) Metrics {
	m := Metrics{TotalIssues: len(issues)}

	for _, issue := range issues {
		points := 0.0
		if p, ok := issue.Fields[storyPointField].(float64); ok {
			points = p
		}

		m.TotalStoryPoints += points

		category := stringOr(nested(issue.Fields, "status", "statusCategory"), "key", "")
		if category == "done" {
			m.CompletedIssues++
			m.CompletedStoryPoints += points
		}

		statusName := strings.ToLower(nestedString(issue.Fields, "status", "name"))
		if strings.Contains(statusName, "blocked") || category == "indeterminate" {
			m.BlockedIssues++
		}
	}

	return m
}

// Score derives the 0-100 health score. This is a heuristic, not a
// statistical model: a weighted blend rewarding completion and story point
// burn-down, penalized by blocked work, with a constant +20 offset keeping
// low-activity projects out of the blocked bucket. The weights and thresholds
// must not change; persisted scores depend on them.
func Score(m Metrics) int {
	if m.TotalIssues == 0 {
		return 50
	}

	completionRate := float64(m.CompletedIssues) / float64(m.TotalIssues) * 40

	storyPointCompletion := 20.0
	if m.TotalStoryPoints > 0 {
		storyPointCompletion = m.CompletedStoryPoints / m.TotalStoryPoints * 40
	}

	blockedPenalty := float64(m.BlockedIssues) / float64(m.TotalIssues) * 20

	score := completionRate + storyPointCompletion - blockedPenalty + 20
	score = math.Max(0, math.Min(100, score))

	return int(math.Round(score))
}

// HealthFor maps a score to its categorical health status.
func HealthFor(score int) domain.ProjectHealth {
	switch {
	case score >= 70:
		return domain.HealthOnTrack
	case score >= 50:
		return domain.HealthAtRisk
	case score > 0:
		return domain.HealthBlocked
	default:
		return domain.HealthUnknown
	}
}
