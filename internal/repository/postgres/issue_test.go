//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/projectpulse/jira-dashboard-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedIssue(jiraID, key, projectID string, status domain.IssueStatus) domain.Issue {
	now := time.Now().UTC()

	return domain.Issue{
		JiraID:      jiraID,
		JiraKey:     key,
		ProjectID:   projectID,
		Summary:     "summary for " + key,
		IssueType:   domain.TypeTask,
		Status:      status,
		CreatedDate: now,
		UpdatedDate: now,
	}
}

func TestIssueRepository_UpsertBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	projects := NewProjectRepository(testDB, logger)
	repo := NewIssueRepository(testDB, logger)
	ctx := context.Background()

	project, err := projects.Upsert(ctx, syncedProject("APOLLO", "10001", 80, domain.HealthOnTrack))
	require.NoError(t, err)

	batch := []domain.Issue{
		storedIssue("20001", "APOLLO-1", project.ID, domain.IssueToDo),
		storedIssue("20002", "APOLLO-2", project.ID, domain.IssueInProgress),
	}

	written, err := repo.UpsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	// Re-syncing the same issues updates in place.
	batch[0].Status = domain.IssueDone
	batch[0].Summary = "updated summary"

	written, err = repo.UpsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	stored, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	byJiraID := map[string]domain.Issue{}
	for _, issue := range stored {
		byJiraID[issue.JiraID] = issue
	}
	assert.Equal(t, domain.IssueDone, byJiraID["20001"].Status)
	assert.Equal(t, "updated summary", byJiraID["20001"].Summary)

	count, err := repo.CountByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIssueRepository_UpsertBatch_Empty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	repo := NewIssueRepository(testDB, logger)

	written, err := repo.UpsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestIssueRepository_ArrayFieldsRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	projects := NewProjectRepository(testDB, logger)
	repo := NewIssueRepository(testDB, logger)
	ctx := context.Background()

	project, err := projects.Upsert(ctx, syncedProject("APOLLO", "10001", 80, domain.HealthOnTrack))
	require.NoError(t, err)

	points := 5.0
	issue := storedIssue("20001", "APOLLO-1", project.ID, domain.IssueInProgress)
	issue.StoryPoints = &points
	issue.Labels = []string{"backend", "urgent"}
	issue.Components = []string{"API"}
	issue.IsBlocked = true
	issue.BlockedReason = strPtr("waiting on infra")

	_, err = repo.UpsertBatch(ctx, []domain.Issue{issue})
	require.NoError(t, err)

	stored, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	got := stored[0]
	assert.Equal(t, []string{"backend", "urgent"}, []string(got.Labels))
	assert.Equal(t, []string{"API"}, []string(got.Components))
	require.NotNil(t, got.StoryPoints)
	assert.Equal(t, 5.0, *got.StoryPoints)
	assert.True(t, got.IsBlocked)
	require.NotNil(t, got.BlockedReason)
	assert.Equal(t, "waiting on infra", *got.BlockedReason)
}

func TestIssueRepository_DeleteProjectCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	truncateTables(t, testDB)
	projects := NewProjectRepository(testDB, logger)
	repo := NewIssueRepository(testDB, logger)
	ctx := context.Background()

	project, err := projects.Upsert(ctx, syncedProject("APOLLO", "10001", 80, domain.HealthOnTrack))
	require.NoError(t, err)

	_, err = repo.UpsertBatch(ctx, []domain.Issue{
		storedIssue("20001", "APOLLO-1", project.ID, domain.IssueToDo),
	})
	require.NoError(t, err)

	require.NoError(t, projects.Delete(ctx, project.ID))

	count, err := repo.CountByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
