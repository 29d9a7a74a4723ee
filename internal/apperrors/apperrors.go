package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")

	ErrNotAuthenticated = errors.New("not authenticated with jira")
	ErrNoProjects       = errors.New("no projects found in jira")
	ErrSkipIssue        = errors.New("issue cannot be mapped")
)

// JiraAPIError is returned by the jira gateway for any non-2xx response.
// The gateway performs no retries; the caller decides how to classify it.
type JiraAPIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *JiraAPIError) Error() string {
	return fmt.Sprintf("jira api error: %d on %s", e.StatusCode, e.Endpoint)
}

// IsGone reports whether the upstream resource is archived or deleted.
// Jira answers 410 for projects that still appear in the listing but can no
// longer be queried.
func (e *JiraAPIError) IsGone() bool {
	return e.StatusCode == 410
}

// ProjectExistsError is returned on a duplicate jira_key insert outside the
// upsert path (manual project creation).
type ProjectExistsError struct{ JiraKey string }

func (e *ProjectExistsError) Error() string {
	return fmt.Sprintf("project with jira key '%s' already exists", e.JiraKey)
}

func (e *ProjectExistsError) Is(target error) bool { return target == ErrAlreadyExists }
