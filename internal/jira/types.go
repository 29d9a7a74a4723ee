package jira

// RawProject is a jira project as returned by the project search endpoint.
// Jira is the source of truth for these fields; they are never mutated locally.
type RawProject struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProjectList is the paginated envelope of the project search endpoint.
type ProjectList struct {
	Values     []RawProject `json:"values"`
	Total      int          `json:"total"`
	IsLast     bool         `json:"isLast"`
	MaxResults int          `json:"maxResults"`
}

// RawIssue is a jira issue as returned by the JQL search endpoint. Fields is
// kept dynamic on purpose: jira payloads are loosely typed and any field may
// be absent, so all access goes through the defensive accessors in the sync
// mapper.
type RawIssue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// SearchResponse is the envelope of the JQL search endpoint.
type SearchResponse struct {
	Issues []RawIssue `json:"issues"`
	Total  int        `json:"total"`
}

// Myself is the identity returned by the "who am I" endpoint, used as a
// connectivity check for stored credentials.
type Myself struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

// Board is an agile board attached to a project.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// BoardList is the paginated envelope of the board listing endpoint.
type BoardList struct {
	Values []Board `json:"values"`
	Total  int     `json:"total"`
}

// Sprint is a sprint belonging to an agile board.
type Sprint struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	CompleteDate string `json:"completeDate"`
	Goal         string `json:"goal"`
}

// SprintList is the paginated envelope of the sprint listing endpoint.
type SprintList struct {
	Values []Sprint `json:"values"`
}
