package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jira_sync_runs_total",
			Help: "Total number of jira sync runs",
		},
		[]string{"result"},
	)

	syncProjectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jira_sync_projects_total",
			Help: "Total number of projects synced across all runs",
		},
	)

	syncIssuesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jira_sync_issues_total",
			Help: "Total number of issues synced across all runs",
		},
	)

	syncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jira_sync_duration_seconds",
			Help:    "Duration of jira sync runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
