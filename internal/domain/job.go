package domain

import "time"

type JobStatus string

const (
	JobStarting  JobStatus = "starting"
	JobScanning  JobStatus = "scanning"
	JobRetrying  JobStatus = "retrying"
	JobCompleted JobStatus = "completed"
	JobTimeout   JobStatus = "timeout"
	JobError     JobStatus = "error"
	JobCancelled JobStatus = "cancelled"
)

// Active reports whether the job is still being polled. The four terminal
// states all lead to record removal after their grace delays.
func (s JobStatus) Active() bool {
	return s == JobStarting || s == JobScanning || s == JobRetrying
}

// ScanJob is the live progress record for one in-flight remote scan.
// At most one active job exists per site; records are keyed by SiteID.
type ScanJob struct {
	JobID           string    `json:"job_id"`
	SiteID          string    `json:"site_id"`
	Status          JobStatus `json:"status"`
	Attempts        int       `json:"attempts"`
	ProgressPercent int       `json:"progress_percent"`
	Message         string    `json:"message"`
	StartedAt       time.Time `json:"started_at"`
}
