package models

import "time"

// Run status values.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// LoadResult reports the outcome of persisting one collection.
type LoadResult struct {
	Collection string   `json:"collection"`
	Processed  int      `json:"total_processed"`
	Inserted   int      `json:"inserted"`
	Updated    int      `json:"updated"`
	Errors     int      `json:"errors"`
	Details    []string `json:"error_details,omitempty"`
}

// Merge adds the counters of other into r.
func (r *LoadResult) Merge(other LoadResult) {
	r.Processed += other.Processed
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Errors += other.Errors
	r.Details = append(r.Details, other.Details...)
}

// RunStats is the bookkeeping record of one pipeline run.
type RunStats struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
	Counts       map[string]int `json:"counts"`
	Skipped      int            `json:"skipped"`
	LoadErrors   int            `json:"load_errors"`
	ExtractNotes []string       `json:"extract_notes,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// Duration returns how long the run took, or zero while it is still running.
func (s RunStats) Duration() time.Duration {
	if s.FinishedAt == nil {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
