package model

import (
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a crawl job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// validTransitions encodes the job state machine. Terminal states have no
// outgoing transitions; a finished job can never be restarted in place.
var validTransitions = map[JobStatus][]JobStatus{
	JobPending: {JobRunning, JobFailed},
	JobRunning: {JobCompleted, JobFailed},
}

// CanTransition reports whether moving from to next is a legal step.
func (s JobStatus) CanTransition(next JobStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status is a final state.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// CrawlJob tracks one audit run of a site from submission to completion.
type CrawlJob struct {
	ID        string    `json:"id"`
	SiteURL   string    `json:"site_url"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	StartedAt time.Time `json:"started_at,omitzero"`
	EndedAt   time.Time `json:"ended_at,omitzero"`

	// Error holds the failure reason when Status is JobFailed.
	Error string `json:"error,omitempty"`

	PagesCrawled int `json:"pages_crawled"`
	PagesFailed  int `json:"pages_failed"`

	Counts SeverityCounts `json:"issue_counts"`
}

// Transition moves the job to the next status, stamping the matching
// timestamp. It fails loudly on illegal transitions so state-machine bugs
// surface at the call site instead of as silently corrupted rows.
func (j *CrawlJob) Transition(next JobStatus) error {
	if !j.Status.CanTransition(next) {
		return fmt.Errorf("invalid job transition: %s -> %s", j.Status, next)
	}
	now := time.Now().UTC()
	switch next {
	case JobRunning:
		j.StartedAt = now
	case JobCompleted, JobFailed:
		j.EndedAt = now
	}
	j.Status = next
	return nil
}

// Fail moves the job to JobFailed with a reason. Unlike Transition it is
// callable from any non-terminal state.
func (j *CrawlJob) Fail(reason string) error {
	if j.Status.Terminal() {
		return fmt.Errorf("cannot fail job in terminal state %s", j.Status)
	}
	j.Status = JobFailed
	j.Error = reason
	j.EndedAt = time.Now().UTC()
	return nil
}

// Duration returns how long the job ran, or zero if it never started.
func (j *CrawlJob) Duration() time.Duration {
	if j.StartedAt.IsZero() {
		return 0
	}
	end := j.EndedAt
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return end.Sub(j.StartedAt)
}
