package domain

import "time"

// OrganizeResult is the outcome of one Organizer pass over a directory
type OrganizeResult struct {
	Moved      int
	Duplicates int
	Errors     []*ItemError
}

// PurgeResult is the outcome of one temp-location purge
type PurgeResult struct {
	Deleted    int
	BytesFreed int64

	// Declined is set when the confirmation gate refused the purge
	Declined bool

	Errors []*ItemError
}

// RunSummary aggregates one invocation for reporting
type RunSummary struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Directory         string
	FilesMoved        int
	DuplicatesDeleted int
	TempFilesDeleted  int
	BytesFreed        int64

	// PurgeDeclined is set when temp cleanup was requested but not confirmed
	PurgeDeclined bool

	// SetupError holds the component-level error that short-circuited a run
	SetupError string

	Errors []*ItemError
}

// Status classifies the run for history records
func (s RunSummary) Status() string {
	switch {
	case s.SetupError != "":
		return "failed"
	case len(s.Errors) > 0:
		return "partial"
	default:
		return "success"
	}
}
