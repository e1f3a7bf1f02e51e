package recorder

import "time"

// RunSummary describes one pipeline execution.
type RunSummary struct {
	StartedAt       time.Time
	FinishedAt      time.Time
	Status          string // "OK" or "FAILED"
	SecuritiesTotal int
	Collected       int
	Skipped         int
	Note            string
}

// CollectionEvent describes the outcome of collecting one symbol.
type CollectionEvent struct {
	Symbol string
	Source string
	Rows   int
	Error  string
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(run *RunSummary) error
	RecordCollection(evt *CollectionEvent) error
	Close() error
}
