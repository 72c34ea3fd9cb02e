package trim

import "time"

// State identifies a step of the trimming engine's state machine.
type State string

const (
	StateLoaded       State = "loaded"
	StatePlanComputed State = "plan_computed"
	StateCutResolved  State = "cut_resolved"
	StateSummarized   State = "summarized"
	StateSpliced      State = "spliced"
	StateBackedUp     State = "backed_up"
	StateWritten      State = "written"
	StateDone         State = "done"
	StateAborted      State = "aborted"
)

// Policy selects how the desired cut count is computed. Exactly one
// policy applies per invocation.
type Policy string

const (
	// PolicyThreshold trims max(0, total-MaxMessages) records.
	PolicyThreshold Policy = "threshold"

	// PolicyFraction trims floor(total*TrimFraction) records.
	PolicyFraction Policy = "fraction"
)

// Plan describes what a trim will do (or did). A dry run and a real run
// over identical input and options produce identical Plans.
type Plan struct {
	// Loaded is the number of records parsed from the live file.
	Loaded int

	// DesiredCut is the cut the policy asked for.
	DesiredCut int

	// Cut is the resolved safe cut index; Cut <= DesiredCut always.
	Cut int

	// Removed is the number of records removed (equals Cut).
	Removed int

	// Retained is the number of original records kept.
	Retained int

	// RemovedFrom and RemovedTo are the timestamps of the first and last
	// removed records, for reporting.
	RemovedFrom string
	RemovedTo   string

	// FinalCount is the record count written out, including the synthetic
	// summary record.
	FinalCount int

	// NoOp is true when the policy asked for nothing to be removed. The
	// engine never opens the file for writing and never takes the lock.
	NoOp bool
}

// Result is the outcome of one trim invocation.
type Result struct {
	// Plan is the planning report, identical between dry and real runs.
	Plan Plan

	// State is the final state reached: StateDone for a completed trim,
	// StateSpliced for a dry run, StatePlanComputed for a no-op.
	State State

	// BackupPath is the snapshot location, empty for dry runs and no-ops.
	BackupPath string

	// SummaryText is the text spliced into the synthetic record.
	SummaryText string

	// SummaryDegraded is true when the remote provider failed and the
	// deterministic fallback was substituted.
	SummaryDegraded bool

	// Duration is how long the operation took.
	Duration time.Duration
}
