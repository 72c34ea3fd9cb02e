package trim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rollctx/rollctx/backup"
	"github.com/rollctx/rollctx/summary"
	"github.com/rollctx/rollctx/transcript"
)

// Logger interface for engine logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a no-op implementation of Logger.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// BackupManager is the slice of the backup package the engine depends on.
type BackupManager interface {
	Snapshot(path string) (*backup.Handle, error)
	Replace(path string, content []byte) error
	Prune(dir string) error
	Dir(path string) string
}

// releaser releases a held transcript lock.
type releaser interface {
	Release() error
}

// lockFunc acquires the transcript lock; swappable in tests.
type lockFunc func(ctx context.Context, path string, timeout time.Duration) (releaser, error)

func defaultLock(ctx context.Context, path string, timeout time.Duration) (releaser, error) {
	return backup.AcquireLock(ctx, path, timeout)
}

// Options configures one trim invocation.
type Options struct {
	// ProjectName names the transcript's project for reporting and
	// summary prompts.
	ProjectName string

	// Policy selects how the desired cut is computed. Exactly one policy
	// applies per invocation.
	Policy Policy

	// MaxMessages is the retained-count threshold for PolicyThreshold.
	MaxMessages int

	// TrimFraction is the removed fraction for PolicyFraction.
	TrimFraction float64

	// MinRetention is the count of newest records that are never
	// removable, regardless of what the policy asks for.
	MinRetention int

	// SummariesEnabled selects the configured remote provider; when
	// false the deterministic fallback output is used directly.
	SummariesEnabled bool

	// DryRun stops after splicing and reports the plan without taking
	// the lock or touching the file.
	DryRun bool

	// LockTimeout bounds advisory lock acquisition.
	LockTimeout time.Duration
}

// Validate checks the options.
func (o *Options) Validate() error {
	switch o.Policy {
	case PolicyThreshold:
		if o.MaxMessages <= 0 {
			return fmt.Errorf("%w: max messages must be positive, got %d", ErrInvalidOptions, o.MaxMessages)
		}
	case PolicyFraction:
		if o.TrimFraction <= 0 || o.TrimFraction >= 1 {
			return fmt.Errorf("%w: trim fraction must be in (0, 1), got %f", ErrInvalidOptions, o.TrimFraction)
		}
	default:
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidOptions, o.Policy)
	}
	if o.MinRetention < 0 {
		return fmt.Errorf("%w: min retention must be non-negative, got %d", ErrInvalidOptions, o.MinRetention)
	}
	return nil
}

// Engine orchestrates one trim operation per call: load, plan, resolve
// the safe cut, summarize, splice, back up, and atomically write.
type Engine struct {
	provider summary.Provider
	fallback summary.Provider
	backups  BackupManager
	logger   Logger
	lock     lockFunc
}

// NewEngine creates an Engine. provider may be nil when summaries are
// disabled or no remote endpoint is configured; the fallback is used
// instead. A nil logger disables logging.
func NewEngine(provider summary.Provider, backups BackupManager, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		provider: provider,
		fallback: summary.NewFallbackProvider(),
		backups:  backups,
		logger:   logger,
		lock:     defaultLock,
	}
}

// Trim runs the state machine against the transcript at path.
func (e *Engine) Trim(ctx context.Context, path string, opts Options) (*Result, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// Loaded
	records, err := transcript.ReadFile(path)
	if err != nil {
		return nil, NewTrimError(StateLoaded, err).WithPath(path)
	}

	// PlanComputed
	desired := desiredCut(len(records), opts)
	if desired <= 0 {
		e.logger.Info("transcript under threshold, nothing to trim",
			"path", path, "records", len(records))
		return &Result{
			Plan: Plan{
				Loaded:     len(records),
				Retained:   len(records),
				FinalCount: len(records),
				NoOp:       true,
			},
			State:    StatePlanComputed,
			Duration: time.Since(start),
		}, nil
	}

	// CutResolved
	detector := NewOrphanDetector(records)
	cut, err := detector.FindSafeCut(desired, opts.MinRetention)
	if err != nil {
		return nil, NewTrimError(StateCutResolved, err).WithPath(path).
			WithContext("desired_cut", desired)
	}

	removed := records[:cut]
	kept := records[cut:]

	e.logger.Debug("cut resolved",
		"path", path,
		"desired", desired,
		"cut", cut,
		"removed", len(removed),
		"retained", len(kept),
	)

	// Summarized
	summaryText, degraded := e.summarize(ctx, removed, opts)

	// Spliced
	synthetic, err := newSyntheticRecord(removed, kept, summaryText, time.Now())
	if err != nil {
		return nil, NewTrimError(StateSpliced, err).WithPath(path)
	}
	if err := repairParents(kept, synthetic); err != nil {
		return nil, NewTrimError(StateSpliced, err).WithPath(path)
	}
	final := make([]*transcript.Record, 0, len(kept)+1)
	final = append(final, synthetic)
	final = append(final, kept...)

	plan := Plan{
		Loaded:      len(records),
		DesiredCut:  desired,
		Cut:         cut,
		Removed:     len(removed),
		Retained:    len(kept),
		RemovedFrom: removed[0].Timestamp,
		RemovedTo:   removed[len(removed)-1].Timestamp,
		FinalCount:  len(final),
	}

	if opts.DryRun {
		return &Result{
			Plan:            plan,
			State:           StateSpliced,
			SummaryText:     summaryText,
			SummaryDegraded: degraded,
			Duration:        time.Since(start),
		}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, NewTrimError(StateSpliced, err).WithPath(path)
	}

	// BackedUp. The lock is taken here, before any mutation, and released
	// on every exit path.
	lock, err := e.lock(ctx, path, opts.LockTimeout)
	if err != nil {
		return nil, NewTrimError(StateBackedUp, err).WithPath(path)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			e.logger.Warn("failed to release transcript lock", "path", path, "error", err)
		}
	}()

	handle, err := e.backups.Snapshot(path)
	if err != nil {
		return nil, NewTrimError(StateBackedUp, err).WithPath(path)
	}

	// Written
	if err := e.backups.Replace(path, transcript.Marshal(final)); err != nil {
		return nil, NewTrimError(StateWritten, err).WithPath(path).
			WithContext("backup_path", handle.Path)
	}

	// Pruning runs after the successful write; its failures are logged,
	// never surfaced.
	if err := e.backups.Prune(e.backups.Dir(path)); err != nil {
		e.logger.Warn("backup pruning failed", "path", path, "error", err)
	}

	result := &Result{
		Plan:            plan,
		State:           StateDone,
		BackupPath:      handle.Path,
		SummaryText:     summaryText,
		SummaryDegraded: degraded,
		Duration:        time.Since(start),
	}

	e.logger.Info("trim complete",
		"path", path,
		"removed", plan.Removed,
		"retained", plan.Retained,
		"final_count", plan.FinalCount,
		"backup", handle.Path,
		"summary_degraded", degraded,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// summarize produces the synthetic record's text. Remote failure is
// recovered locally by substituting the fallback output.
func (e *Engine) summarize(ctx context.Context, removed []*transcript.Record, opts Options) (text string, degraded bool) {
	sctx := summary.Context{
		ProjectName: opts.ProjectName,
		RecordCount: len(removed),
	}

	if opts.SummariesEnabled && e.provider != nil {
		text, err := e.provider.Summarize(ctx, removed, sctx)
		if err == nil {
			return text, false
		}
		e.logger.Warn("remote summarization failed, using fallback",
			"project", opts.ProjectName, "error", err)
		degraded = true
	}

	text, _ = e.fallback.Summarize(ctx, removed, sctx)
	return text, degraded
}

// desiredCut computes the policy's requested cut count.
func desiredCut(total int, opts Options) int {
	switch opts.Policy {
	case PolicyThreshold:
		if total <= opts.MaxMessages {
			return 0
		}
		return total - opts.MaxMessages
	case PolicyFraction:
		return int(math.Floor(float64(total) * opts.TrimFraction))
	default:
		return 0
	}
}
