package match

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunnerConfig sets the run-level matching parameters.
type RunnerConfig struct {
	Workers       int
	MaxCandidates int
	MinConfidence float64
}

// Runner drives the pipeline for a whole input: prune candidates and obtain
// a decision per row in parallel, then aggregate duplicates once every row
// is settled. Pruning and deciding are row-independent; the shared rate
// limiter inside the decider is the only cross-row coupling.
type Runner struct {
	pool    *Pool
	decider *Decider
	cfg     RunnerConfig
	logger  *slog.Logger

	// OnProgress, when set, receives the completed and total row counts as
	// rows finish. It may be called from multiple goroutines.
	OnProgress func(done, total int)
}

func NewRunner(pool *Pool, decider *Decider, cfg RunnerConfig, logger *slog.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{pool: pool, decider: decider, cfg: cfg, logger: logger}
}

// RunReport carries everything a caller needs after a run, complete or not.
type RunReport struct {
	RunID   string
	Results []MatchResult
	Summary Summary
	Elapsed time.Duration
}

// Run processes every old URL and returns the aggregated results. A fatal
// provider error or cancellation stops scheduling new rows, but the report
// still covers all input rows: undecided ones come back unresolved, so
// partial results are always well-formed. The returned error, when not nil,
// is the reason the run stopped early.
func (r *Runner) Run(ctx context.Context, olds []OldURL) (*RunReport, error) {
	start := time.Now()
	runID := uuid.NewString()
	r.logger.Info("matching started",
		"run_id", runID, "rows", len(olds), "pool", r.pool.Size(), "workers", r.cfg.Workers)

	outcomes := make([]RowOutcome, len(olds))
	for i := range olds {
		outcomes[i] = RowOutcome{
			Old:      olds[i],
			Decision: unresolvedDecision("unresolved: run stopped before this row", nil),
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var fatalErr error
	done := 0

	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				old := olds[i]
				candidates := r.pool.TopK(old, r.cfg.MaxCandidates)
				decision, err := r.decider.Decide(ctx, old, candidates)
				outcomes[i].Decision = decision

				mu.Lock()
				done++
				completed := done
				if err != nil && fatalErr == nil &&
					!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					fatalErr = err
					cancel()
				}
				mu.Unlock()

				if r.OnProgress != nil {
					r.OnProgress(completed, len(olds))
				}
			}
		}()
	}

feed:
	for i := range olds {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	results := Aggregate(outcomes, r.cfg.MinConfidence)
	report := &RunReport{
		RunID:   runID,
		Results: results,
		Summary: Summarize(results),
		Elapsed: time.Since(start),
	}

	err := fatalErr
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		r.logger.Warn("matching stopped early",
			"run_id", runID, "resolved", report.Summary.Resolved, "total", report.Summary.Total, "error", err)
	} else {
		r.logger.Info("matching finished",
			"run_id", runID, "resolved", report.Summary.Resolved, "unresolved", report.Summary.Unresolved,
			"elapsed", report.Elapsed)
	}
	return report, err
}
