package ranking

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// PoolSource supplies the read-only candidate pool snapshot for a run.
type PoolSource interface {
	ListProfiles(ctx context.Context, limit int) ([]types.CandidateProfile, error)
}

// ProfileUpdater applies a staged partial update to one candidate profile.
type ProfileUpdater interface {
	UpdateExtractedFields(ctx context.Context, id uuid.UUID, fields types.ExtractedFields) error
}

// Ranker is the candidate-ranking orchestrator.
type Ranker struct {
	cfg     config.Config
	gen     Generator
	pool    PoolSource
	updater ProfileUpdater
	policy  llm.RetryPolicy
	sleeper llm.Sleeper
}

// Option customizes a Ranker.
type Option func(*Ranker)

// WithSleeper replaces the wall-clock sleeper; tests inject a fake to run
// retry and wave scheduling without real delays.
func WithSleeper(s llm.Sleeper) Option {
	return func(r *Ranker) { r.sleeper = s }
}

// New creates a Ranker. gen must issue exactly one network call per Generate;
// pool and updater are typically the same store.
func New(cfg config.Config, gen Generator, pool PoolSource, updater ProfileUpdater, opts ...Option) *Ranker {
	r := &Ranker{
		cfg:     cfg,
		gen:     gen,
		pool:    pool,
		updater: updater,
		policy: llm.RetryPolicy{
			MaxAttempts:           cfg.MaxAttempts,
			DefaultRateLimitDelay: cfg.RateLimitDelay(),
		},
		sleeper: llm.RealSleeper{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank runs the full orchestration for one job description: snapshot the
// pool, batch it, run the batches under the scheduling policy, reconcile,
// apply best-effort profile updates and return the sorted non-fallback
// matches with aggregate counts.
//
// A pool fetch failure is fatal to the run; per-batch failures never are.
func (r *Ranker) Rank(ctx context.Context, jobDescription string) (*types.RankResponse, error) {
	pool, err := r.pool.ListProfiles(ctx, r.cfg.PoolLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate pool: %w", err)
	}

	if len(pool) == 0 {
		return &types.RankResponse{
			Matches: []types.Match{},
			Total:   0,
			Message: "No candidates to rank",
		}, nil
	}

	batches := Partition(pool, r.cfg.BatchSize, r.cfg.SnippetLength)
	log.Printf("[rank] ranking %d candidates in %d batches (wave width %d, sequential=%t)",
		len(pool), len(batches), r.cfg.WaveWidth, r.cfg.Sequential)

	ranked := r.runBatches(ctx, jobDescription, batches)
	matches, updates, agg := Reconcile(pool, ranked)

	report := r.applyUpdates(ctx, updates)
	if report.Failed > 0 {
		log.Printf("[rank] profile updates: %d applied, %d failed (scores unaffected)", report.Applied, report.Failed)
	}

	return &types.RankResponse{
		Matches: matches,
		Total:   agg.Total,
		Message: fmt.Sprintf("Ranked %d candidates: %d analyzed, %d require manual review",
			agg.Total, agg.Matched, agg.Unmatched),
	}, nil
}

// UpdateReport collects the outcome of the best-effort persistence pass.
type UpdateReport struct {
	Applied int
	Failed  int
}

// applyUpdates issues one update per staged match. Every update is
// independent: failures are recorded, never propagated, and each targets a
// single disjoint profile ID so no ordering or locking is required.
func (r *Ranker) applyUpdates(ctx context.Context, updates []ProfileUpdate) UpdateReport {
	if r.updater == nil || len(updates) == 0 {
		return UpdateReport{}
	}

	var (
		mu     sync.Mutex
		report UpdateReport
	)
	g, gCtx := errgroup.WithContext(ctx)
	for _, update := range updates {
		g.Go(func() error {
			err := r.updater.UpdateExtractedFields(gCtx, update.ID, update.Fields)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[rank] profile update failed for %s: %v", update.ID, err)
				report.Failed++
			} else {
				report.Applied++
			}
			return nil
		})
	}
	_ = g.Wait()
	return report
}
