package batch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/techeer-11-team-k/aptmatch/internal/catalog"
	"github.com/techeer-11-team-k/aptmatch/internal/debug"
	"github.com/techeer-11-team-k/aptmatch/internal/match"
)

// Task is one logical batch: the transaction records of one period for one
// city/county region. Each task owns its own prefetch and feature cache, so
// tasks share no mutable state and need no locking in the matching core.
type Task struct {
	Period  string // e.g. "202406"
	SggCode string // 5-digit city/county code
	Records []match.Record
}

// Stats aggregates batch outcomes across tasks.
type Stats struct {
	mu        sync.Mutex
	Total     int
	Matched   int
	Unmatched int
	ByMethod  map[string]int
	ByOutcome map[string]int
	Elapsed   time.Duration
}

func newStats() *Stats {
	return &Stats{
		ByMethod:  make(map[string]int),
		ByOutcome: make(map[string]int),
	}
}

func (s *Stats) record(res match.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Total++
	if res.Matched {
		s.Matched++
		s.ByMethod[res.Method]++
	} else {
		s.Unmatched++
		s.ByOutcome[res.Outcome]++
	}
}

// Orchestrator drives batch tasks through the matching engine under a
// bounded-concurrency pool. The limit is sized to the prefetch I/O budget,
// not to CPU: matching itself is synchronous once data is in hand.
type Orchestrator struct {
	catalog  catalog.Catalog
	engine   *match.Engine
	sink     *FailureSink
	workers  int
	debug    bool
	Observer func(match.Result) // optional, e.g. metrics; must be concurrency-safe
}

// NewOrchestrator wires an orchestrator. A workers value below 1 defaults
// to 4.
func NewOrchestrator(cat catalog.Catalog, engine *match.Engine, sink *FailureSink, workers int, localDebug bool) *Orchestrator {
	if workers < 1 {
		workers = 4
	}
	return &Orchestrator{
		catalog: cat,
		engine:  engine,
		sink:    sink,
		workers: workers,
		debug:   localDebug,
	}
}

// Run processes all tasks and returns aggregate statistics. Only data-access
// failures (a prefetch that cannot be served) abort the run; unmatched
// records are logged and never stop a batch.
func (o *Orchestrator) Run(ctx context.Context, tasks []Task) (*Stats, error) {
	stats := newStats()
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return o.runTask(ctx, task, stats)
		})
	}
	err := g.Wait()

	stats.mu.Lock()
	stats.Elapsed = time.Since(start)
	stats.mu.Unlock()

	debug.Output(o.debug, "batch complete: %d records, %d matched, %d unmatched in %v",
		stats.Total, stats.Matched, stats.Unmatched, stats.Elapsed)
	return stats, err
}

func (o *Orchestrator) runTask(ctx context.Context, task Task, stats *Stats) error {
	defer debug.Timing(o.debug, "task "+task.SggCode+"/"+task.Period)()

	pool, err := o.catalog.PrefetchRegion(ctx, task.SggCode)
	if err != nil {
		return err
	}
	debug.Output(o.debug, "task %s/%s: %d reference candidates, %d records",
		task.SggCode, task.Period, len(pool), len(task.Records))

	// The cache lives exactly as long as the task; records within a batch
	// repeat names constantly, across batches they go stale.
	cache := match.NewFeatureCache(o.engine.Params())

	for _, rec := range task.Records {
		// Abandoning between records is safe: no state outside the
		// task-owned cache has been touched.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res := o.engine.MatchRecord(false, rec, pool, cache)
		stats.record(res)
		if o.Observer != nil {
			o.Observer(res)
		}
		if !res.Matched && o.sink != nil {
			if err := o.sink.Append(task.Period, res.Outcome, res.Diagnostics); err != nil {
				return err
			}
		}
	}
	return nil
}
