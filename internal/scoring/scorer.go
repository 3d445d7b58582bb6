package scoring

import (
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Inputs shorter than this are scanned on the calling goroutine.
const parallelThreshold = 512

// Result is the aggregate produced by one scoring pass.
type Result struct {
	WeightedCompletedScore int            `json:"weighted_completed_score"`
	WeightedTotalScore     int            `json:"weighted_total_score"`
	CompletedItemCount     int            `json:"completed_item_count"`
	TotalItemCount         int            `json:"total_item_count"`
	UnprioritizedItemCount int            `json:"unprioritized_item_count"`
	CompletionPercent      float64        `json:"completion_percent"`
	CompletedCounts        PriorityCounts `json:"completed_counts"`
	TotalCounts            PriorityCounts `json:"total_counts"`
	ComputedAt             time.Time      `json:"computed_at"`
}

// Scorer turns a snapshot of task records into a weighted productivity score.
type Scorer struct {
	weights PriorityWeights
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

// NewScorer creates a Scorer. workers <= 0 uses GOMAXPROCS.
func NewScorer(weights PriorityWeights, workers int, logger *slog.Logger) *Scorer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		weights: weights,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// Weights returns the weight set the scorer was built with.
func (s *Scorer) Weights() PriorityWeights {
	return s.weights
}

// ComputeScore partitions tasks by completion and priority and applies the
// configured weights. An empty slice yields a zero result.
func (s *Scorer) ComputeScore(tasks []TaskRecord) Result {
	totals := s.scan(tasks)

	result := Result{
		WeightedCompletedScore: s.weights.Score(totals.completed),
		WeightedTotalScore:     s.weights.Score(totals.total),
		CompletedItemCount:     totals.completedItems,
		TotalItemCount:         len(tasks),
		UnprioritizedItemCount: totals.unprioritized,
		CompletedCounts:        totals.completed,
		TotalCounts:            totals.total,
		ComputedAt:             s.now(),
	}
	result.CompletionPercent = CompletionPercent(result.WeightedCompletedScore, result.WeightedTotalScore)
	return result
}

// CompletionPercent returns completed/total as a percentage, or 0 when total
// is not positive.
func CompletionPercent(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) * 100 / float64(total)
}

// scanTotals is the partial reduction produced for one chunk of input.
type scanTotals struct {
	completedItems int
	unprioritized  int
	completed      PriorityCounts
	total          PriorityCounts
}

func (t scanTotals) add(o scanTotals) scanTotals {
	return scanTotals{
		completedItems: t.completedItems + o.completedItems,
		unprioritized:  t.unprioritized + o.unprioritized,
		completed:      t.completed.Add(o.completed),
		total:          t.total.Add(o.total),
	}
}

func (s *Scorer) scan(tasks []TaskRecord) scanTotals {
	if len(tasks) < parallelThreshold || s.workers == 1 {
		return s.scanChunk(tasks)
	}

	size := (len(tasks) + s.workers - 1) / s.workers
	partials := make([]scanTotals, 0, s.workers)
	for lo := 0; lo < len(tasks); lo += size {
		partials = append(partials, scanTotals{})
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range partials {
		lo := i * size
		hi := min(lo+size, len(tasks))
		g.Go(func() error {
			partials[i] = s.scanChunk(tasks[lo:hi])
			return nil
		})
	}
	_ = g.Wait()

	var totals scanTotals
	for _, p := range partials {
		totals = totals.add(p)
	}
	return totals
}

func (s *Scorer) scanChunk(tasks []TaskRecord) scanTotals {
	var t scanTotals
	for _, task := range tasks {
		if task.Completed {
			t.completedItems++
		}
		if !task.Priority.IsSet() {
			t.unprioritized++
			s.logger.Warn("task has no priority, excluded from weighted score",
				"task_id", task.ID,
				"completed", task.Completed,
			)
			continue
		}
		t.total.inc(task.Priority)
		if task.Completed {
			t.completed.inc(task.Priority)
		}
	}
	return t
}
