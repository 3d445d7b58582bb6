package scoring

import (
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedScorer(weights PriorityWeights, workers int) *Scorer {
	s := NewScorer(weights, workers, discardLogger())
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func task(completed bool, p Priority) TaskRecord {
	return TaskRecord{Completed: completed, Priority: p}
}

func workedExample() []TaskRecord {
	return []TaskRecord{
		task(true, PriorityUrgent),
		task(true, PriorityUrgent),
		task(false, PriorityUrgent),
		task(true, PriorityImportant),
		task(false, PriorityImportant),
		task(false, PriorityUnhurried),
	}
}

func TestComputeScoreWorkedExample(t *testing.T) {
	s := fixedScorer(PriorityWeights{Urgent: 3, Important: 2, Unhurried: 1}, 1)
	r := s.ComputeScore(workedExample())

	if r.WeightedCompletedScore != 8 {
		t.Errorf("expected weighted completed 8, got %d", r.WeightedCompletedScore)
	}
	if r.WeightedTotalScore != 14 {
		t.Errorf("expected weighted total 14, got %d", r.WeightedTotalScore)
	}
	if r.CompletedItemCount != 3 {
		t.Errorf("expected 3 completed items, got %d", r.CompletedItemCount)
	}
	if r.TotalItemCount != 6 {
		t.Errorf("expected 6 total items, got %d", r.TotalItemCount)
	}
	if math.Abs(r.CompletionPercent-57.142857) > 0.001 {
		t.Errorf("expected completion ~57.14%%, got %f", r.CompletionPercent)
	}
	want := PriorityCounts{Urgent: 2, Important: 1, Unhurried: 0}
	if r.CompletedCounts != want {
		t.Errorf("expected completed counts %+v, got %+v", want, r.CompletedCounts)
	}
	if !r.ComputedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected computed_at %v", r.ComputedAt)
	}
}

func TestComputeScoreEmptyInput(t *testing.T) {
	s := fixedScorer(DefaultWeights(), 4)
	r := s.ComputeScore(nil)

	if r.WeightedCompletedScore != 0 || r.WeightedTotalScore != 0 {
		t.Errorf("expected zero scores, got %d/%d", r.WeightedCompletedScore, r.WeightedTotalScore)
	}
	if r.CompletedItemCount != 0 || r.TotalItemCount != 0 {
		t.Errorf("expected zero counts, got %d/%d", r.CompletedItemCount, r.TotalItemCount)
	}
	if r.CompletionPercent != 0 {
		t.Errorf("expected 0%% completion, got %f", r.CompletionPercent)
	}
}

func TestComputeScoreUnsetPriority(t *testing.T) {
	s := fixedScorer(DefaultWeights(), 1)
	r := s.ComputeScore([]TaskRecord{
		task(true, PriorityUnset),
		task(false, PriorityUnset),
		task(true, PriorityImportant),
	})

	if r.TotalItemCount != 3 {
		t.Errorf("unset tasks must count toward total, got %d", r.TotalItemCount)
	}
	if r.CompletedItemCount != 2 {
		t.Errorf("completed unset task must count toward completed, got %d", r.CompletedItemCount)
	}
	if r.WeightedTotalScore != 2 || r.WeightedCompletedScore != 2 {
		t.Errorf("unset tasks must not be weighted, got %d/%d", r.WeightedCompletedScore, r.WeightedTotalScore)
	}
	if r.UnprioritizedItemCount != 2 {
		t.Errorf("expected 2 unprioritized, got %d", r.UnprioritizedItemCount)
	}
	if r.TotalCounts != (PriorityCounts{Important: 1}) {
		t.Errorf("unexpected total counts %+v", r.TotalCounts)
	}
}

func TestComputeScoreOnlyUnsetGuardsDivision(t *testing.T) {
	s := fixedScorer(DefaultWeights(), 1)
	r := s.ComputeScore([]TaskRecord{task(true, PriorityUnset)})
	if r.WeightedTotalScore != 0 {
		t.Fatalf("expected zero total score, got %d", r.WeightedTotalScore)
	}
	if r.CompletionPercent != 0 {
		t.Errorf("expected 0%% with zero denominator, got %f", r.CompletionPercent)
	}
}

func randomTasks(n int, seed int64) []TaskRecord {
	rng := rand.New(rand.NewSource(seed))
	priorities := []Priority{PriorityUnset, PriorityUrgent, PriorityImportant, PriorityUnhurried}
	tasks := make([]TaskRecord, n)
	for i := range tasks {
		tasks[i] = task(rng.Intn(2) == 0, priorities[rng.Intn(len(priorities))])
	}
	return tasks
}

func TestComputeScoreParallelMatchesSequential(t *testing.T) {
	tasks := randomTasks(10_000, 42)
	seq := fixedScorer(DefaultWeights(), 1).ComputeScore(tasks)

	for _, workers := range []int{2, 3, 8, 64} {
		par := fixedScorer(DefaultWeights(), workers).ComputeScore(tasks)
		if par != seq {
			t.Errorf("workers=%d: parallel result %+v differs from sequential %+v", workers, par, seq)
		}
	}
}

func TestComputeScoreOrderInvariant(t *testing.T) {
	tasks := randomTasks(2_000, 7)
	s := fixedScorer(DefaultWeights(), 4)
	base := s.ComputeScore(tasks)

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 5; i++ {
		shuffled := make([]TaskRecord, len(tasks))
		copy(shuffled, tasks)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := s.ComputeScore(shuffled)
		if got != base {
			t.Fatalf("shuffle %d: result changed: %+v vs %+v", i, got, base)
		}
	}
}

func TestComputeScoreCountsBounded(t *testing.T) {
	s := fixedScorer(DefaultWeights(), 4)
	for seed := int64(0); seed < 20; seed++ {
		r := s.ComputeScore(randomTasks(1+int(seed)*137, seed))
		if r.CompletedItemCount > r.TotalItemCount {
			t.Errorf("seed %d: completed %d > total %d", seed, r.CompletedItemCount, r.TotalItemCount)
		}
		if r.WeightedCompletedScore > r.WeightedTotalScore {
			t.Errorf("seed %d: weighted completed %d > weighted total %d", seed, r.WeightedCompletedScore, r.WeightedTotalScore)
		}
	}
}

func TestComputeScoreInjectedWeights(t *testing.T) {
	s := fixedScorer(PriorityWeights{Urgent: 10, Important: 0, Unhurried: 5}, 1)
	r := s.ComputeScore(workedExample())
	if r.WeightedCompletedScore != 20 {
		t.Errorf("expected 20, got %d", r.WeightedCompletedScore)
	}
	if r.WeightedTotalScore != 35 {
		t.Errorf("expected 35, got %d", r.WeightedTotalScore)
	}
}

func TestCompletionPercent(t *testing.T) {
	tests := []struct {
		name             string
		completed, total int
		want             float64
	}{
		{"zero total", 0, 0, 0},
		{"negative total", 1, -1, 0},
		{"half", 5, 10, 50},
		{"all", 14, 14, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionPercent(tt.completed, tt.total); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestNewScorerDefaultsWorkers(t *testing.T) {
	s := NewScorer(DefaultWeights(), 0, nil)
	if s.workers < 1 {
		t.Errorf("expected at least one worker, got %d", s.workers)
	}
	if s.logger == nil {
		t.Error("expected default logger")
	}
}
