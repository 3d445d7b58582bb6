package hermes

import "time"

type ScoreCalculatedEvent struct {
	ID                     string    `json:"id,omitempty"`
	WeightedCompletedScore int       `json:"weighted_completed_score"`
	WeightedTotalScore     int       `json:"weighted_total_score"`
	CompletedItemCount     int       `json:"completed_item_count"`
	TotalItemCount         int       `json:"total_item_count"`
	UnprioritizedItemCount int       `json:"unprioritized_item_count"`
	CompletionPercent      float64   `json:"completion_percent"`
	ComputedAt             time.Time `json:"computed_at"`
	Trigger                string    `json:"trigger"`
}

type ScoreFailedEvent struct {
	Reason    string    `json:"reason"`
	Error     string    `json:"error"`
	Trigger   string    `json:"trigger"`
	Timestamp time.Time `json:"timestamp"`
}
