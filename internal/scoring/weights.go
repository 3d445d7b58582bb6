package scoring

import "fmt"

// PriorityWeights holds the points awarded per task in each priority class.
type PriorityWeights struct {
	Urgent    int
	Important int
	Unhurried int
}

// DefaultWeights returns the stock weight distribution.
func DefaultWeights() PriorityWeights {
	return PriorityWeights{
		Urgent:    3,
		Important: 2,
		Unhurried: 1,
	}
}

// Validate rejects negative weights.
func (w PriorityWeights) Validate() error {
	if w.Urgent < 0 {
		return fmt.Errorf("negative urgent weight: %d", w.Urgent)
	}
	if w.Important < 0 {
		return fmt.Errorf("negative important weight: %d", w.Important)
	}
	if w.Unhurried < 0 {
		return fmt.Errorf("negative unhurried weight: %d", w.Unhurried)
	}
	return nil
}

// Score applies the weights to a set of priority counts.
func (w PriorityWeights) Score(c PriorityCounts) int {
	return c.Urgent*w.Urgent + c.Important*w.Important + c.Unhurried*w.Unhurried
}

// PriorityCounts is the number of tasks found in each weighted class.
type PriorityCounts struct {
	Urgent    int `json:"urgent"`
	Important int `json:"important"`
	Unhurried int `json:"unhurried"`
}

// Add returns the element-wise sum of c and o.
func (c PriorityCounts) Add(o PriorityCounts) PriorityCounts {
	return PriorityCounts{
		Urgent:    c.Urgent + o.Urgent,
		Important: c.Important + o.Important,
		Unhurried: c.Unhurried + o.Unhurried,
	}
}

func (c *PriorityCounts) inc(p Priority) {
	switch p {
	case PriorityUrgent:
		c.Urgent++
	case PriorityImportant:
		c.Important++
	case PriorityUnhurried:
		c.Unhurried++
	}
}
