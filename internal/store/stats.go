package store

import "todoctl/internal/service"

// Stats are aggregates derived from the collection; they are never stored.
type Stats struct {
	Total     int     `json:"total" yaml:"total"`
	Completed int     `json:"completed" yaml:"completed"`
	Remaining int     `json:"remaining" yaml:"remaining"`
	Percent   float64 `json:"progress_percentage" yaml:"progress_percentage"`
}

// ComputeStats derives aggregates from tasks.
// Percent is 0 for an empty collection and is not rounded.
func ComputeStats(tasks []service.Task) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Remaining = st.Total - st.Completed
	if st.Total > 0 {
		st.Percent = float64(st.Completed) / float64(st.Total) * 100
	}
	return st
}
