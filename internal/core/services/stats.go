package services

import "github.com/taskera/backend/internal/domain"

// StatusTally is the fixed four-bucket count rendered next to the calendar.
type StatusTally struct {
	Pending   int `json:"pending"`
	Done      int `json:"done"`
	Postponed int `json:"postponed"`
	Cancelled int `json:"cancelled"`
}

func (t StatusTally) Total() int {
	return t.Pending + t.Done + t.Postponed + t.Cancelled
}

// Progress is the fraction of tasks done, 0 for an empty set.
func (t StatusTally) Progress() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.Done) / float64(total)
}

// Tally counts tasks per status. A row with an absent or unrecognized
// status counts as pending.
func Tally(tasks []domain.Task) StatusTally {
	var tally StatusTally
	for _, t := range tasks {
		switch t.Status.Normalize() {
		case domain.TaskStatusDone:
			tally.Done++
		case domain.TaskStatusPostponed:
			tally.Postponed++
		case domain.TaskStatusCancelled:
			tally.Cancelled++
		default:
			tally.Pending++
		}
	}
	return tally
}
