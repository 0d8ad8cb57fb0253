package domain

// ChangeType mirrors the row operations the notification feed reports.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
)

// TaskChange is one notification on the task change feed. It carries the
// full row so subscribers can scope-filter without a lookup; consumers still
// refetch the whole list rather than patching incrementally.
type TaskChange struct {
	Type ChangeType `json:"type"`
	Task Task       `json:"task"`
}
