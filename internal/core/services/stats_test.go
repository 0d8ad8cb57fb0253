package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskera/backend/internal/core/services"
	"github.com/taskera/backend/internal/domain"
)

func TestTally(t *testing.T) {
	tests := []struct {
		name  string
		tasks []domain.Task
		want  services.StatusTally
	}{
		{
			name:  "empty set yields all zeros",
			tasks: nil,
			want:  services.StatusTally{},
		},
		{
			name: "mixed statuses",
			tasks: []domain.Task{
				{Status: domain.TaskStatusPending},
				{Status: domain.TaskStatusDone},
				{Status: domain.TaskStatusDone},
				{Status: domain.TaskStatusPostponed},
			},
			want: services.StatusTally{Pending: 1, Done: 2, Postponed: 1, Cancelled: 0},
		},
		{
			name: "absent status counts as pending",
			tasks: []domain.Task{
				{Status: ""},
				{Status: "archived"},
				{Status: domain.TaskStatusCancelled},
			},
			want: services.StatusTally{Pending: 2, Cancelled: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.Tally(tt.tasks))
		})
	}
}

func TestStatusTally_Progress(t *testing.T) {
	assert.Equal(t, 0.0, services.StatusTally{}.Progress())
	assert.Equal(t, 0.5, services.StatusTally{Pending: 1, Done: 2, Cancelled: 1}.Progress())
	assert.Equal(t, 1.0, services.StatusTally{Done: 3}.Progress())
}
