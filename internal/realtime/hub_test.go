package realtime_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskera/backend/internal/domain"
	"github.com/taskera/backend/internal/infrastructure/logger"
	"github.com/taskera/backend/internal/realtime"
)

func receive(t *testing.T, sub *realtime.Subscription) domain.TaskChange {
	t.Helper()
	select {
	case change := <-sub.C():
		return change
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return domain.TaskChange{}
	}
}

func assertNoEvent(t *testing.T, sub *realtime.Subscription) {
	t.Helper()
	select {
	case change := <-sub.C():
		t.Fatalf("unexpected change event: %+v", change)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_MemberScopeFiltersByAssignee(t *testing.T) {
	hub := realtime.NewHub(logger.NewNop())
	defer hub.Close()

	me := uuid.New()
	other := uuid.New()
	sub := hub.Subscribe(realtime.SubscribeOptions{Assignee: &me})
	defer hub.Unsubscribe(sub)

	// Someone else's task does not reach a member-scoped subscription.
	hub.Publish(domain.TaskChange{
		Type: domain.ChangeUpdate,
		Task: domain.Task{ID: uuid.New(), AssignedTo: other},
	})
	assertNoEvent(t, sub)

	// The member's own task does.
	mine := domain.Task{ID: uuid.New(), AssignedTo: me}
	hub.Publish(domain.TaskChange{Type: domain.ChangeUpdate, Task: mine})

	change := receive(t, sub)
	assert.Equal(t, mine.ID, change.Task.ID)
}

func TestHub_AdminScopeReceivesAll(t *testing.T) {
	hub := realtime.NewHub(logger.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(realtime.SubscribeOptions{})
	defer hub.Unsubscribe(sub)

	hub.Publish(domain.TaskChange{Type: domain.ChangeInsert, Task: domain.Task{ID: uuid.New(), AssignedTo: uuid.New()}})
	hub.Publish(domain.TaskChange{Type: domain.ChangeUpdate, Task: domain.Task{ID: uuid.New(), AssignedTo: uuid.New()}})

	first := receive(t, sub)
	second := receive(t, sub)
	assert.Equal(t, domain.ChangeInsert, first.Type)
	assert.Equal(t, domain.ChangeUpdate, second.Type)
}

func TestHub_EventTypeFilter(t *testing.T) {
	hub := realtime.NewHub(logger.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(realtime.SubscribeOptions{
		Events: []domain.ChangeType{domain.ChangeInsert},
	})
	defer hub.Unsubscribe(sub)

	hub.Publish(domain.TaskChange{Type: domain.ChangeUpdate, Task: domain.Task{ID: uuid.New()}})
	assertNoEvent(t, sub)

	inserted := domain.Task{ID: uuid.New()}
	hub.Publish(domain.TaskChange{Type: domain.ChangeInsert, Task: inserted})
	change := receive(t, sub)
	assert.Equal(t, inserted.ID, change.Task.ID)
}

func TestHub_PublishOrderPerSubscriber(t *testing.T) {
	hub := realtime.NewHub(logger.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(realtime.SubscribeOptions{})
	defer hub.Unsubscribe(sub)

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		hub.Publish(domain.TaskChange{Type: domain.ChangeInsert, Task: domain.Task{ID: ids[i]}})
	}

	for _, want := range ids {
		change := receive(t, sub)
		assert.Equal(t, want, change.Task.ID)
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := realtime.NewHub(logger.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(realtime.SubscribeOptions{})
	hub.Unsubscribe(sub)

	_, open := <-sub.C()
	assert.False(t, open)

	// A second unsubscribe is harmless.
	hub.Unsubscribe(sub)
}

func TestHub_SlowSubscriberDropped(t *testing.T) {
	hub := realtime.NewHub(logger.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(realtime.SubscribeOptions{})

	// Overrun the buffer without draining; the hub must disconnect the
	// subscriber instead of blocking the publisher.
	for i := 0; i < 64; i++ {
		hub.Publish(domain.TaskChange{Type: domain.ChangeInsert, Task: domain.Task{ID: uuid.New()}})
	}

	drained := 0
	for open := true; open; {
		select {
		case _, ok := <-sub.C():
			if !ok {
				open = false
				break
			}
			drained++
		case <-time.After(time.Second):
			t.Fatal("channel never closed for slow subscriber")
		}
	}
	require.LessOrEqual(t, drained, 16)
}
