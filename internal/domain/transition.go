package domain

import (
	"errors"
	"io"
	"strings"
	"time"
)

var (
	ErrReasonRequired = errors.New("transition: reason is required")
)

// Transition is a validated status change request. One variant exists per
// target status so a payload that is illegal for its status cannot be built
// in the first place: only ToDone carries evidence, only ToPostponed carries
// a reschedule time, and the reason-carrying variants refuse blank reasons.
type Transition interface {
	TargetStatus() TaskStatus
	Validate() error
}

type ToPending struct{}

func (ToPending) TargetStatus() TaskStatus { return TaskStatusPending }
func (ToPending) Validate() error          { return nil }

// EvidenceFile is an image attached to a done transition, uploaded to the
// media host before the status update is applied.
type EvidenceFile struct {
	Name string
	Data io.Reader
}

type ToDone struct {
	Evidence *EvidenceFile
}

func (ToDone) TargetStatus() TaskStatus { return TaskStatusDone }
func (ToDone) Validate() error          { return nil }

type ToPostponed struct {
	Reason         string
	RescheduledFor *time.Time
}

func (ToPostponed) TargetStatus() TaskStatus { return TaskStatusPostponed }

func (t ToPostponed) Validate() error {
	if strings.TrimSpace(t.Reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

type ToCancelled struct {
	Reason string
}

func (ToCancelled) TargetStatus() TaskStatus { return TaskStatusCancelled }

func (t ToCancelled) Validate() error {
	if strings.TrimSpace(t.Reason) == "" {
		return ErrReasonRequired
	}
	return nil
}
