package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/domain"
	"github.com/taskera/backend/internal/infrastructure/logger"
	httpmw "github.com/taskera/backend/internal/transport/http/middleware"
)

type TaskHandler struct {
	service ports.TaskService
	logger  *logger.Logger
}

func NewTaskHandler(service ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

// timeLayouts covers RFC 3339 plus the shapes datetime-local inputs emit.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// scopedQuery builds the listing scope for the principal: members are pinned
// to their own tasks, admins see everything and may filter by assignee.
func scopedQuery(c *fiber.Ctx, principal *domain.User) (ports.ListTasksQuery, error) {
	var query ports.ListTasksQuery
	if !principal.IsAdmin() {
		query.Assignee = principal.ID
	} else if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return query, fiber.NewError(fiber.StatusBadRequest, "invalid assigned_to filter")
		}
		query.AssigneeFilter = &id
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !status.IsValid() {
			return query, fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
		}
		query.StatusFilter = &status
	}
	return query, nil
}

func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	principal := httpmw.Principal(c)
	query, err := scopedQuery(c, principal)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListTasks(c.Context(), query)
	if err != nil {
		h.logger.Errorw("task_list_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tasks)
}

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ScheduledAt string   `json:"scheduled_at"`
	AssigneeIDs []string `json:"assignee_ids"`
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	input := ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   httpmw.Principal(c).ID,
	}
	if req.ScheduledAt != "" {
		scheduledAt, err := parseTime(req.ScheduledAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid scheduled_at"})
		}
		input.ScheduledAt = scheduledAt
	}
	for _, raw := range req.AssigneeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid assignee id"})
		}
		input.AssigneeIDs = append(input.AssigneeIDs, id)
	}

	tasks, err := h.service.CreateTask(c.Context(), input)
	if err != nil {
		return errorJSON(c, err)
	}

	h.logger.Infow("task_create_success", "count", len(tasks))
	return c.Status(fiber.StatusCreated).JSON(tasks)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ScheduledAt *string `json:"scheduled_at"`
	AssignedTo  *string `json:"assigned_to"`
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_update_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	input := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.ScheduledAt != nil {
		scheduledAt, err := parseTime(*req.ScheduledAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid scheduled_at"})
		}
		input.ScheduledAt = &scheduledAt
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid assigned_to"})
		}
		input.AssignedTo = &assignee
	}

	task, err := h.service.UpdateTask(c.Context(), id, input)
	if err != nil {
		return errorJSON(c, err)
	}

	h.logger.Infow("task_update_success", "id", id)
	return c.JSON(task)
}

// Transition accepts either JSON or, for the done path with an evidence
// image, multipart form data. Members may only transition their own tasks.
func (h *TaskHandler) Transition(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	principal := httpmw.Principal(c)
	if !principal.IsAdmin() {
		task, err := h.service.GetTask(c.Context(), id)
		if err != nil {
			return errorJSON(c, err)
		}
		if task.AssignedTo != principal.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your task"})
		}
	}

	transition, cleanup, err := h.parseTransition(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if cleanup != nil {
		defer cleanup()
	}

	task, err := h.service.Transition(c.Context(), id, transition)
	if err != nil {
		return errorJSON(c, err)
	}

	h.logger.Infow("task_transition_success", "id", id, "status", task.Status)
	return c.JSON(task)
}

type transitionRequest struct {
	Status         string `json:"status" form:"status"`
	Reason         string `json:"reason" form:"reason"`
	RescheduledFor string `json:"rescheduled_for" form:"rescheduled_for"`
}

func (h *TaskHandler) parseTransition(c *fiber.Ctx) (domain.Transition, func(), error) {
	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid transition body")
	}

	status := domain.TaskStatus(req.Status)
	if !status.IsValid() {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "unknown target status")
	}

	switch status {
	case domain.TaskStatusPending:
		return domain.ToPending{}, nil, nil

	case domain.TaskStatusDone:
		transition := domain.ToDone{}
		fileHeader, err := c.FormFile("evidence")
		if err == nil && fileHeader != nil {
			file, err := fileHeader.Open()
			if err != nil {
				return nil, nil, fiber.NewError(fiber.StatusBadRequest, "unreadable evidence file")
			}
			transition.Evidence = &domain.EvidenceFile{Name: fileHeader.Filename, Data: file}
			return transition, func() { file.Close() }, nil
		}
		return transition, nil, nil

	case domain.TaskStatusPostponed:
		transition := domain.ToPostponed{Reason: req.Reason}
		if req.RescheduledFor != "" {
			rescheduled, err := parseTime(req.RescheduledFor)
			if err != nil {
				return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid rescheduled_for")
			}
			transition.RescheduledFor = &rescheduled
		}
		return transition, nil, nil

	default:
		return domain.ToCancelled{Reason: req.Reason}, nil, nil
	}
}

// calendarEvent mirrors what the calendar widget consumes: one entry per
// task, placed at the reschedule time when one exists, colored by status.
type calendarEvent struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	AllDay      bool      `json:"all_day"`
	Color       string    `json:"color"`
	Status      string    `json:"status"`
	Assignee    string    `json:"assignee,omitempty"`
	Description string    `json:"description,omitempty"`
}

var statusColors = map[domain.TaskStatus]string{
	domain.TaskStatusPending:   "#ffb300",
	domain.TaskStatusDone:      "#5cb85c",
	domain.TaskStatusPostponed: "#5bc0de",
	domain.TaskStatusCancelled: "#d9534f",
}

func (h *TaskHandler) GetCalendar(c *fiber.Ctx) error {
	principal := httpmw.Principal(c)
	query, err := scopedQuery(c, principal)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListTasks(c.Context(), query)
	if err != nil {
		h.logger.Errorw("task_calendar_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	events := make([]calendarEvent, 0, len(tasks))
	for _, t := range tasks {
		start := t.ScheduledAt
		if t.RescheduledFor != nil {
			start = *t.RescheduledFor
		}
		events = append(events, calendarEvent{
			ID:          t.ID,
			Title:       t.Title,
			Start:       start,
			Color:       statusColors[t.Status.Normalize()],
			Status:      string(t.Status.Normalize()),
			Assignee:    t.AssigneeName,
			Description: t.Description,
		})
	}
	return c.JSON(events)
}
