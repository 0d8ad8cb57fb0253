package services

import "errors"

// Task errors
var (
	ErrTaskNotFound       = errors.New("task: not found")
	ErrTaskTitleRequired  = errors.New("task: title is required")
	ErrTaskDateRequired   = errors.New("task: scheduled time is required")
	ErrTaskNoAssignees    = errors.New("task: at least one assignee is required")
	ErrTaskInvalidInput   = errors.New("task: invalid input")
	ErrEvidenceUploadFail = errors.New("task: evidence upload failed")
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrEmailRequired      = errors.New("auth: email is required")
	ErrPasswordRequired   = errors.New("auth: password is required")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrSessionNotFound    = errors.New("auth: session not found")
	ErrSessionExpired     = errors.New("auth: session expired")
)
