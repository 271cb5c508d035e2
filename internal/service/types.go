package service

import (
	"fmt"
	"strings"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// ParsePriority accepts a priority name in any case.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityUrgent, PriorityNormal, PriorityLow:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority: %s (want urgent, normal or low)", s)
}

// Status is the completion state of a task.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusDone       Status = "DONE"
)

// ParseStatus accepts a status name in any case; "-" and " " may stand in
// for "_".
func ParseStatus(s string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch st := Status(norm); st {
	case StatusNotStarted, StatusDone:
		return st, nil
	}
	return "", fmt.Errorf("invalid status: %s (want not_started or done)", s)
}

// Task is a to-do item as returned by the backend.
type Task struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Deadline    *DateTime `json:"deadline"`
	CreatedAt   *DateTime `json:"createdAt,omitempty"`
	UpdatedAt   *DateTime `json:"updatedAt,omitempty"`
}

// Done reports whether the task is completed.
func (t Task) Done() bool { return t.Status == StatusDone }

// Input returns the writable fields of the task, for a full update.
func (t Task) Input() TaskInput {
	return TaskInput{
		Description: t.Description,
		Priority:    t.Priority,
		Deadline:    t.Deadline,
		Status:      t.Status,
	}
}

// TaskInput is the body of create and update requests. A nil Deadline is
// sent as an explicit null.
type TaskInput struct {
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Deadline    *DateTime `json:"deadline"`
	Status      Status    `json:"status"`
}

// LoginRequest is the body of an email/password login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// SignupRequest is the body of an account registration.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OAuthCallbackRequest hands an authorization code to the backend.
type OAuthCallbackRequest struct {
	Code        string `json:"code"`
	Provider    string `json:"provider"`
	RedirectURI string `json:"redirectUri"`
}

// AuthResponse carries the issued session token. The profile fields are
// informational and may be empty.
type AuthResponse struct {
	Token    string   `json:"token"`
	ID       int64    `json:"id,omitempty"`
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}
