// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"tdash/internal/service"
	"tdash/internal/session"
)

// FakeService is an in-memory implementation of service.Service and
// service.Auth for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int64

	// Accounts maps identifier to password for Login.
	Accounts map[string]string

	// Token is issued by Login and OAuthCallback.
	Token string

	// Calls made, for assertions.
	ListCalls   int
	OAuthCalls  []service.OAuthCallbackRequest
	SignupCalls []service.SignupRequest
	Updates     []service.TaskInput

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	LoginErr      error
	SignupErr     error
	OAuthErr      error

	// OAuthBlock, when set, is waited on before OAuthCallback returns.
	OAuthBlock chan struct{}

	// Session, when set, is cleared whenever a call fails with a 401, the
	// way the REST transport drops the token.
	Session *session.Session
}

// NewFakeService creates an empty FakeService that issues token "t1".
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:   1,
		Accounts: make(map[string]string),
		Token:    "t1",
	}
}

// AddTask adds a task and returns its id.
func (f *FakeService) AddTask(task service.Task) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID == 0 {
		task.ID = f.nextID
	}
	if task.ID >= f.nextID {
		f.nextID = task.ID + 1
	}
	if task.Priority == "" {
		task.Priority = service.PriorityNormal
	}
	if task.Status == "" {
		task.Status = service.StatusNotStarted
	}
	f.tasks = append(f.tasks, task)
	return task.ID
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	f.mu.Unlock()

	if f.ListTasksErr != nil {
		return nil, f.fail(ctx, f.ListTasksErr)
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.fail(ctx, f.CreateTaskErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	task := service.Task{
		ID:          f.nextID,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		Deadline:    in.Deadline,
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.fail(ctx, f.UpdateTaskErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Updates = append(f.Updates, in)
	for i, t := range f.tasks {
		if t.ID == id {
			t.Description = in.Description
			t.Priority = in.Priority
			t.Status = in.Status
			t.Deadline = in.Deadline
			f.tasks[i] = t
			return t, nil
		}
	}
	return service.Task{}, notFound()
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	if f.DeleteTaskErr != nil {
		return f.fail(ctx, f.DeleteTaskErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound()
}

// Login implements service.Auth.
func (f *FakeService) Login(ctx context.Context, req service.LoginRequest) (service.AuthResponse, error) {
	if f.LoginErr != nil {
		return service.AuthResponse{}, f.fail(ctx, f.LoginErr)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	if pw, ok := f.Accounts[req.Identifier]; !ok || pw != req.Password {
		return service.AuthResponse{}, f.fail(ctx, &service.APIError{
			StatusCode: http.StatusUnauthorized,
			Code:       "UNAUTHORIZED",
			Message:    "Invalid credentials",
		})
	}
	return service.AuthResponse{Token: f.Token, Username: req.Identifier}, nil
}

// Signup implements service.Auth.
func (f *FakeService) Signup(ctx context.Context, req service.SignupRequest) error {
	if f.SignupErr != nil {
		return f.fail(ctx, f.SignupErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.Accounts[req.Email]; exists {
		return &service.APIError{
			StatusCode: http.StatusConflict,
			Code:       "CONFLICT",
			Message:    "Email already in use",
		}
	}
	f.SignupCalls = append(f.SignupCalls, req)
	f.Accounts[req.Email] = req.Password
	f.Accounts[req.Username] = req.Password
	return nil
}

// OAuthCallback implements service.Auth.
func (f *FakeService) OAuthCallback(ctx context.Context, req service.OAuthCallbackRequest) (service.AuthResponse, error) {
	f.mu.Lock()
	f.OAuthCalls = append(f.OAuthCalls, req)
	f.mu.Unlock()

	if f.OAuthBlock != nil {
		select {
		case <-f.OAuthBlock:
		case <-ctx.Done():
			return service.AuthResponse{}, ctx.Err()
		}
	}
	if f.OAuthErr != nil {
		return service.AuthResponse{}, f.fail(ctx, f.OAuthErr)
	}
	return service.AuthResponse{Token: f.Token}, nil
}

// OAuthCallCount returns how many exchanges were attempted.
func (f *FakeService) OAuthCallCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.OAuthCalls)
}

// fail returns err, dropping the session first if err is a 401.
func (f *FakeService) fail(ctx context.Context, err error) error {
	if f.Session != nil && errors.Is(err, service.ErrUnauthorized) {
		f.Session.Clear(ctx)
	}
	return err
}

func notFound() error {
	return &service.APIError{StatusCode: http.StatusNotFound, Code: "NOT_FOUND", Message: "Task not found"}
}
