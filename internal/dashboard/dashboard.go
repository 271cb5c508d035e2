// Package dashboard holds the fetched task collection and applies views
// and mutations to it.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tdash/internal/service"
)

// Dashboard is the client-side task state of one command run. The
// collection is only ever replaced wholesale by a fetch.
type Dashboard struct {
	svc   service.Service
	log   *slog.Logger
	now   func() time.Time
	tasks []service.Task
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithClock overrides the clock used by views.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// WithLogger sets the logger fetch failures are reported to.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dashboard) { d.log = log }
}

// New creates an empty dashboard.
func New(svc service.Service, opts ...Option) *Dashboard {
	d := &Dashboard{
		svc:   svc,
		log:   slog.Default(),
		now:   time.Now,
		tasks: []service.Task{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Refresh replaces the collection with the backend's. On failure the
// error is logged, the previous collection is kept and the error returned.
func (d *Dashboard) Refresh(ctx context.Context) error {
	tasks, err := d.svc.ListTasks(ctx)
	if err != nil {
		d.log.Warn("failed to fetch tasks", "error", err)
		return err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	d.tasks = tasks
	return nil
}

// Tasks returns the collection as fetched.
func (d *Dashboard) Tasks() []service.Task {
	return d.tasks
}

// View returns the tasks of v at the current time.
func (d *Dashboard) View(v View) []service.Task {
	return v.Filter(d.tasks, d.now())
}

// Now returns the dashboard's clock reading.
func (d *Dashboard) Now() time.Time {
	return d.now()
}

// Find returns the task with the given server id.
func (d *Dashboard) Find(id int64) (service.Task, bool) {
	for _, t := range d.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Create adds a task. Priority defaults to NORMAL and status to
// NOT_STARTED. A successful write is followed by a refetch.
func (d *Dashboard) Create(ctx context.Context, in service.TaskInput) (service.Task, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return service.Task{}, fmt.Errorf("task description is required")
	}
	if in.Priority == "" {
		in.Priority = service.PriorityNormal
	}
	if in.Status == "" {
		in.Status = service.StatusNotStarted
	}

	task, err := d.svc.CreateTask(ctx, in)
	if err != nil {
		return service.Task{}, err
	}
	d.refetch(ctx)
	return task, nil
}

// Update replaces the writable fields of task id.
func (d *Dashboard) Update(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	task, err := d.svc.UpdateTask(ctx, id, in)
	if err != nil {
		return service.Task{}, err
	}
	d.refetch(ctx)
	return task, nil
}

// SetStatus sends the task's current fields with a new status.
func (d *Dashboard) SetStatus(ctx context.Context, task service.Task, status service.Status) (service.Task, error) {
	in := task.Input()
	in.Status = status
	return d.Update(ctx, task.ID, in)
}

// Delete removes task id.
func (d *Dashboard) Delete(ctx context.Context, id int64) error {
	if err := d.svc.DeleteTask(ctx, id); err != nil {
		return err
	}
	d.refetch(ctx)
	return nil
}

// refetch follows a write. Its failure is already logged and only means
// the collection is stale.
func (d *Dashboard) refetch(ctx context.Context) {
	_ = d.Refresh(ctx)
}
