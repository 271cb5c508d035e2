package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tdash/internal/service"
)

// maxPages bounds how many pages ListTasks follows.
const maxPages = 100

// taskPage is the paged collection returned by GET /tasks. Last is absent
// when the backend does not page.
type taskPage struct {
	Content []service.Task `json:"content"`
	Last    *bool          `json:"last"`
}

// ListTasks implements service.Service. Pages are followed until the backend
// reports the last one.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var all []service.Task
	for page := 0; page < maxPages; page++ {
		q := url.Values{"sort": {"priority"}}
		if page > 0 {
			q.Set("page", strconv.Itoa(page))
		}

		var resp taskPage
		if err := c.do(ctx, http.MethodGet, "/tasks", q, nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Content...)

		if resp.Last == nil || *resp.Last || len(resp.Content) == 0 {
			break
		}
	}
	if all == nil {
		all = []service.Task{}
	}
	return all, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), nil, in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d", id)
}
