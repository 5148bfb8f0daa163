package tasks

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/daydash/internal/google"
)

// Client wraps the Google Tasks service.
type Client struct {
	svc *tasks.Service
}

// NewClient creates a new Tasks client authenticating with tokens from ts.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	httpClient := google.NewHTTPClient(ctx, ts)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// ListTaskLists lists all task lists for the authenticated user.
func (c *Client) ListTaskLists(ctx context.Context) ([]TaskList, error) {
	result, err := c.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	var taskLists []TaskList
	for _, tl := range result.Items {
		taskLists = append(taskLists, toTaskList(tl))
	}

	return taskLists, nil
}

// FindListByTitle returns the first task list whose title matches
// exactly, or nil if no such list exists.
func (c *Client) FindListByTitle(ctx context.Context, title string) (*TaskList, error) {
	lists, err := c.ListTaskLists(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].Title == title {
			return &lists[i], nil
		}
	}
	return nil, nil
}

// ListTasks lists up to maxResults tasks in a task list, including
// completed ones.
func (c *Client) ListTasks(ctx context.Context, taskListID string, maxResults int64) ([]Task, error) {
	result, err := c.svc.Tasks.List(taskListID).
		ShowCompleted(true).
		MaxResults(maxResults).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var taskList []Task
	for _, t := range result.Items {
		task := toTask(t)
		task.List = taskListID
		taskList = append(taskList, task)
	}

	return taskList, nil
}
