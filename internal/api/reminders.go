// Package api is the typed client for the reminders backend, built on the
// request executor.
package api

import (
	"context"

	"github.com/vietddude/remindd/internal/core/domain"
	"github.com/vietddude/remindd/internal/transport"
)

const remindersPath = "/reminders"

// Client talks to the reminders backend. All failures are *ClassifiedError.
type Client struct {
	exec *transport.Executor
}

func NewClient(exec *transport.Executor) *Client {
	return &Client{exec: exec}
}

// List fetches the full reminder collection.
func (c *Client) List(ctx context.Context) ([]domain.Reminder, error) {
	resp, err := c.exec.Get(ctx, remindersPath)
	if err != nil {
		return nil, err
	}

	var reminders []domain.Reminder
	if err := resp.Decode(&reminders); err != nil {
		return nil, &transport.ClassifiedError{
			Kind:    transport.KindParse,
			Status:  resp.Status,
			Message: err.Error(),
		}
	}

	for i := range reminders {
		reminders[i] = reminders[i].Normalize()
	}
	return reminders, nil
}

// Create pushes a new reminder to the backend and returns the stored record.
func (c *Client) Create(ctx context.Context, r domain.Reminder) (domain.Reminder, error) {
	resp, err := c.exec.Post(ctx, remindersPath, r)
	if err != nil {
		return domain.Reminder{}, err
	}

	var created domain.Reminder
	if err := resp.Decode(&created); err != nil {
		return domain.Reminder{}, &transport.ClassifiedError{
			Kind:    transport.KindParse,
			Status:  resp.Status,
			Message: err.Error(),
		}
	}
	return created.Normalize(), nil
}

// Update pushes a partial update.
func (c *Client) Update(ctx context.Context, id string, patch domain.ReminderPatch) error {
	_, err := c.exec.Put(ctx, remindersPath+"/"+id, patch)
	return err
}

// Delete removes a reminder on the backend.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.exec.Delete(ctx, remindersPath+"/"+id)
	return err
}
