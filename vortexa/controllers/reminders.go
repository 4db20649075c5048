// vortexa/controllers/reminders.go
package controllers

import (
	"context"
	"errors"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/store"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/types"
)

var ErrReminderIncomplete = errors.New("reminder needs a date and a message")

type RemindersController struct {
	reminders *store.ReminderStore
}

func NewRemindersController(reminders *store.ReminderStore) *RemindersController {
	return &RemindersController{reminders: reminders}
}

func (c *RemindersController) Add(ctx context.Context, reminder types.Reminder) error {
	if reminder.Date == "" || reminder.Message == "" {
		return ErrReminderIncomplete
	}
	return c.reminders.Add(ctx, reminder)
}

func (c *RemindersController) List() []types.Reminder {
	return c.reminders.List()
}

func (c *RemindersController) Delete(ctx context.Context, index int) error {
	return c.reminders.Delete(ctx, index)
}

func (c *RemindersController) Count() int {
	return c.reminders.Count()
}
