// vortexa/store/reminder_store.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/sources/kv"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/types"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/utils/logging"
)

const remindersKey = "reminders"

// ReminderStore is a flat persisted list of payment reminders. Same
// degrade-to-empty load semantics as the session store.
type ReminderStore struct {
	mu        sync.Mutex
	kv        kv.Store
	reminders []types.Reminder
}

func NewReminderStore(ctx context.Context, store kv.Store) *ReminderStore {
	s := &ReminderStore{kv: store}
	raw, ok, err := store.Get(ctx, remindersKey)
	if err != nil {
		logging.AppLogger.Warn("reminders read failed, starting empty", zap.Error(err))
		return s
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.reminders); err != nil {
			s.reminders = nil
		}
	}
	return s
}

func (s *ReminderStore) Add(ctx context.Context, reminder types.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = append(s.reminders, reminder)
	return s.save(ctx)
}

func (s *ReminderStore) Delete(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.reminders) {
		return fmt.Errorf("reminder index %d out of range", index)
	}
	s.reminders = append(s.reminders[:index], s.reminders[index+1:]...)
	return s.save(ctx)
}

func (s *ReminderStore) List() []types.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Reminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

func (s *ReminderStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reminders)
}

func (s *ReminderStore) save(ctx context.Context) error {
	data, err := json.Marshal(s.reminders)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, remindersKey, string(data))
}
