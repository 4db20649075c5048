// vortexa/store/session_store.go
package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/sources/kv"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/types"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/utils/logging"
)

const chatHistoryKey = "chatHistory"

// snapshotVersion identifies the canonical on-disk schema. Values without
// a version envelope are legacy shapes and get migrated on load.
const snapshotVersion = 2

type snapshot struct {
	Version  int             `json:"version"`
	Sessions []types.Session `json:"sessions"`
}

// SessionStore owns the durable mapping of session id to session. All
// writes serialize the full mapping back to the key-value surface; the
// in-memory state stays authoritative when a write fails.
type SessionStore struct {
	mu       sync.RWMutex
	kv       kv.Store
	order    []string
	sessions map[string]types.Session
}

func NewSessionStore(ctx context.Context, store kv.Store) *SessionStore {
	s := &SessionStore{
		kv:       store,
		sessions: make(map[string]types.Session),
	}
	s.Load(ctx)
	return s
}

// Load re-reads the durable snapshot, replacing in-memory state. Missing
// or corrupt data yields an empty mapping, never an error: broken history
// is treated as no history.
func (s *SessionStore) Load(ctx context.Context) map[string]types.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.sessions = make(map[string]types.Session)

	raw, ok, err := s.kv.Get(ctx, chatHistoryKey)
	if err != nil {
		logging.AppLogger.Warn("chat history read failed, starting empty", zap.Error(err))
		return s.mapping()
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return s.mapping()
	}

	for _, session := range decodeSnapshot(raw) {
		if _, exists := s.sessions[session.ID]; !exists {
			s.order = append(s.order, session.ID)
		}
		s.sessions[session.ID] = session
	}
	return s.mapping()
}

// Save writes the full mapping as one snapshot. No partial or append
// writes happen anywhere in the store.
func (s *SessionStore) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked(ctx)
}

func (s *SessionStore) saveLocked(ctx context.Context) error {
	snap := snapshot{Version: snapshotVersion, Sessions: make([]types.Session, 0, len(s.order))}
	for _, id := range s.order {
		snap.Sessions = append(snap.Sessions, s.sessions[id])
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, chatHistoryKey, string(data))
}

// Upsert inserts or replaces a session by id, then persists. A persistence
// failure is returned so the caller can surface a warning; the in-memory
// mapping is updated either way.
func (s *SessionStore) Upsert(ctx context.Context, session types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; !exists {
		s.order = append(s.order, session.ID)
	}
	s.sessions[session.ID] = session
	return s.saveLocked(ctx)
}

// Get returns a session by id.
func (s *SessionStore) Get(id string) (types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// ListTitles returns the sidebar projection of every session in insertion
// order.
func (s *SessionStore) ListTitles() []types.SessionTitle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	titles := make([]types.SessionTitle, 0, len(s.order))
	for _, id := range s.order {
		titles = append(titles, types.SessionTitle{ID: id, Title: s.sessions[id].Title})
	}
	return titles
}

func (s *SessionStore) mapping() map[string]types.Session {
	out := make(map[string]types.Session, len(s.sessions))
	for id, session := range s.sessions {
		out[id] = session
	}
	return out
}

// decodeSnapshot parses any of the three shapes the chatHistory key has
// carried over time: the canonical versioned envelope, the unversioned
// keyed map {id: {title, messages}}, and the original flat array of
// {id, userPrompt, aiResponse, date} exchanges. Anything unreadable
// decodes to nothing.
func decodeSnapshot(raw string) []types.Session {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "[") {
		return migrateFlatHistory(trimmed)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(trimmed), &snap); err == nil && snap.Version >= snapshotVersion {
		return snap.Sessions
	}
	return migrateKeyedHistory(trimmed)
}

type legacyExchange struct {
	ID         json.Number `json:"id"`
	UserPrompt string      `json:"userPrompt"`
	AIResponse string      `json:"aiResponse"`
	Date       time.Time   `json:"date"`
}

// migrateFlatHistory turns each legacy exchange into its own session, the
// way the original sidebar listed them: one entry per prompt, titled by a
// truncated copy of the prompt itself.
func migrateFlatHistory(raw string) []types.Session {
	var exchanges []legacyExchange
	if err := json.Unmarshal([]byte(raw), &exchanges); err != nil {
		return nil
	}
	sessions := make([]types.Session, 0, len(exchanges))
	for _, ex := range exchanges {
		id := ex.ID.String()
		if id == "" {
			continue
		}
		sessions = append(sessions, types.Session{
			ID:    id,
			Title: truncateTitle(ex.UserPrompt),
			Messages: []types.Message{
				{Role: types.RoleUser, Content: ex.UserPrompt, Timestamp: ex.Date},
				{Role: types.RoleAssistant, Content: ex.AIResponse, Timestamp: ex.Date},
			},
			CreatedAt: ex.Date,
			UpdatedAt: ex.Date,
		})
	}
	return sessions
}

type legacyKeyedSession struct {
	Title    string          `json:"title"`
	Messages []types.Message `json:"messages"`
}

// migrateKeyedHistory reads the unversioned {id: {title, messages}} map.
// That shape never recorded insertion order, so ids are sorted to keep the
// migrated order deterministic.
func migrateKeyedHistory(raw string) []types.Session {
	var keyed map[string]legacyKeyedSession
	if err := json.Unmarshal([]byte(raw), &keyed); err != nil {
		return nil
	}
	ids := make([]string, 0, len(keyed))
	for id := range keyed {
		if id == "version" || id == "sessions" {
			return nil
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sessions := make([]types.Session, 0, len(ids))
	for _, id := range ids {
		sessions = append(sessions, types.Session{
			ID:       id,
			Title:    keyed[id].Title,
			Messages: keyed[id].Messages,
		})
	}
	return sessions
}

func truncateTitle(prompt string) string {
	const max = 50
	if len(prompt) <= max {
		return prompt
	}
	return prompt[:max] + "..."
}
