package controllers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/services/strategist"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/sources/kv"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/store"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/types"
)

// countingKV counts writes so tests can assert an operation never
// persisted anything.
type countingKV struct {
	*kv.MemoryStore
	mu   sync.Mutex
	sets int
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryStore.Set(ctx, key, value)
}

func newTestController(backend strategist.Client, parse bool) (*ChatController, *store.SessionStore, *countingKV) {
	ctx := context.Background()
	mem := &countingKV{MemoryStore: kv.NewMemoryStore()}
	sessions := store.NewSessionStore(ctx, mem)
	return NewChatController(sessions, backend, parse, 4), sessions, mem
}

func TestSubmitEmptyInput(t *testing.T) {
	ctrl, _, _ := newTestController(&strategist.MockClient{}, false)

	_, err := ctrl.Submit(context.Background(), "   \n  ")
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if len(ctrl.Messages()) != 0 {
		t.Error("rejected submit must not touch the draft")
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	backend := &strategist.MockClient{
		GenerateFunc: func(ctx context.Context, req strategist.Request) (*strategist.Reply, error) {
			if req.Profile == nil {
				t.Fatal("expected parsed profile in request")
			}
			loans := req.Profile.OngoingLoans
			if len(loans) != 1 || loans[0].Name != "Car" || loans[0].Principal != 500000 || loans[0].InterestRate != 9.5 {
				t.Errorf("unexpected parsed loans %+v", loans)
			}
			if req.Profile.MonthlyIncome != 75000 {
				t.Errorf("expected income 75000, got %v", req.Profile.MonthlyIncome)
			}
			return &strategist.Reply{Text: "plan", Title: "Car Loan Plan"}, nil
		},
	}
	ctrl, sessions, _ := newTestController(backend, true)

	out, err := ctrl.Submit(context.Background(), "Loans:\nCar,500000,9.5\nIncome:\n75000")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if out.Failed || out.Reply.Content != "plan" {
		t.Errorf("unexpected outcome %+v", out)
	}

	titles := sessions.ListTitles()
	if len(titles) != 1 || titles[0].Title != "Car Loan Plan" {
		t.Fatalf("expected one session titled from the first exchange, got %+v", titles)
	}
	session, _ := sessions.Get(titles[0].ID)
	if len(session.Messages) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(session.Messages))
	}
	if session.Messages[0].Role != types.RoleUser || session.Messages[1].Role != types.RoleAssistant {
		t.Errorf("unexpected message roles %+v", session.Messages)
	}
}

func TestSubmitBackendFailure(t *testing.T) {
	backend := &strategist.MockClient{
		GenerateFunc: func(ctx context.Context, req strategist.Request) (*strategist.Reply, error) {
			return nil, strategist.ErrBackendUnavailable
		},
	}
	ctrl, sessions, _ := newTestController(backend, false)

	out, err := ctrl.Submit(context.Background(), "help me")
	if err != nil {
		t.Fatalf("Submit returned error instead of fallback: %v", err)
	}
	if !out.Failed {
		t.Error("expected Failed outcome")
	}

	msgs := ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected optimistic user message plus fallback, got %d", len(msgs))
	}
	if msgs[1].Content != "I am currently unable to provide a response. Please try again later." {
		t.Errorf("unexpected fallback text %q", msgs[1].Content)
	}
	if len(sessions.ListTitles()) != 0 {
		t.Error("a failed first turn must not create a session")
	}
}

func TestSubmitRejectsReentrantCall(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	backend := &strategist.MockClient{
		GenerateFunc: func(ctx context.Context, req strategist.Request) (*strategist.Reply, error) {
			close(entered)
			<-release
			return &strategist.Reply{Text: "late plan", Title: "T"}, nil
		},
	}
	ctrl, _, _ := newTestController(backend, false)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := ctrl.Submit(context.Background(), "first"); err != nil {
			t.Errorf("first submit failed: %v", err)
		}
	}()

	<-entered
	_, err := ctrl.Submit(context.Background(), "second")
	if !errors.Is(err, ErrAlreadyInFlight) {
		t.Errorf("expected ErrAlreadyInFlight, got %v", err)
	}
	if got := len(ctrl.Messages()); got != 1 {
		t.Errorf("expected exactly one new user message in the draft, got %d", got)
	}

	close(release)
	<-done
	if got := len(ctrl.Messages()); got != 2 {
		t.Errorf("expected completed exchange, got %d messages", got)
	}
}

func TestTitleAssignedOnceNeverOverwritten(t *testing.T) {
	titles := []string{"First Title", "Better Title"}
	call := 0
	backend := &strategist.MockClient{
		GenerateFunc: func(ctx context.Context, req strategist.Request) (*strategist.Reply, error) {
			reply := &strategist.Reply{Text: "plan", Title: titles[call]}
			call++
			return reply, nil
		},
	}
	ctrl, sessions, _ := newTestController(backend, false)

	ctrl.Submit(context.Background(), "turn one")
	ctrl.Submit(context.Background(), "turn two")

	list := sessions.ListTitles()
	if len(list) != 1 {
		t.Fatalf("expected one session, got %d", len(list))
	}
	if list[0].Title != "First Title" {
		t.Errorf("title must keep its first value, got %q", list[0].Title)
	}
	session, _ := sessions.Get(list[0].ID)
	if len(session.Messages) != 4 {
		t.Errorf("expected both exchanges persisted, got %d messages", len(session.Messages))
	}
}

func TestHistoryWindowIsBounded(t *testing.T) {
	var lastHistory []strategist.HistoryMessage
	backend := &strategist.MockClient{
		GenerateFunc: func(ctx context.Context, req strategist.Request) (*strategist.Reply, error) {
			lastHistory = req.History
			return &strategist.Reply{Text: "plan", Title: "T"}, nil
		},
	}
	ctrl, _, _ := newTestController(backend, false)

	for i := 0; i < 5; i++ {
		if _, err := ctrl.Submit(context.Background(), "another turn"); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}
	if len(lastHistory) != 4 {
		t.Errorf("expected a trailing window of 4 prior messages, got %d", len(lastHistory))
	}
}

func TestSwitchToNeverWritesStore(t *testing.T) {
	backend := &strategist.MockClient{
		GenerateFunc: func(ctx context.Context, req strategist.Request) (*strategist.Reply, error) {
			return &strategist.Reply{Text: "plan", Title: "Session One"}, nil
		},
	}
	ctrl, _, mem := newTestController(backend, false)

	ctrl.Submit(context.Background(), "start a session")
	id := ctrl.CurrentID()

	if err := ctrl.NewConversation(); err != nil {
		t.Fatalf("NewConversation failed: %v", err)
	}
	if len(ctrl.Messages()) != 0 || ctrl.CurrentID() != "" {
		t.Error("NewConversation must clear the draft and detach")
	}

	before := mem.sets
	if err := ctrl.SwitchTo(id); err != nil {
		t.Fatalf("SwitchTo failed: %v", err)
	}
	if mem.sets != before {
		t.Error("SwitchTo must not write to the store")
	}
	if len(ctrl.Messages()) != 2 || ctrl.CurrentID() != id {
		t.Errorf("expected stored messages in draft, got %d", len(ctrl.Messages()))
	}

	if err := ctrl.SwitchTo("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSwitchToDiscardsUnsavedDraft(t *testing.T) {
	fail := false
	backend := &strategist.MockClient{
		GenerateFunc: func(ctx context.Context, req strategist.Request) (*strategist.Reply, error) {
			if fail {
				return nil, strategist.ErrBackendUnavailable
			}
			return &strategist.Reply{Text: "plan", Title: "Saved"}, nil
		},
	}
	ctrl, _, _ := newTestController(backend, false)

	ctrl.Submit(context.Background(), "saved exchange")
	id := ctrl.CurrentID()

	ctrl.NewConversation()
	fail = true
	ctrl.Submit(context.Background(), "doomed exchange")

	if err := ctrl.SwitchTo(id); err != nil {
		t.Fatalf("SwitchTo failed: %v", err)
	}
	for _, msg := range ctrl.Messages() {
		if msg.Content == "doomed exchange" {
			t.Error("unsaved draft messages must be discarded on switch")
		}
	}
}
