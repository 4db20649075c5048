package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/controllers"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/parser"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/store"
)

type promptPayload struct {
	Prompt string `json:"prompt"`
}

func ChatRoutes(ctrl *controllers.ChatController, sessions *store.SessionStore) chi.Router {
	r := chi.NewRouter()

	// POST /generate-strategy : run one conversation turn
	r.Post("/generate-strategy", func(w http.ResponseWriter, r *http.Request) {
		var req promptPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, err := ctrl.Submit(r.Context(), req.Prompt)
		if err != nil {
			http.Error(w, err.Error(), submitStatus(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	})

	// GET /sessions : sidebar titles in insertion order
	r.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessions.ListTitles())
	})

	// GET /session/{session_id}/messages : full message sequence
	r.Get("/session/{session_id}/messages", func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessions.Get(chi.URLParam(r, "session_id"))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(session.Messages)
	})

	// POST /session/{session_id}/switch : load a stored session into the draft
	r.Post("/session/{session_id}/switch", func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.SwitchTo(chi.URLParam(r, "session_id")); err != nil {
			http.Error(w, err.Error(), submitStatus(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ctrl.Messages())
	})

	// POST /new : start a fresh unsaved conversation
	r.Post("/new", func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.NewConversation(); err != nil {
			http.Error(w, err.Error(), submitStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// POST /parse-preview : local profile extraction, no strategist call
	r.Post("/parse-preview", func(w http.ResponseWriter, r *http.Request) {
		var req promptPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(parser.Parse(req.Prompt))
	})

	// GET /ws : same turn loop over a websocket
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if typ != websocket.MessageText {
				conn.Close(websocket.StatusUnsupportedData, "unsupported data")
				return
			}
			var req promptPayload
			if err := json.Unmarshal(data, &req); err != nil {
				conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
				continue
			}
			out, err := ctrl.Submit(ctx, req.Prompt)
			if err != nil {
				conn.Write(ctx, websocket.MessageText, []byte(`{"error":"`+err.Error()+`"}`))
				continue
			}
			payload, _ := json.Marshal(out)
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				return
			}
		}
	})

	return r
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, controllers.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, controllers.ErrAlreadyInFlight):
		return http.StatusConflict
	case errors.Is(err, controllers.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
