package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/controllers"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/types"
)

func ReminderRoutes(ctrl *controllers.RemindersController) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ctrl.List())
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var reminder types.Reminder
		if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := ctrl.Add(r.Context(), reminder); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	// GET /count backs the notification badge.
	r.Get("/count", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"count": ctrl.Count()})
	})

	r.Delete("/{index}", func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "index must be a number", http.StatusBadRequest)
			return
		}
		if err := ctrl.Delete(r.Context(), index); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
