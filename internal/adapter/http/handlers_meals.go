package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mybites/internal/app"
)

func (s *Server) handleMealsRecent(w http.ResponseWriter, r *http.Request) {
	items, err := s.meals.ListRecent(r.Context(), userID(r), intQuery(r, "limit", 20))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleMealCreate(w http.ResponseWriter, r *http.Request) {
	var in app.MealInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entry, err := s.meals.LogMeal(r.Context(), userID(r), in, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}

func (s *Server) handleMealDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.meals.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	items, err := s.meals.ListFavorites(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleFavoriteCreate(w http.ResponseWriter, r *http.Request) {
	var in app.MealInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fav, err := s.meals.AddFavorite(r.Context(), userID(r), in, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"favorite": fav})
}

func (s *Server) handleFavoriteDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.meals.DeleteFavorite(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleFavoriteLog records a new meal entry copied from a favorite.
func (s *Server) handleFavoriteLog(w http.ResponseWriter, r *http.Request) {
	entry, err := s.meals.LogFavorite(r.Context(), userID(r), chi.URLParam(r, "id"), s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}
