package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleWaterToday(w http.ResponseWriter, r *http.Request) {
	sum, err := s.hydration.GetToday(r.Context(), userID(r), s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleWaterEvent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.hydration.LogWater(r.Context(), userID(r), body.Amount, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.ObserveWaterLogged(res)
	if len(res.NewBadges) > 0 {
		s.logger.Infow("badges unlocked", "user", userID(r), "streak", res.Streak, "count", len(res.NewBadges))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWaterDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.hydration.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleWaterRecent(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 20)
	items, err := s.hydration.ListRecent(r.Context(), userID(r), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleWaterUndoLast(w http.ResponseWriter, r *http.Request) {
	undone, id, err := s.hydration.UndoLast(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"undone": undone, "id": id})
}

func (s *Server) handleWaterStreak(w http.ResponseWriter, r *http.Request) {
	sum, err := s.hydration.Streak(r.Context(), userID(r), s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
