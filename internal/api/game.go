package api

import (
	"net/http"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/quiz"
	"github.com/example/wordbook/pkg/models"
)

func (s *Server) recordAnswer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ItemID  int64 `json:"item_id"`
		Correct *bool `json:"correct"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.ItemID <= 0 || in.Correct == nil {
		s.fail(w, r, apperr.Validation("item_id and correct are required"))
		return
	}
	res, err := s.svc.Mastery.RecordAnswer(r.Context(), userID(r), in.ItemID, *in.Correct)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) generateQuiz(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", quiz.DefaultQuestionCount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	mode := quiz.Mode(r.PathValue("mode"))
	kind := models.Kind(r.URL.Query().Get("kind"))
	questions, err := s.svc.Quiz.Generate(r.Context(), userID(r), mode, kind, count)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (s *Server) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Answers         []quiz.Answer `json:"answers"`
		DurationSeconds int           `json:"duration_seconds"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Quiz.Submit(r.Context(), userID(r), quiz.Mode(r.PathValue("mode")), in.Answers, in.DurationSeconds)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) gameStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Progression.Stats(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) touchStreak(w http.ResponseWriter, r *http.Request) {
	days, err := s.svc.Progression.TouchStreak(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"consecutive_days": days})
}

func (s *Server) gameSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sessions, err := s.svc.Quiz.Sessions(r.Context(), userID(r), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) listAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Achievements.List(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
