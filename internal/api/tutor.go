package api

import (
	"net/http"
	"strconv"

	"github.com/example/wordbook/internal/ai"
	"github.com/example/wordbook/internal/apperr"
)

func (s *Server) aiKeyStatus(w http.ResponseWriter, r *http.Request) {
	ok, err := s.svc.Auth.APIKeyConfigured(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": ok})
}

func (s *Server) saveAIKey(w http.ResponseWriter, r *http.Request) {
	var in struct {
		APIKey string `json:"api_key"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Auth.SaveAPIKey(r.Context(), userID(r), in.APIKey); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{Success: true})
}

func (s *Server) askTutor(w http.ResponseWriter, r *http.Request) {
	var q ai.Question
	if err := decodeJSON(w, r, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	reply, err := s.svc.Tutor.Ask(r.Context(), userID(r), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.svc.Tutor.History(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// deleteChatHistory removes one message with ?id= or the whole history without it.
func (s *Server) deleteChatHistory(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			s.fail(w, r, apperr.Validation("invalid id"))
			return
		}
		if err := s.svc.Tutor.DeleteMessage(r.Context(), userID(r), id); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, okBody{Success: true})
		return
	}
	n, err := s.svc.Tutor.ClearHistory(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deleted": n})
}
