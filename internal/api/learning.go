package api

import (
	"net/http"
	"strings"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/learning"
)

func (s *Server) pinyinChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, learning.PinyinChart())
}

func (s *Server) initPinyin(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Drills.InitPinyin(r.Context(), userID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{Success: true})
}

func (s *Server) listPinyin(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Drills.Pinyin(r.Context(), userID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) learnPinyin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Pinyin string `json:"pinyin"`
		Type   string `json:"type"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.svc.Drills.LearnPinyin(r.Context(), userID(r), in.Pinyin, in.Type)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"learn_count": n})
}

func (s *Server) learnEnglish(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Word  string `json:"word"`
		Level string `json:"level"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.svc.Drills.LearnEnglish(r.Context(), userID(r), in.Word, in.Level)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"learn_count": n})
}

func (s *Server) listEnglish(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Drills.English(r.Context(), userID(r), r.URL.Query().Get("level"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// lookupEnglish proxies the dictionaries; failed providers leave fields empty.
func (s *Server) lookupEnglish(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(r.PathValue("word"))
	if word == "" || len(word) > 64 {
		s.fail(w, r, apperr.Validation("invalid word"))
		return
	}
	entry := s.svc.Dictionary.Lookup(r.Context(), word)
	writeJSON(w, http.StatusOK, map[string]string{
		"word":     word,
		"phonetic": entry.Phonetic,
		"chinese":  entry.Chinese,
	})
}
