package api

import (
	"net/http"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/excel"
	"github.com/example/wordbook/internal/vocabulary"
	"github.com/example/wordbook/pkg/models"
)

// maxUploadBytes bounds spreadsheet uploads.
const maxUploadBytes = 10 << 20

func (s *Server) listWords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := models.Kind(q.Get("kind"))
	if q.Get("deleted") == "1" {
		items, err := s.svc.Vocabulary.ListDeleted(r.Context(), userID(r), kind)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}
	items, err := s.svc.Vocabulary.List(r.Context(), userID(r), kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) addWord(w http.ResponseWriter, r *http.Request) {
	var in vocabulary.AddInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Vocabulary.Add(r.Context(), userID(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) deleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Vocabulary.Delete(r.Context(), userID(r), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) deleteWordByText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.svc.Vocabulary.DeleteByText(r.Context(), userID(r), models.Kind(q.Get("kind")), q.Get("text"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) practiceWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Vocabulary.Practice(r.Context(), userID(r), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) wordStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.svc.Vocabulary.Stats(r.Context(), userID(r), models.Kind(r.URL.Query().Get("kind")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// importWords takes a multipart upload with fields file, kind and optional sheet.
func (s *Server) importWords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.fail(w, r, apperr.Validation("invalid upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, apperr.Validation("file is required"))
		return
	}
	defer file.Close()

	cfg := excel.DefaultImportConfig()
	cfg.SheetName = r.FormValue("sheet")
	rows, err := excel.ReadRows(file, excel.FormatFromName(header.Filename), cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.svc.Vocabulary.Import(r.Context(), userID(r), models.Kind(r.FormValue("kind")), rows)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
