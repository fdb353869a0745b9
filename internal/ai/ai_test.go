package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/wordbook/internal/ai"
	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database/databasetest"
	"github.com/example/wordbook/internal/logger"
)

type staticKey string

func (k staticKey) APIKey(ctx context.Context, userID int64) (string, error) {
	return string(k), nil
}

func newProvider(t *testing.T, handler func(w http.ResponseWriter, req ai.ChatRequest, auth string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ai.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		handler(w, req, r.Header.Get("Authorization"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAskSendsPromptAndImage(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, req ai.ChatRequest, auth string) {
		if auth != "Bearer sk-1" {
			t.Errorf("auth = %q", auth)
		}
		if req.Model != ai.DefaultModel || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("request = %+v", req)
		}
		parts, _ := req.Messages[1].Content.([]interface{})
		if len(parts) != 2 {
			t.Errorf("user content = %#v", req.Messages[1].Content)
		} else if img, _ := parts[1].(map[string]interface{}); img["type"] != "image_url" {
			t.Errorf("image part = %#v", parts[1])
		}
		w.Write([]byte(`{"choices":[{"message":{"content":" 想一想，3加2等于几？ "}}]}`))
	})

	reply, err := ai.NewChatGPT(srv.URL, time.Second).Ask(context.Background(), "sk-1", "", "3+2=?", "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "想一想，3加2等于几？" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestTutorRecordsBothTurns(t *testing.T) {
	db := databasetest.Open(t)
	uid := databasetest.CreateUser(t, db)
	srv := newProvider(t, func(w http.ResponseWriter, req ai.ChatRequest, auth string) {
		w.Write([]byte(`{"choices":[{"message":{"content":"你真棒"}}]}`))
	})
	tutor := ai.NewTutor(db, logger.NewNop(), staticKey("sk"), ai.NewChatGPT(srv.URL, time.Second))

	reply, err := tutor.Ask(context.Background(), uid, ai.Question{Prompt: "你好"})
	if err != nil || reply != "你真棒" {
		t.Fatalf("reply = %q %v", reply, err)
	}
	history, err := tutor.History(context.Background(), uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].Role != ai.RoleUser || history[1].Role != ai.RoleAI {
		t.Fatalf("history = %+v", history)
	}

	if err := tutor.DeleteMessage(context.Background(), uid, history[0].ID); err != nil {
		t.Fatal(err)
	}
	if n, err := tutor.ClearHistory(context.Background(), uid); err != nil || n != 1 {
		t.Fatalf("clear = %d %v", n, err)
	}
}

func TestTutorProviderErrorKeepsQuestion(t *testing.T) {
	db := databasetest.Open(t)
	uid := databasetest.CreateUser(t, db)
	srv := newProvider(t, func(w http.ResponseWriter, req ai.ChatRequest, auth string) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})
	tutor := ai.NewTutor(db, logger.NewNop(), staticKey("sk"), ai.NewChatGPT(srv.URL, time.Second))

	_, err := tutor.Ask(context.Background(), uid, ai.Question{Prompt: "hi"})
	if !errors.Is(err, apperr.ErrExternal) || apperr.PublicMessage(err) != "invalid api key" {
		t.Fatalf("got %v", err)
	}
	history, _ := tutor.History(context.Background(), uid)
	if len(history) != 1 || history[0].Role != ai.RoleUser {
		t.Fatalf("history = %+v", history)
	}
}

func TestTutorRequiresKey(t *testing.T) {
	db := databasetest.Open(t)
	uid := databasetest.CreateUser(t, db)
	tutor := ai.NewTutor(db, logger.NewNop(), staticKey(""), ai.NewChatGPT("http://127.0.0.1:0", time.Second))
	if _, err := tutor.Ask(context.Background(), uid, ai.Question{Prompt: "hi"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("got %v", err)
	}
	if history, _ := tutor.History(context.Background(), uid); len(history) != 0 {
		t.Fatalf("history = %+v", history)
	}
}
