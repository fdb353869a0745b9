package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/vocabulary"
)

type fakeTelegram struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeTelegram) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"wb","username":"wordbook_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		r.ParseForm()
		f.mu.Lock()
		f.sent = append(f.sent, r.FormValue("chat_id")+"|"+r.FormValue("text"))
		f.mu.Unlock()
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestNotifier(t *testing.T) (*Notifier, *fakeTelegram) {
	t.Helper()
	fake := &fakeTelegram{}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)
	n, err := NewWithEndpoint("test-token", srv.URL+"/bot%s/%s", 42, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return n, fake
}

func TestNotifyUnlock(t *testing.T) {
	n, fake := newTestNotifier(t)
	a, _ := achievement.Lookup(achievement.FirstWord)
	if err := n.NotifyUnlock(context.Background(), 7, a); err != nil {
		t.Fatal(err)
	}
	if len(fake.sent) != 1 || !strings.HasPrefix(fake.sent[0], "42|") || !strings.Contains(fake.sent[0], a.Name) {
		t.Fatalf("sent = %v", fake.sent)
	}
}

func TestReportAuditSkipsCleanRuns(t *testing.T) {
	n, fake := newTestNotifier(t)
	if err := n.ReportAudit(context.Background(), &vocabulary.AuditReport{Checked: 3}); err != nil {
		t.Fatal(err)
	}
	report := &vocabulary.AuditReport{Checked: 3, Fixed: 1, Mismatches: []vocabulary.Mismatch{{Text: "水", Stored: "shui3", Expected: "shuǐ"}}}
	if err := n.ReportAudit(context.Background(), report); err != nil {
		t.Fatal(err)
	}
	if len(fake.sent) != 1 || !strings.Contains(fake.sent[0], "shuǐ") {
		t.Fatalf("sent = %v", fake.sent)
	}
}

func TestNewRequiresChat(t *testing.T) {
	if _, err := NewWithEndpoint("tok", "http://127.0.0.1:0/bot%s/%s", 0, logger.NewNop()); err == nil {
		t.Fatal("expected error without chat id")
	}
}
