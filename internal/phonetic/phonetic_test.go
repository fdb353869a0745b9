package phonetic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/wordbook/internal/logger"
)

func TestPinyin(t *testing.T) {
	cases := map[string]string{
		"山":      "shān",
		"中国":     "zhōng guó",
		"A字":     "A zì",
		"  水 ":   "shuǐ",
		"abc def": "abc def",
	}
	for in, want := range cases {
		if got := Pinyin(in); got != want {
			t.Errorf("Pinyin(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDrillLists(t *testing.T) {
	if len(Initials) != 23 || len(Finals) != 36 {
		t.Fatalf("initials=%d finals=%d", len(Initials), len(Finals))
	}
}

func TestDictionaryLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/suggest", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "apple" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"data":{"entries":[{"explain":"n. 苹果","entry":"apple"}]}}`))
	})
	mux.HandleFunc("/entries/apple", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"word":"apple","phonetics":[{"audio":""},{"text":"/ˈæp.əl/"}]}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d := NewDictionary(2*time.Second, logger.NewNop())
	d.SetEndpoints(srv.URL+"/suggest", srv.URL+"/entries/")

	got := d.Lookup(context.Background(), "apple")
	if got.Chinese != "n. 苹果" || got.Phonetic != "/ˈæp.əl/" {
		t.Fatalf("entry = %+v", got)
	}
}

func TestDictionaryDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/suggest") {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
		}
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDictionary(100*time.Millisecond, logger.NewNop())
	d.SetEndpoints(srv.URL+"/suggest", srv.URL+"/entries/")

	start := time.Now()
	got := d.Lookup(context.Background(), "apple")
	if got != (Entry{}) {
		t.Fatalf("entry = %+v, want empty", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("lookup was not bounded by the timeout")
	}
}
