package phonetic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/wordbook/internal/logger"
)

const (
	youdaoSuggestURL  = "https://dict.youdao.com/suggest"
	freeDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"
)

// Entry is what the dictionary knows about an English word. Missing fields are empty.
type Entry struct {
	Phonetic string `json:"phonetic"`
	Chinese  string `json:"chinese"`
}

// Dictionary looks up English words with two public providers queried concurrently.
type Dictionary struct {
	client     *http.Client
	timeout    time.Duration
	suggestURL string
	entriesURL string
	log        *logger.Logger
}

func NewDictionary(timeout time.Duration, log *logger.Logger) *Dictionary {
	return &Dictionary{
		client:     &http.Client{Timeout: timeout},
		timeout:    timeout,
		suggestURL: youdaoSuggestURL,
		entriesURL: freeDictionaryURL,
		log:        log.With("component", "dictionary"),
	}
}

// SetEndpoints points the client at other providers, e.g. test servers.
func (d *Dictionary) SetEndpoints(suggestURL, entriesURL string) {
	d.suggestURL = suggestURL
	d.entriesURL = entriesURL
}

// Lookup never fails: a provider error leaves its field empty.
func (d *Dictionary) Lookup(ctx context.Context, word string) Entry {
	word = strings.TrimSpace(word)
	if word == "" {
		return Entry{}
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var (
		entry Entry
		g     errgroup.Group
	)
	g.Go(func() error {
		chinese, err := d.chinese(ctx, word)
		if err != nil {
			d.log.Debug("chinese gloss lookup failed", "word", word, "error", err)
		}
		entry.Chinese = chinese
		return nil
	})
	g.Go(func() error {
		ph, err := d.phonetic(ctx, word)
		if err != nil {
			d.log.Debug("phonetic lookup failed", "word", word, "error", err)
		}
		entry.Phonetic = ph
		return nil
	})
	_ = g.Wait()
	return entry
}

type suggestResponse struct {
	Data struct {
		Entries []struct {
			Explain string `json:"explain"`
		} `json:"entries"`
	} `json:"data"`
}

func (d *Dictionary) chinese(ctx context.Context, word string) (string, error) {
	u := d.suggestURL + "?" + url.Values{"q": {word}, "num": {"1"}, "doctype": {"json"}}.Encode()
	var resp suggestResponse
	if err := d.getJSON(ctx, u, &resp); err != nil {
		return "", err
	}
	if len(resp.Data.Entries) == 0 {
		return "", nil
	}
	return resp.Data.Entries[0].Explain, nil
}

type dictionaryEntry struct {
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
}

func (d *Dictionary) phonetic(ctx context.Context, word string) (string, error) {
	var entries []dictionaryEntry
	if err := d.getJSON(ctx, d.entriesURL+url.PathEscape(word), &entries); err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}
	if entries[0].Phonetic != "" {
		return entries[0].Phonetic, nil
	}
	for _, p := range entries[0].Phonetics {
		if p.Text != "" {
			return p.Text, nil
		}
	}
	return "", nil
}

func (d *Dictionary) getJSON(ctx context.Context, u string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
