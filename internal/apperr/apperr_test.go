package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad %s", "kind"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{NotFound("item"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{External("ai tutor", errors.New("quota")), http.StatusBadGateway},
		{Storage("insert", sql.ErrConnDone), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("item 7"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatal("did not expect conflict")
	}
	if !Is(err, KindNotFound) {
		t.Fatal("expected Is to match kind")
	}
}

func TestStorageUnwraps(t *testing.T) {
	err := Storage("load item", sql.ErrNoRows)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatal("expected cause to be reachable")
	}
	if PublicMessage(err) != "internal error" {
		t.Fatalf("storage cause leaked: %q", PublicMessage(err))
	}
}

func TestPublicMessageExternal(t *testing.T) {
	err := External("ai tutor", errors.New("invalid api key"))
	if got := PublicMessage(err); got != "invalid api key" {
		t.Fatalf("PublicMessage = %q", got)
	}
}
