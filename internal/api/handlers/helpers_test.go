package handlers

import (
	"errors"
	"field-visit-planner/internal/domain"
	"field-visit-planner/internal/ports"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", domain.ErrInvalidConfiguration), http.StatusBadRequest},
		{domain.ErrClientNotLocated, http.StatusBadRequest},
		{domain.ErrUnknownTeam, http.StatusBadRequest},
		{fmt.Errorf("get: %w", ports.ErrClientNotFound), http.StatusNotFound},
		{ports.ErrScheduleNotFound, http.StatusNotFound},
		{ports.ErrAddressNotFound, http.StatusNotFound},
		{ports.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWriteServiceErrorHidesInternalErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()

	writeServiceError(w, r, zerolog.Nop(), errors.New("dial tcp: secret host"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	cases := []struct {
		in string
		ok bool
	}{
		{`{"name":"a"}`, true},
		{`{"name":"a"}` + "\n", true},
		{`{"nope":1}`, false},
		{`{"name":"a"} {}`, false},
		{`[`, false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tc.in))
		w := httptest.NewRecorder()
		var v body
		if got := decodeJSON(w, r, zerolog.Nop(), &v); got != tc.ok {
			t.Fatalf("decodeJSON(%q) = %v, want %v", tc.in, got, tc.ok)
		}
		if !tc.ok && w.Code != http.StatusBadRequest {
			t.Fatalf("decodeJSON(%q): expected 400, got %d", tc.in, w.Code)
		}
	}
}
