// ABOUTME: Tests for the embedded help pages
// ABOUTME: Verifies markdown rendering, topic ordering, and missing topics

package webadmin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHelp_RendersMarkdown(t *testing.T) {
	env := newTestAdmin(t)

	rec := env.do(env.authed(t, httptest.NewRequest(http.MethodGet, "/help", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<h1>Getting Started</h1>") {
		t.Error("expected rendered getting-started heading")
	}
	if !strings.Contains(body, "<table>") {
		t.Error("expected GFM table to be rendered")
	}

	started := strings.Index(body, `href="/help?topic=getting-started"`)
	config := strings.Index(body, `href="/help?topic=configuration"`)
	if started < 0 || config < 0 || started > config {
		t.Errorf("expected getting-started before configuration, got %d and %d", started, config)
	}
}

func TestHelp_SelectTopic(t *testing.T) {
	env := newTestAdmin(t)

	rec := env.do(env.authed(t, httptest.NewRequest(http.MethodGet, "/help?topic=clients", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Clients</h1>") {
		t.Error("expected clients topic")
	}
}

func TestHelp_UnknownTopic(t *testing.T) {
	env := newTestAdmin(t)

	rec := env.do(env.authed(t, httptest.NewRequest(http.MethodGet, "/help?topic=../../secrets", nil)))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "This help topic could not be found.") {
		t.Error("expected not-found help content")
	}
}

func TestFormatHelpTitle(t *testing.T) {
	tests := map[string]string{
		"getting-started": "Getting Started",
		"clients":         "Clients",
		"a--b":            "A  B",
	}
	for slug, want := range tests {
		if got := formatHelpTitle(slug); got != want {
			t.Errorf("formatHelpTitle(%q) = %q, want %q", slug, got, want)
		}
	}
}
