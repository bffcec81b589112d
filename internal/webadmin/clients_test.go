// ABOUTME: Tests for the client directory handlers
// ABOUTME: Covers adding, replacing, validating, persisting, and exporting clients

package webadmin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/2389/admin-portal/internal/clients"
	"github.com/2389/admin-portal/internal/store"
)

func TestClientAdd_CreatesAndPersists(t *testing.T) {
	env := newTestAdmin(t)

	form := url.Values{
		"id":             {"client3"},
		"name":           {"Dark Matter Ltd"},
		"theme":          {"dark"},
		"logo_text":      {"Dark Matter"},
		"custom_js":      {"/js/client3.js"},
		"logo_image_url": {""},
	}
	rec := env.do(env.authed(t, formRequest("/clients", form)))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/clients?saved=client3" {
		t.Fatalf("unexpected redirect %q", loc)
	}

	c, ok := env.admin.resolver.Client("client3")
	if !ok {
		t.Fatal("expected client3 in the directory")
	}
	if c.Theme != "dark" || clients.Value(c.Logo.Text) != "Dark Matter" {
		t.Errorf("unexpected client %+v", c)
	}
	if c.Logo.ImageURL != nil {
		t.Error("expected blank logo image to stay unset")
	}
	if got := env.admin.resolver.ResolveScripts("client3"); len(got) != 1 || got[0] != "/js/client3.js" {
		t.Errorf("ResolveScripts() = %v", got)
	}

	rec2, err := env.store.GetClient(context.Background(), "client3")
	if err != nil {
		t.Fatalf("expected client3 to be persisted: %v", err)
	}
	if rec2.Client.Name != "Dark Matter Ltd" {
		t.Errorf("persisted name = %q", rec2.Client.Name)
	}

	entries, _ := env.store.ListAuditLog(context.Background(), store.AuditFilter{})
	if len(entries) != 1 || entries[0].Action != store.AuditCreateClient || entries[0].Actor != testOperator {
		t.Errorf("expected one create_client audit entry, got %+v", entries)
	}
}

func TestClientAdd_ReplacesExisting(t *testing.T) {
	env := newTestAdmin(t)

	form := url.Values{"id": {"client1"}, "name": {"Acme Rebrand"}, "theme": {"green"}}
	rec := env.do(env.authed(t, formRequest("/clients", form)))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}

	c, _ := env.admin.resolver.Client("client1")
	if c.Name != "Acme Rebrand" || c.Theme != "green" {
		t.Errorf("expected client1 to be replaced, got %+v", c)
	}
	if c.CustomCSS != nil {
		t.Error("expected whole record replacement to drop custom CSS")
	}
	if got := env.admin.resolver.ResolveCSSFiles("client1"); len(got) != 1 || got[0] != "/css/themes/green.css" {
		t.Errorf("ResolveCSSFiles() = %v", got)
	}

	entries, _ := env.store.ListAuditLog(context.Background(), store.AuditFilter{})
	if len(entries) != 1 || entries[0].Action != store.AuditUpdateClient {
		t.Errorf("expected one update_client audit entry, got %+v", entries)
	}
}

func TestClientAdd_Validation(t *testing.T) {
	env := newTestAdmin(t)

	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{
			name:    "missing id",
			form:    url.Values{"name": {"X"}, "theme": {"blue"}},
			wantMsg: "Client ID is required",
		},
		{
			name:    "bad id",
			form:    url.Values{"id": {"../etc"}, "name": {"X"}, "theme": {"blue"}},
			wantMsg: "Client ID must start with",
		},
		{
			name:    "missing name",
			form:    url.Values{"id": {"client9"}, "theme": {"blue"}},
			wantMsg: "Name is required",
		},
		{
			name:    "missing theme",
			form:    url.Values{"id": {"client9"}, "name": {"X"}},
			wantMsg: "Theme is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(env.authed(t, formRequest("/clients", tt.form)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("expected body to contain %q", tt.wantMsg)
			}
		})
	}

	if env.admin.resolver.Directory().Len() != 2 {
		t.Errorf("expected directory to be unchanged, got %d clients", env.admin.resolver.Directory().Len())
	}
}

func TestClientAdd_RequiresCSRF(t *testing.T) {
	env := newTestAdmin(t)

	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader("id=client9&name=X&theme=blue"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := env.do(env.authed(t, req))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if _, ok := env.admin.resolver.Client("client9"); ok {
		t.Error("did not expect client9 to be added")
	}
}

func TestClientAdd_UnknownThemeFallsBack(t *testing.T) {
	env := newTestAdmin(t)

	form := url.Values{"id": {"client4"}, "name": {"Ghost"}, "theme": {"nonexistent"}}
	rec := env.do(env.authed(t, formRequest("/clients", form)))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}

	if got := env.admin.resolver.ResolveTheme("client4").Name; got != "default" {
		t.Errorf("ResolveTheme() = %q, want default", got)
	}

	page := env.do(env.authed(t, httptest.NewRequest(http.MethodGet, "/clients", nil)))
	if !strings.Contains(page.Body.String(), "unknown, using default") {
		t.Error("expected clients page to flag the dangling theme")
	}
}

func TestClientAdd_WithoutStore(t *testing.T) {
	env := newTestAdmin(t)
	env.admin.store = nil

	form := url.Values{"id": {"client5"}, "name": {"Ephemeral"}, "theme": {"blue"}}
	rec := env.do(env.authed(t, formRequest("/clients", form)))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if _, ok := env.admin.resolver.Client("client5"); !ok {
		t.Error("expected client5 in the directory")
	}
}

func TestClientExport(t *testing.T) {
	env := newTestAdmin(t)

	rec := env.do(env.authed(t, httptest.NewRequest(http.MethodGet, "/clients/client1/config", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var c clients.Client
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if c.Name != "Acme Corporation" || c.Theme != "blue" {
		t.Errorf("unexpected export %+v", c)
	}
	if clients.Value(c.Logo.Width) != "120px" {
		t.Errorf("logo width = %q, want 120px", clients.Value(c.Logo.Width))
	}
}

func TestClientExport_UnknownClient(t *testing.T) {
	env := newTestAdmin(t)

	rec := env.do(env.authed(t, httptest.NewRequest(http.MethodGet, "/clients/nope/config", nil)))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "client not found") {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}
