package formmanager_test

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	formmanager "github.com/goliatone/go-formmanager"
	"github.com/goliatone/go-formmanager/pkg/form"
	"github.com/goliatone/go-formmanager/pkg/renderers/vanilla"
)

func TestOpenSQLiteAndHandler(t *testing.T) {
	ctx := context.Background()
	store, err := formmanager.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if err := store.Exec(ctx, `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL);
INSERT INTO notes (id, body) VALUES (1, 'first');`); err != nil {
		t.Fatalf("schema: %v", err)
	}

	m, err := formmanager.New(ctx, formmanager.Definition{Name: "note", Model: "notes"},
		form.WithRepository(store), form.WithRecordID("1"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := m.Record().Get("body"); got != "first" {
		t.Fatalf("body = %v", got)
	}

	h := formmanager.Handler(formmanager.Definition{Name: "note", Model: "notes"},
		func(*http.Request) string { return "1" }, form.WithRepository(store))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes/1", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "first</textarea>") {
		t.Fatalf("unexpected response %d:\n%s", rec.Code, rec.Body.String())
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(formmanager.EmbeddedTemplates(), "formmanager/form.tpl"); err != nil {
		t.Fatalf("form template missing: %v", err)
	}
	if _, err := fs.Stat(formmanager.AssetsFS(), vanilla.StylesheetName); err != nil {
		t.Fatalf("stylesheet missing: %v", err)
	}
}
