package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formmanager/internal/config"
	"github.com/goliatone/go-formmanager/pkg/renderers/tui"
	"github.com/goliatone/go-formmanager/pkg/schema"
	"github.com/goliatone/go-formmanager/pkg/sqlstore"
)

const blogSchema = `
CREATE TABLE authors (
	id INTEGER PRIMARY KEY,
	name VARCHAR(60) NOT NULL
);
CREATE TABLE posts (
	id INTEGER PRIMARY KEY,
	title VARCHAR(120) NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	author_id INTEGER REFERENCES authors(id),
	created_at DATETIME,
	updated_at DATETIME
);
INSERT INTO authors (id, name) VALUES (1, 'Ada'), (2, 'Linus');
INSERT INTO posts (id, title, status, author_id) VALUES (1, 'Hello', 'live', 2);
`

const blogDefinitions = `
forms:
  post:
    model: posts
    submit_text: Publish
    rules:
      - field: title
        rule: min_length
        params: ["3"]
tables:
  posts:
    created_column: created_at
    updated_column: updated_at
    types:
      status: "enum('draft','live')"
    comments:
      author_id: "foreign_name: name\nlabel: Author"
`

type fixture struct {
	database    string
	definitions string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		database:    filepath.Join(dir, "blog.db"),
		definitions: filepath.Join(dir, "forms"),
	}

	ctx := context.Background()
	store, err := sqlstore.Open(ctx, f.database)
	require.NoError(t, err)
	require.NoError(t, store.Exec(ctx, blogSchema))
	require.NoError(t, store.Close())

	require.NoError(t, os.MkdirAll(f.definitions, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.definitions, "blog.yaml"), []byte(blogDefinitions), 0o644))
	return f
}

func (f fixture) args(args ...string) []string {
	return append([]string{"--database", f.database, "--definitions", f.definitions, "--log-level", "error"}, args...)
}

func run(t *testing.T, state *rootState, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	state.stdout = &stdout
	state.stderr = &stderr
	root := newRootCommand(state)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

type scriptedDriver struct {
	inputs  []string
	selects []int
	infos   []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return false, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := d.selects[0]
	d.selects = d.selects[1:]
	return val, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestTablesAndColumns(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, &rootState{}, f.args("tables")...)
	require.NoError(t, err)
	assert.Equal(t, "authors\nposts\n", out)

	out, err = run(t, &rootState{}, f.args("columns", "posts")...)
	require.NoError(t, err)
	assert.Contains(t, out, "column_name: title")
	assert.Contains(t, out, "data_type: enum")
	assert.Contains(t, out, "alias: author")

	_, err = run(t, &rootState{}, f.args("columns", "missing")...)
	assert.True(t, errors.Is(err, sqlstore.ErrNotFound))
}

func TestRender(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, &rootState{}, f.args("render", "post", "1")...)
	require.NoError(t, err)
	assert.Contains(t, out, `name="post[title]" value="Hello"`)
	assert.Contains(t, out, "Publish")
	assert.Contains(t, out, ">Linus</option>")

	out, err = run(t, &rootState{}, f.args("render", "authors")...)
	require.NoError(t, err)
	assert.Contains(t, out, `name="authors[name]"`)

	_, err = run(t, &rootState{}, f.args("render", "nope")...)
	assert.Error(t, err)
}

func TestFill(t *testing.T) {
	f := newFixture(t)
	driver := &scriptedDriver{inputs: []string{"Fresh post"}, selects: []int{1, 1}}

	out, err := run(t, &rootState{newDriver: func() tui.Driver { return driver }}, f.args("fill", "post")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Title: Fresh post\n")
	assert.Contains(t, driver.infos, "Saved.")

	store, err := sqlstore.Open(context.Background(), f.database)
	require.NoError(t, err)
	defer store.Close()
	rec, err := store.Find(context.Background(), "posts", "2")
	require.NoError(t, err)
	assert.Equal(t, "Fresh post", rec.Get("title"))
	assert.Equal(t, "live", rec.Get("status"))
	assert.Equal(t, "1", schema.StringValue(rec.Get("author_id")))
}

func TestFill_Rejected(t *testing.T) {
	f := newFixture(t)
	driver := &scriptedDriver{inputs: []string{"ab"}, selects: []int{0, 0}}

	_, err := run(t, &rootState{newDriver: func() tui.Driver { return driver }}, f.args("fill", "post", "--attempts", "1")...)
	assert.True(t, errors.Is(err, ErrRejected))
	require.Len(t, driver.infos, 1)
	assert.True(t, strings.HasPrefix(driver.infos[0], "! Title: "))
}

func TestServeRouter(t *testing.T) {
	f := newFixture(t)
	v := config.New("")
	v.Set("database", f.database)
	v.Set("definitions", f.definitions)
	v.Set("log.console", false)

	a, err := newApp(context.Background(), v, nil, appOptions{stylesheet: stylesheetPath})
	require.NoError(t, err)
	defer a.Close()
	router := a.router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/forms/post">post</a>`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/post/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), stylesheetPath)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, stylesheetPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := url.Values{"post[id]": {""}, "post[title]": {"From the web"}, "post[status]": {"draft"}}
	req := httptest.NewRequest(http.MethodPost, "/forms/post", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/forms/post/2", rec.Header().Get("Location"))

	body = url.Values{"post[id]": {"1"}, "post[title]": {"ab"}, "post[status]": {"draft"}}
	req = httptest.NewRequest(http.MethodPost, "/forms/post/1", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVersion(t *testing.T) {
	out, err := run(t, &rootState{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "formmanager version "+Version+"\n", out)
}
