package form_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmanager/pkg/field"
	"github.com/goliatone/go-formmanager/pkg/form"
	"github.com/goliatone/go-formmanager/pkg/request"
	"github.com/goliatone/go-formmanager/pkg/schema"
	"github.com/goliatone/go-formmanager/pkg/testsupport"
)

func postColumns() []schema.Column {
	return []schema.Column{
		{Name: "id", Key: schema.KeyPrimary, DataType: "int", Type: schema.BaseTypeInt},
		{Name: "title", DataType: "varchar", Type: schema.BaseTypeString, CharacterMaximumLength: 120},
		{Name: "body", DataType: "text", Type: schema.BaseTypeString, IsNullable: true},
		{Name: "status", DataType: "enum", Type: schema.BaseTypeString, Options: []string{"draft", "live"}, Comment: "help: pick one"},
		{Name: "tags", DataType: "set", Type: schema.BaseTypeString, Options: []string{"go", "sql"}, IsNullable: true},
		{Name: "active", DataType: "tinyint", Type: schema.BaseTypeInt, Display: "1", HasDefault: true},
		{Name: "author_id", DataType: "int", Type: schema.BaseTypeInt, IsNullable: true, Comment: "foreign_name: name\nlabel: Author"},
		{Name: "created_at", DataType: "datetime", Type: schema.BaseTypeString, IsNullable: true},
		{Name: "updated_at", DataType: "datetime", Type: schema.BaseTypeString, IsNullable: true},
	}
}

func newRepository(tables ...testsupport.Table) *testsupport.Repository {
	posts := testsupport.Table{
		Model:   "posts",
		Columns: postColumns(),
		Rows: []map[string]any{
			{"id": 1, "title": "Hello", "body": nil, "status": "live", "tags": "go,sql", "active": 1, "author_id": 2},
		},
		CreatedColumn: "created_at",
		UpdatedColumn: "updated_at",
		BelongsTo:     []schema.BelongsTo{{Alias: "author", Model: "authors", ForeignKey: "author_id"}},
	}
	authors := testsupport.Table{
		Model: "authors",
		Columns: []schema.Column{
			{Name: "id", Key: schema.KeyPrimary, DataType: "int", Type: schema.BaseTypeInt},
			{Name: "name", DataType: "varchar", Type: schema.BaseTypeString},
		},
		Rows: []map[string]any{
			{"id": 1, "name": "Ada"},
			{"id": 2, "name": "Linus"},
		},
	}
	return testsupport.NewRepository(append([]testsupport.Table{posts, authors}, tables...)...)
}

func newPostForm(t *testing.T, repo *testsupport.Repository, id string, opts ...form.Option) *form.Manager {
	t.Helper()
	options := append([]form.Option{form.WithRepository(repo), form.WithRecordID(id)}, opts...)
	m, err := form.New(testsupport.Context(), form.Definition{Name: "post", Model: "posts"}, options...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return m
}

func mustField(t *testing.T, m *form.Manager, name string) *field.Spec {
	t.Helper()
	spec, ok := m.Field(name)
	if !ok {
		t.Fatalf("field %q not found, have %v", name, m.FieldNames())
	}
	return spec
}

func TestNew_SeedsFieldsFromRecord(t *testing.T) {
	m := newPostForm(t, newRepository(), "1")

	want := []string{"id", "title", "body", "status", "tags", "active", "author_id"}
	if diff := cmp.Diff(want, m.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if m.Container() != "post" || m.PrimaryKey() != "id" || m.Template() != "formmanager/post" {
		t.Fatalf("unexpected form identity %q %q %q", m.Container(), m.PrimaryKey(), m.Template())
	}

	id := mustField(t, m, "id")
	if id.DisplayAs != field.DisplayHidden || id.Value.String() != "1" {
		t.Fatalf("primary key should be hidden with value 1, got %+v", id)
	}

	title := mustField(t, m, "title")
	if title.FieldName != "post[title]" || title.FieldID != "post_title" || title.Value.String() != "Hello" {
		t.Fatalf("unexpected title naming %+v", title)
	}
	if !title.Required || title.Label != "Title" {
		t.Fatalf("title should be required with default label, got %+v", title)
	}
	if got, _ := title.Attributes.Get("maxlength"); got != "120" {
		t.Fatalf("title maxlength = %q", got)
	}

	if body := mustField(t, m, "body"); body.DisplayAs != field.DisplayTextarea || body.Required {
		t.Fatalf("body should be an optional textarea, got %+v", body)
	}
	if active := mustField(t, m, "active"); active.DisplayAs != field.DisplayBool {
		t.Fatalf("active should be a bool, got %s", active.DisplayAs)
	}
}

func TestNew_EnumWithComment(t *testing.T) {
	m := newPostForm(t, newRepository(), "1")
	status := mustField(t, m, "status")

	if status.DisplayAs != field.DisplaySelect || !status.Required || status.Help != "pick one" {
		t.Fatalf("unexpected status config %+v", status)
	}
	want := field.Options{{Value: "draft", Label: "draft"}, {Value: "live", Label: "live"}}
	if diff := cmp.Diff(want, status.Options); diff != "" {
		t.Fatalf("status options mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_SetColumnSplitsValueAndPrefixesEmptyOption(t *testing.T) {
	m := newPostForm(t, newRepository(), "1")
	tags := mustField(t, m, "tags")

	if tags.DisplayAs != field.DisplayCheckboxes {
		t.Fatalf("tags display = %s", tags.DisplayAs)
	}
	if diff := cmp.Diff([]string{"go", "sql"}, tags.Value.Strings()); diff != "" {
		t.Fatalf("tags value mismatch (-want +got):\n%s", diff)
	}
	if len(tags.Options) == 0 || tags.Options[0].Value != "" {
		t.Fatalf("nullable options should start with an empty key, got %+v", tags.Options)
	}
}

func TestNew_RelationOptions(t *testing.T) {
	m := newPostForm(t, newRepository(), "1")
	author := mustField(t, m, "author_id")

	if author.DisplayAs != field.DisplaySelect || !author.DontReindexOptions || author.Label != "Author" {
		t.Fatalf("unexpected relation config %+v", author)
	}
	want := field.Options{{}, {Value: "1", Label: "Ada"}, {Value: "2", Label: "Linus"}}
	if diff := cmp.Diff(want, author.Options); diff != "" {
		t.Fatalf("relation options mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_IncludeWinsOverExclude(t *testing.T) {
	m, err := form.New(testsupport.Context(), form.Definition{
		Name:    "post",
		Model:   "posts",
		Include: []string{"id", "title"},
		Exclude: []string{"title"},
	}, form.WithRepository(newRepository()))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if diff := cmp.Diff([]string{"id", "title"}, m.FieldNames()); diff != "" {
		t.Fatalf("include mismatch (-want +got):\n%s", diff)
	}

	m, err = form.New(testsupport.Context(), form.Definition{
		Name:    "post",
		Model:   "posts",
		Exclude: []string{"body", "tags", "author_id"},
	}, form.WithRepository(newRepository()))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if diff := cmp.Diff([]string{"id", "title", "status", "active"}, m.FieldNames()); diff != "" {
		t.Fatalf("exclude mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_ParentContainer(t *testing.T) {
	m, err := form.New(testsupport.Context(), form.Definition{Name: "post", Model: "posts", Parent: "blog"},
		form.WithRepository(newRepository()))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	title := mustField(t, m, "title")
	if m.Container() != "blog[post]" || title.FieldName != "blog[post][title]" || title.FieldID != "blog_post__title" {
		t.Fatalf("unexpected nested naming %q %q %q", m.Container(), title.FieldName, title.FieldID)
	}
}

func TestNew_SetupHookOverridesAndOrder(t *testing.T) {
	def := form.Definition{
		Name:  "post",
		Model: "posts",
		Fields: map[string]map[string]string{
			"title": {"label": "Headline"},
			"slug":  {"display_as": "text", "help": "url part"},
		},
		Order: []string{"status", "title"},
	}
	m, err := form.New(testsupport.Context(), def,
		form.WithRepository(newRepository()),
		form.WithSetup(func(m *form.Manager) error {
			m.AddField("notes", nil, field.After, "title")
			m.DisableField("body")
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	want := []string{"status", "title", "id", "notes", "body", "tags", "active", "author_id", "slug"}
	if diff := cmp.Diff(want, m.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if title := mustField(t, m, "title"); title.Label != "Headline" {
		t.Fatalf("override label = %q", title.Label)
	}
	if slug := mustField(t, m, "slug"); slug.FieldName != "post[slug]" || slug.Help != "url part" {
		t.Fatalf("extra field not configured: %+v", slug)
	}
	if notes := mustField(t, m, "notes"); notes.DisplayAs != field.DisplayText || notes.Label != "Notes" {
		t.Fatalf("setup field not configured: %+v", notes)
	}
	if body := mustField(t, m, "body"); !body.Disabled {
		t.Fatalf("body should be disabled")
	}
}

func TestNew_SetupError(t *testing.T) {
	boom := errors.New("boom")
	_, err := form.New(testsupport.Context(), form.Definition{Name: "post", Model: "posts"},
		form.WithRepository(newRepository()),
		form.WithSetup(func(*form.Manager) error { return boom }),
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected setup error, got %v", err)
	}
}

func TestNew_RequiresNameAndRepository(t *testing.T) {
	if _, err := form.New(testsupport.Context(), form.Definition{}); err == nil {
		t.Fatalf("expected an error for a nameless form")
	}
	_, err := form.New(testsupport.Context(), form.Definition{Name: "post", Model: "posts"})
	if !errors.Is(err, form.ErrNoRepository) {
		t.Fatalf("expected ErrNoRepository, got %v", err)
	}
}

func TestNew_FormWithoutRecord(t *testing.T) {
	m, err := form.New(testsupport.Context(), form.Definition{
		Name: "contact",
		Fields: map[string]map[string]string{
			"email":   {"required": "true"},
			"message": {"display_as": "textarea"},
		},
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if diff := cmp.Diff([]string{"email", "message"}, m.FieldNames()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if m.Record() != nil {
		t.Fatalf("expected no record")
	}
	if ok, err := m.SaveObject(testsupport.Context()); ok || !errors.Is(err, form.ErrNoRecord) {
		t.Fatalf("save without record = %v, %v", ok, err)
	}
}

func TestAddAndMoveField(t *testing.T) {
	m := newPostForm(t, newRepository(), "1")

	m.AddField("summary", nil, field.After, "title")
	if diff := cmp.Diff([]string{"id", "title", "summary", "body"}, m.FieldNames()[:4]); diff != "" {
		t.Fatalf("add after mismatch (-want +got):\n%s", diff)
	}
	if summary := mustField(t, m, "summary"); summary.FieldName != "post[summary]" {
		t.Fatalf("late field should be configured, got %+v", summary)
	}

	before := mustField(t, m, "status").Clone()
	m.MoveField("status", field.Start, "")
	if m.FieldNames()[0] != "status" {
		t.Fatalf("status should move to the start, got %v", m.FieldNames())
	}
	if diff := cmp.Diff(before, mustField(t, m, "status"), cmp.AllowUnexported(field.Spec{}, field.Value{})); diff != "" {
		t.Fatalf("move changed the spec (-want +got):\n%s", diff)
	}

	m.RemoveField("missing")
	m.RemoveField("summary")
	if _, ok := m.Field("summary"); ok {
		t.Fatalf("summary should be removed")
	}
}

func TestSetValue(t *testing.T) {
	ctx := testsupport.Context()
	m := newPostForm(t, newRepository(), "")
	if m.Record().Loaded() {
		t.Fatalf("blank id should bind a new record")
	}

	if err := m.SetValue(ctx, "id", field.String("1")); err != nil {
		t.Fatalf("set id: %v", err)
	}
	if !m.Record().Loaded() || m.Record().Get("title") != "Hello" {
		t.Fatalf("setting the primary key should reload the record")
	}

	if err := m.SetValues(ctx, field.Values{
		"tags":    field.List("go", "sql"),
		"body":    field.String(""),
		"title":   field.String("Changed"),
		"unknown": field.String("x"),
	}); err != nil {
		t.Fatalf("set values: %v", err)
	}
	rec := m.Record()
	if rec.Get("tags") != "go,sql" || rec.Get("body") != nil || rec.Get("title") != "Changed" {
		t.Fatalf("unexpected record values tags=%v body=%v title=%v", rec.Get("tags"), rec.Get("body"), rec.Get("title"))
	}
	if title := mustField(t, m, "title"); title.Value.String() != "Changed" {
		t.Fatalf("field value not updated: %q", title.Value.String())
	}
}

func TestIsSubmittedAndInput(t *testing.T) {
	m := newPostForm(t, newRepository(), "1", form.WithInput(request.FromValues(url.Values{
		"post[title]": {"Hi"},
		"other[x]":    {"y"},
	})))
	if !m.IsSubmitted() {
		t.Fatalf("expected the post container to be submitted")
	}
	values := m.Input()
	if got, _ := values.Get("active"); got.String() != "0" {
		t.Fatalf("missing bool should default to 0, got %q", got.String())
	}
	if got, _ := values.Get("title"); got.String() != "Hi" {
		t.Fatalf("title input = %q", got.String())
	}

	m.SetInput(request.FromValues(url.Values{"other[x]": {"y"}}))
	if m.IsSubmitted() || m.Input() != nil {
		t.Fatalf("foreign container should not count as a submission")
	}

	m.SetInput(request.FromValues(url.Values{"post[meta][k]": {"v"}}))
	if got, _ := m.Input().Get("active"); got.String() != "0" {
		t.Fatalf("nested-only input should still default bools, got %q", got.String())
	}
}
