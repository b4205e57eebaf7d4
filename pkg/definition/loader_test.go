package definition

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmanager/pkg/schema"
	"github.com/goliatone/go-formmanager/pkg/validation"
)

const postYAML = `
forms:
  post:
    model: posts
    exclude: [slug]
    method: POST
    submit_text: Publish
    rules:
      - field: title
        rule: min_length
        params: ["3"]
    fieldsets:
      - legend: Content
        fields: [title, body]
    fields:
      body:
        help: "Markdown <b>allowed</b>"
tables:
  posts:
    created_column: created_at
    updated_column: updated_at
    comments:
      status: "help: pick one"
    belongs_to:
      - alias: author
        model: users
`

const userJSON = `{"forms": {"signup": {"fields": {"email": {"label": "Email"}}}}}`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/post.yaml":   {Data: []byte(postYAML)},
		"forms/signup.json": {Data: []byte(userJSON)},
		"forms/README.md":   {Data: []byte("ignored")},
	}

	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	post, ok := store.Form("post")
	if !ok {
		t.Fatalf("post form missing")
	}
	if post.Method != "post" || post.Model != "posts" || post.SubmitText != "Publish" {
		t.Fatalf("post form = %+v", post)
	}
	if post.Source != "forms/post.yaml" {
		t.Fatalf("source = %q", post.Source)
	}
	wantRules := []validation.Rule{{Field: "title", Name: "min_length", Params: []string{"3"}}}
	if diff := cmp.Diff(wantRules, post.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Fieldset{{Legend: "Content", Fields: []string{"title", "body"}}}, post.Fieldsets); diff != "" {
		t.Fatalf("fieldsets mismatch (-want +got):\n%s", diff)
	}
	if post.Fields["body"]["help"] != "Markdown <b>allowed</b>" {
		t.Fatalf("field override = %v", post.Fields["body"])
	}

	table, ok := store.Table("posts")
	if !ok {
		t.Fatalf("posts table missing")
	}
	want := Table{
		Name:          "posts",
		Comments:      map[string]string{"status": "help: pick one"},
		CreatedColumn: "created_at",
		UpdatedColumn: "updated_at",
		BelongsTo:     []schema.BelongsTo{{Alias: "author", Model: "users"}},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}

	if signup, ok := store.Form("signup"); !ok || signup.Fields["email"]["label"] != "Email" {
		t.Fatalf("signup form = %+v", signup)
	}
}

func TestLoadFS_NilAndDuplicates(t *testing.T) {
	store, err := LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("nil fs: store=%v err=%v", store, err)
	}

	_, err = LoadFS(fstest.MapFS{
		"a.yaml": {Data: []byte("forms:\n  post: {}\n")},
		"b.json": {Data: []byte(`{"forms": {"post": {}}}`)},
	})
	if err == nil || !strings.Contains(err.Error(), `duplicate form "post"`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":      "   ",
		"bad method": "forms:\n  post:\n    method: put\n",
		"bad rule":   "forms:\n  post:\n    rules:\n      - rule: not_empty\n",
		"empty set":  "forms:\n  post:\n    fieldsets:\n      - legend: x\n",
		"not a doc":  "{[",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc), name); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
