package request

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmanager/pkg/field"
)

func TestSplitName(t *testing.T) {
	cases := map[string][]string{
		"title":            {"title"},
		"post[title]":      {"post", "title"},
		"post[tags][]":     {"post", "tags", ""},
		"blog[post][body]": {"blog", "post", "body"},
		"broken[title":     {"broken[title"},
		"trailing[a]x":     {"trailing[a]x"},
	}
	for in, want := range cases {
		if diff := cmp.Diff(want, SplitName(in)); diff != "" {
			t.Fatalf("SplitName(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestFromValues_NestsContainers(t *testing.T) {
	in := FromValues(url.Values{
		"post[title]":        {"first", "Hello"},
		"post[tags][]":       {"a", "b"},
		"blog[post][body]":   {"Text"},
		"_csrf":              {"token"},
		"post[empty_list][]": {},
	})

	post, ok := in.Lookup("post")
	if !ok {
		t.Fatalf("expected post container")
	}
	title, _ := post.Get("title")
	if title.String() != "Hello" || title.IsList() {
		t.Fatalf("title = %+v", title.Strings())
	}
	tags, _ := post.Get("tags")
	if diff := cmp.Diff([]string{"a", "b"}, tags.Strings()); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	nested, ok := in.Lookup("blog[post]")
	if !ok {
		t.Fatalf("expected blog[post] container")
	}
	if body, _ := nested.Get("body"); body.String() != "Text" {
		t.Fatalf("body = %q", body.String())
	}

	if token, _ := in.Get("_csrf"); token.String() != "token" {
		t.Fatalf("root value = %q", token.String())
	}
	if _, ok := in.Lookup("missing"); ok {
		t.Fatalf("unexpected container")
	}
}

func TestFromRequest_Post(t *testing.T) {
	body := url.Values{"user[name]": {"Ada"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/users?user[name]=Query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	in, err := FromRequest(req, MethodPost)
	if err != nil {
		t.Fatalf("from request: %v", err)
	}
	user, _ := in.Lookup("user")
	if name, _ := user.Get("name"); name.String() != "Ada" {
		t.Fatalf("post must read the body only, got %q", name.String())
	}
}

func TestFromRequest_Get(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/search?q[term]=go", nil)
	in, err := FromRequest(req, MethodGet)
	if err != nil {
		t.Fatalf("from request: %v", err)
	}
	q, ok := in.Lookup("q")
	if !ok {
		t.Fatalf("expected q container")
	}
	if term, _ := q.Get("term"); term.String() != "go" {
		t.Fatalf("term = %q", term.String())
	}
}

func TestFromRequest_UnsupportedMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := FromRequest(req, "put"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEmpty(t *testing.T) {
	if !New().Empty() {
		t.Fatalf("new input must be empty")
	}
	in := FromValues(url.Values{"post[title]": {""}})
	if in.Empty() {
		t.Fatalf("submitted blank value still counts as input")
	}
	if !FromMap(map[string]field.Value{}).Empty() {
		t.Fatalf("empty map must be empty")
	}
}

func TestValues_NeverNil(t *testing.T) {
	var zero Input
	values := zero.Values()
	if values == nil {
		t.Fatalf("zero input must return an empty map")
	}
	values["x"] = field.String("1")

	node, ok := FromValues(url.Values{"post[meta][k]": {"v"}}).Lookup("post")
	if !ok {
		t.Fatalf("expected the post container")
	}
	if got := node.Values(); got == nil || len(got) != 0 {
		t.Fatalf("container with only nested levels = %#v", got)
	}
}
