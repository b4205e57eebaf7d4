// Package request turns submitted HTTP parameters into the nested input tree
// forms read from. Bracketed names ("post[title]", "post[tags][]") become
// nested containers.
package request

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formmanager/pkg/field"
)

// Method names accepted by FromRequest.
const (
	MethodPost = "post"
	MethodGet  = "get"
)

// maxMemory bounds multipart parsing before spilling to disk.
const maxMemory = 8 << 20

// Input is one level of the submitted parameter tree.
type Input struct {
	values   field.Values
	children map[string]*Input
}

// New returns an empty input.
func New() *Input {
	return &Input{values: field.Values{}, children: map[string]*Input{}}
}

// FromValues builds the tree from flat parameters. Within one key the last
// value wins unless the key ends in "[]".
func FromValues(values url.Values) *Input {
	root := New()
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		root.add(SplitName(key), values[key])
	}
	return root
}

// FromMap builds a one level input from plain values.
func FromMap(values map[string]field.Value) *Input {
	in := New()
	for key, value := range values {
		in.values[key] = value
	}
	return in
}

// FromRequest reads the parameters matching method: the parsed body for
// post, the query string for get.
func FromRequest(r *http.Request, method string) (*Input, error) {
	if r == nil {
		return New(), nil
	}
	switch strings.ToLower(strings.TrimSpace(method)) {
	case MethodGet:
		return FromValues(r.URL.Query()), nil
	case MethodPost, "":
		if isMultipart(r) {
			if err := r.ParseMultipartForm(maxMemory); err != nil {
				return nil, fmt.Errorf("request: parse multipart form: %w", err)
			}
		} else if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("request: parse form: %w", err)
		}
		return FromValues(r.PostForm), nil
	default:
		return nil, fmt.Errorf("request: unsupported method %q", method)
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// SplitName splits "a[b][c]" into ["a", "b", "c"]. A trailing "[]" yields an
// empty last segment. Names without brackets yield themselves.
func SplitName(name string) []string {
	open := strings.IndexByte(name, '[')
	if open <= 0 {
		return []string{name}
	}
	segments := []string{name[:open]}
	rest := name[open:]
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{name}
		}
		segments = append(segments, rest[1:end])
		rest = rest[end+1:]
	}
	if rest != "" {
		return []string{name}
	}
	return segments
}

func (in *Input) add(path []string, raw []string) {
	node := in
	for len(path) > 2 || (len(path) == 2 && path[1] != "") {
		node = node.child(path[0])
		path = path[1:]
	}
	name := path[0]
	if len(path) == 2 {
		existing := node.values[name].Strings()
		node.values[name] = field.List(append(existing, raw...)...)
		return
	}
	if len(raw) == 0 {
		node.values[name] = field.String("")
		return
	}
	node.values[name] = field.String(raw[len(raw)-1])
}

func (in *Input) child(name string) *Input {
	if c, ok := in.children[name]; ok {
		return c
	}
	c := New()
	in.children[name] = c
	return c
}

// Lookup walks a container name such as "post" or "blog[post]".
func (in *Input) Lookup(container string) (*Input, bool) {
	if in == nil {
		return nil, false
	}
	if container == "" {
		return in, true
	}
	node := in
	for _, segment := range SplitName(container) {
		next, ok := node.children[segment]
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Values returns a copy of the leaf values of this level. It is never nil,
// even for a level that only holds nested containers.
func (in *Input) Values() field.Values {
	if in == nil || in.values == nil {
		return field.Values{}
	}
	return in.values.Clone()
}

// Get returns one leaf value.
func (in *Input) Get(name string) (field.Value, bool) {
	if in == nil {
		return field.Value{}, false
	}
	return in.values.Get(name)
}

// Empty reports whether nothing was submitted at this level or below.
func (in *Input) Empty() bool {
	if in == nil {
		return true
	}
	if len(in.values) > 0 {
		return false
	}
	for _, c := range in.children {
		if !c.Empty() {
			return false
		}
	}
	return true
}
