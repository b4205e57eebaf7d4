// Package definition loads form and table declarations from JSON or YAML
// documents.
package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and parses every JSON/YAML document. A nil fsys yields an
// empty store. Duplicate form or table names across files are errors.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		return store.merge(doc, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse reads a single document.
func Parse(data []byte, source string) (*Store, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	store := NewStore()
	if err := store.merge(doc, source); err != nil {
		return nil, err
	}
	return store, nil
}

type documentFile struct {
	Forms  map[string]Form  `json:"forms" yaml:"forms"`
	Tables map[string]Table `json:"tables" yaml:"tables"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("definition: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML", source)
}

func (s *Store) merge(doc documentFile, source string) error {
	for _, key := range sortedKeys(doc.Forms) {
		name := strings.TrimSpace(key)
		if name == "" {
			return fmt.Errorf("definition: file %s defines a form with an empty name", source)
		}
		if _, exists := s.forms[name]; exists {
			return fmt.Errorf("definition: duplicate form %q (file %s)", name, source)
		}
		form, err := normaliseForm(doc.Forms[key], name, source)
		if err != nil {
			return err
		}
		s.forms[name] = form
	}
	for _, key := range sortedKeys(doc.Tables) {
		name := strings.TrimSpace(key)
		if name == "" {
			return fmt.Errorf("definition: file %s defines a table with an empty name", source)
		}
		if _, exists := s.tables[name]; exists {
			return fmt.Errorf("definition: duplicate table %q (file %s)", name, source)
		}
		table := doc.Tables[key]
		table.Name = name
		s.tables[name] = table
	}
	return nil
}

func normaliseForm(raw Form, name, source string) (Form, error) {
	form := raw
	form.Name = name
	form.Source = source
	form.Method = strings.ToLower(strings.TrimSpace(raw.Method))
	switch form.Method {
	case "", "post", "get":
	default:
		return Form{}, fmt.Errorf("definition: form %q (file %s) has unsupported method %q", name, source, raw.Method)
	}
	for idx, rule := range raw.Rules {
		if strings.TrimSpace(rule.Field) == "" || strings.TrimSpace(rule.Name) == "" {
			return Form{}, fmt.Errorf("definition: form %q (file %s) rule %d needs field and rule", name, source, idx)
		}
	}
	for idx, set := range raw.Fieldsets {
		if len(set.Fields) == 0 {
			return Form{}, fmt.Errorf("definition: form %q (file %s) fieldset %d is empty", name, source, idx)
		}
	}
	return form, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
