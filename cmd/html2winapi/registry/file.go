package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a registry file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFor picks the encoding from the file extension: .json is JSON,
// anything else is YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads the registry stored at path. A missing file yields an empty
// registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	m, err := decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	r, err := FromMap(m)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return r, nil
}

// Save rewrites the whole registry file at path.
func (r *Registry) Save(path string) error {
	data, err := encode(r.Entries(), FormatFor(path))
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing registry %s: %w", path, err)
	}
	return nil
}

func decode(data []byte, f Format) (map[string]int, error) {
	m := map[string]int{}
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// encode writes entries in the given order so that successive runs produce
// append-only diffs.
func encode(entries []Entry, f Format) ([]byte, error) {
	if f == FormatJSON {
		return encodeJSON(entries)
	}
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(e.ID)},
		)
	}
	if len(entries) == 0 {
		return []byte("{}\n"), nil
	}
	return yaml.Marshal(doc)
}

func encodeJSON(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("{}\n"), nil
	}
	var b bytes.Buffer
	b.WriteString("{\n")
	for i, e := range entries {
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "  %s: %d", k, e.ID)
		if i < len(entries)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}
