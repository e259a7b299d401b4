package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemDef is the static template for one item kind.
type ItemDef struct {
	Kind      int32  `yaml:"kind"`
	Name      string `yaml:"name"`
	Droppable bool   `yaml:"droppable"`
}

// ItemTable holds all item kind templates, keyed by kind id.
type ItemTable struct {
	byKind map[int32]*ItemDef
}

// LoadItemTable loads the item catalog from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item catalog: %w", err)
	}
	return ParseItemTable(raw)
}

// ParseItemTable decodes catalog YAML. Split from LoadItemTable so tests
// feed literals without touching the filesystem.
func ParseItemTable(raw []byte) (*ItemTable, error) {
	var file struct {
		Items []ItemDef `yaml:"items"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse item catalog: %w", err)
	}
	t := &ItemTable{byKind: make(map[int32]*ItemDef, len(file.Items))}
	for i := range file.Items {
		d := &file.Items[i]
		if d.Kind <= 0 {
			return nil, fmt.Errorf("item catalog: invalid kind %d (%q)", d.Kind, d.Name)
		}
		if _, dup := t.byKind[d.Kind]; dup {
			return nil, fmt.Errorf("item catalog: duplicate kind %d", d.Kind)
		}
		t.byKind[d.Kind] = d
	}
	return t, nil
}

// Get returns the template for kind, or nil for unknown kinds.
func (t *ItemTable) Get(kind int32) *ItemDef {
	return t.byKind[kind]
}

// Count returns the number of catalog entries.
func (t *ItemTable) Count() int {
	return len(t.byKind)
}
