package skill

import (
	"sort"

	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
)

// Definition is a value typed table entry. Copies never share state.
type Definition struct {
	Name       string          `yaml:"name" json:"name"`
	Category   shared.Category `yaml:"category" json:"category"`
	Chance     int             `yaml:"chance" json:"chance"`
	Improvable bool            `yaml:"improvable" json:"improvable"`
}

// Table is an immutable set of skill definitions keyed by name
type Table struct {
	defs map[string]Definition
}

// NewTable builds a table. Later definitions replace earlier ones with the
// same name.
func NewTable(defs ...Definition) *Table {
	t := &Table{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		t.defs[def.Name] = def
	}
	return t
}

// With returns a new table with defs layered over t
func (t *Table) With(defs ...Definition) *Table {
	out := &Table{defs: make(map[string]Definition, t.Len()+len(defs))}
	if t != nil {
		for name, def := range t.defs {
			out.defs[name] = def
		}
	}
	for _, def := range defs {
		out.defs[def.Name] = def
	}
	return out
}

// Lookup returns the definition for name
func (t *Table) Lookup(name string) (Definition, bool) {
	if t == nil {
		return Definition{}, false
	}
	def, ok := t.defs[name]
	return def, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}

// Names returns the skill names in sorted order
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the entries in name order
func (t *Table) Definitions() []Definition {
	names := t.Names()
	out := make([]Definition, 0, len(names))
	for _, name := range names {
		out = append(out, t.defs[name])
	}
	return out
}
