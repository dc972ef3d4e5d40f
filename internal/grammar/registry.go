package grammar

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps language ids (and aliases) to tables.
type Registry struct {
	mu      sync.RWMutex
	tables  map[string]*Table
	aliases map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables:  make(map[string]*Table),
		aliases: make(map[string]string),
	}
}

// Register compiles spec and adds it under its id. Registering an id twice is
// an error.
func (r *Registry) Register(spec Spec) error {
	t, err := New(spec)
	if err != nil {
		return err
	}
	key := normalizeID(t.id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.tables[key]; dup {
		return fmt.Errorf("grammar %s: already registered", t.id)
	}
	r.tables[key] = t
	return nil
}

// MustRegister is like Register but panics. It is meant for tables declared
// at program start, where a bad table is a programming error.
func (r *Registry) MustRegister(spec Spec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

// Alias makes alias resolve to the table registered as id.
func (r *Registry) Alias(alias, id string) error {
	a, target := normalizeID(alias), normalizeID(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[target]; !ok {
		return fmt.Errorf("alias %s -> %s: %w", alias, id, ErrUnsupportedLanguage)
	}
	if _, ok := r.tables[a]; ok {
		return fmt.Errorf("alias %s shadows a registered language", alias)
	}
	r.aliases[a] = target
	return nil
}

// Lookup returns the table for id or an error wrapping ErrUnsupportedLanguage.
func (r *Registry) Lookup(id string) (*Table, error) {
	key := normalizeID(id)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	if t, ok := r.tables[key]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%q: %w", id, ErrUnsupportedLanguage)
}

// Has reports whether id (or an alias of it) is registered.
func (r *Registry) Has(id string) bool {
	_, err := r.Lookup(id)
	return err == nil
}

// Languages returns the registered ids in sorted order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t.id)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Lookup resolves id in the Default registry.
func Lookup(id string) (*Table, error) { return Default.Lookup(id) }
