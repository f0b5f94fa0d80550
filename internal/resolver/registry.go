// Package resolver keeps the set of available quantity resolvers, keyed by
// their stable identifiers.
package resolver

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kingrea/powercalc/internal/quantity"
	"github.com/kingrea/powercalc/internal/resolver/ohm"
	"github.com/kingrea/powercalc/internal/resolver/threephase"
)

// Registry maintains known resolvers and their aliases.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]quantity.Resolver
	aliases   map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		resolvers: map[string]quantity.Resolver{},
		aliases:   map[string]string{},
	}
}

// Builtin returns a registry holding the Ohm's Law and three-phase resolvers.
func Builtin() *Registry {
	reg := NewRegistry()
	reg.MustRegister(ohm.New(), "ohms-law")
	reg.MustRegister(threephase.New(), "3ph", "threephase")
	return reg
}

// Register installs a resolver under its ID plus optional aliases. Returns an
// error if any key is already taken.
func (r *Registry) Register(res quantity.Resolver, aliases ...string) error {
	if res == nil {
		return fmt.Errorf("resolver: resolver is required")
	}
	id := normalizeID(res.ID())
	if id == "" {
		return fmt.Errorf("resolver: id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(id) {
		return fmt.Errorf("resolver: %s already registered", id)
	}
	for _, alias := range aliases {
		if key := normalizeID(alias); key == "" || r.taken(key) {
			return fmt.Errorf("resolver: alias %q unavailable for %s", alias, id)
		}
	}
	r.resolvers[id] = res
	for _, alias := range aliases {
		r.aliases[normalizeID(alias)] = id
	}
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(res quantity.Resolver, aliases ...string) {
	if err := r.Register(res, aliases...); err != nil {
		panic(err)
	}
}

// Lookup returns the resolver registered under id or one of its aliases.
func (r *Registry) Lookup(id string) (quantity.Resolver, error) {
	key := normalizeID(id)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	res, ok := r.resolvers[key]
	if !ok {
		return nil, fmt.Errorf("resolver: unknown calculator %q (available: %s)", id, strings.Join(r.idsLocked(), ", "))
	}
	return res, nil
}

// IDs returns a sorted list of registered resolver identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idsLocked()
}

func (r *Registry) idsLocked() []string {
	ids := make([]string, 0, len(r.resolvers))
	for id := range r.resolvers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) taken(key string) bool {
	if _, ok := r.resolvers[key]; ok {
		return true
	}
	_, ok := r.aliases[key]
	return ok
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
