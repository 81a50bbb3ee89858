package command

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps names and aliases to descriptors. It is filled once during
// startup and only read afterwards, so lookups take no lock.
type Registry struct {
	byName  map[string]*Descriptor
	byAlias map[string]*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Descriptor),
		byAlias: make(map[string]*Descriptor),
	}
}

// Register adds every descriptor or none of them. Any token that collides
// with an existing name or alias, or with another token in the same batch,
// yields a *DuplicateCommandError.
func (r *Registry) Register(descriptors ...*Descriptor) error {
	seen := make(map[string]string)
	for _, d := range descriptors {
		if d == nil || strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("command descriptor has no name")
		}
		if d.Handler == nil {
			return fmt.Errorf("command %q has no handler", d.Name)
		}
		for _, token := range d.Tokens() {
			if existing, ok := r.lookup(token); ok {
				return &DuplicateCommandError{Token: token, Existing: existing.Name}
			}
			if owner, ok := seen[token]; ok {
				return &DuplicateCommandError{Token: token, Existing: owner}
			}
			seen[token] = d.Name
		}
	}

	for _, d := range descriptors {
		tokens := d.Tokens()
		r.byName[tokens[0]] = d
		for _, alias := range tokens[1:] {
			r.byAlias[alias] = d
		}
	}
	return nil
}

// Resolve looks a token up case-insensitively, primary names first.
func (r *Registry) Resolve(token string) (*Descriptor, bool) {
	return r.lookup(strings.ToLower(token))
}

func (r *Registry) lookup(token string) (*Descriptor, bool) {
	if d, ok := r.byName[token]; ok {
		return d, true
	}
	d, ok := r.byAlias[token]
	return d, ok
}

// All returns the registered descriptors ordered by name.
func (r *Registry) All() []*Descriptor {
	all := make([]*Descriptor, 0, len(r.byName))
	for _, d := range r.byName {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

func (r *Registry) Len() int {
	return len(r.byName)
}
