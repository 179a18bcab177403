// Package registry maps provider identifiers to their mappers. The registry
// is assembled once during startup composition and frozen, so concurrent
// request handling reads it without synchronization.
package registry

import (
	"strings"

	"chargeback-gateway/internal/webhook"
)

// Builder collects mapper registrations before the registry is frozen.
type Builder struct {
	mappers map[string]webhook.Mapper
	order   []string
}

// NewBuilder returns an empty registry builder.
func NewBuilder() *Builder {
	return &Builder{mappers: make(map[string]webhook.Mapper)}
}

// Register stores a mapper under its case-normalized provider name.
// Registering a second mapper with the same name replaces the first
// (last-write-wins) without duplicating the provider listing.
func (b *Builder) Register(m webhook.Mapper) *Builder {
	name := strings.ToLower(m.Name())
	if _, exists := b.mappers[name]; !exists {
		b.order = append(b.order, name)
	}
	b.mappers[name] = m
	return b
}

// Build freezes the registrations into an immutable registry.
func (b *Builder) Build() *Registry {
	mappers := make(map[string]webhook.Mapper, len(b.mappers))
	for name, m := range b.mappers {
		mappers[name] = m
	}
	order := make([]string, len(b.order))
	copy(order, b.order)
	return &Registry{mappers: mappers, order: order}
}

// Registry is a read-only provider-to-mapper lookup table.
type Registry struct {
	mappers map[string]webhook.Mapper
	order   []string
}

// Lookup resolves a provider identifier case-insensitively. ok is false for
// unknown providers; the caller decides the error semantics.
func (r *Registry) Lookup(provider string) (webhook.Mapper, bool) {
	m, ok := r.mappers[strings.ToLower(provider)]
	return m, ok
}

// Providers returns the registered provider names in registration order.
func (r *Registry) Providers() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
