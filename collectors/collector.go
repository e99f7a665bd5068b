// Package collectors provides the sample provider interface and
// registration for system-graph. Each provider reads the raw host counters
// from one source (procfs, gopsutil, synthetic data) and returns them as a
// single metrics.Sample.
package collectors

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gitlab.com/tinyland/lab/system-graph/metrics"
)

// Provider is the interface that all sample providers must implement.
type Provider interface {
	// Name returns the provider's unique identifier (e.g., "proc", "gopsutil").
	// Names must be unique within a Registry.
	Name() string

	// Description returns a human-readable description of the counter source.
	Description() string

	// Sample reads the current counters. A provider that can read some but
	// not all counters returns the partial sample with Warnings rather than
	// an error. The context bounds the OS reads.
	Sample(ctx context.Context) (*SampleResult, error)
}

// SampleResult holds the output of one sampling run.
type SampleResult struct {
	// Provider is the name of the provider that produced this result.
	Provider string `json:"provider"`

	// Sample is the counter snapshot.
	Sample metrics.Sample `json:"sample"`

	// Warnings contains non-fatal issues encountered while sampling.
	// For example, /proc/meminfo lacking the swap lines.
	Warnings []string `json:"warnings,omitempty"`
}

// Registry holds registered providers and provides lookup by name.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make([]Provider, 0),
	}
}

// Register adds a provider to the registry.
// If a provider with the same name already exists, it is replaced.
func (r *Registry) Register(p Provider) {
	for i, existing := range r.providers {
		if existing.Name() == p.Name() {
			r.providers[i] = p
			return
		}
	}
	r.providers = append(r.providers, p)
}

// Get returns a provider by name. The second return value indicates
// whether the provider was found.
func (r *Registry) Get(name string) (Provider, bool) {
	for _, p := range r.providers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// All returns all registered providers.
func (r *Registry) All() []Provider {
	result := make([]Provider, len(r.providers))
	copy(result, r.providers)
	return result
}

// Names returns the sorted names of all registered providers.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	sort.Strings(names)
	return names
}

// Sample runs the named provider with the given timeout. A zero timeout
// leaves ctx as it is.
func (r *Registry) Sample(ctx context.Context, name string, timeout time.Duration) (*SampleResult, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("collectors: unknown provider %q (available: %v)", name, r.Names())
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	res, err := p.Sample(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectors: %s: %w", name, err)
	}
	return res, nil
}
