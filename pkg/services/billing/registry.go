package billing

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/cost-monitor/pkg/services/config"
)

// ProviderFactory builds a provider from the loaded configuration.
type ProviderFactory func(ctx context.Context, cfg *config.Config) (*Provider, error)

// Registry manages provider factories keyed by name.
type Registry interface {
	// Register adds a new provider factory
	Register(name string, factory ProviderFactory) error
	// Create instantiates the named provider
	Create(ctx context.Context, name string, cfg *config.Config) (*Provider, error)
	// ListProviders returns the registered names, sorted
	ListProviders() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry(factories map[string]ProviderFactory) Registry {
	r := &registry{
		factories: make(map[string]ProviderFactory, len(factories)),
	}
	for name, factory := range factories {
		r.factories[name] = factory
	}
	return r
}

func (r *registry) Register(name string, factory ProviderFactory) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider %q is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, name string, cfg *config.Config) (*Provider, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	provider, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", name, err)
	}
	return provider, nil
}

func (r *registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
