package registry

import (
	"sort"
	"sync"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/types"
)

// Registry maps API names to configurations and lazily built clients.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]apiclient.Config
	clients map[string]*apiclient.Client
	opts    []apiclient.Option
}

var _ apiclient.Source = (*Registry)(nil)

// New creates an empty registry. opts are applied to every client it builds.
func New(opts ...apiclient.Option) *Registry {
	return &Registry{
		configs: make(map[string]apiclient.Config),
		clients: make(map[string]*apiclient.Client),
		opts:    opts,
	}
}

// Register stores cfg under name, replacing any previous entry and its cached client.
func (r *Registry) Register(name string, cfg apiclient.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[name] = cfg
	delete(r.clients, name)
}

// Get returns the client for name, building it on first use.
func (r *Registry) Get(name string) (*apiclient.Client, error) {
	r.mu.RLock()
	c, ok := r.clients[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[name]; ok {
		return c, nil
	}
	cfg, ok := r.configs[name]
	if !ok {
		return nil, types.Errorf(types.ErrNotRegistered, "API with name %q is not registered", name)
	}
	opts := make([]apiclient.Option, 0, len(r.opts)+1)
	opts = append(opts, r.opts...)
	opts = append(opts, apiclient.WithName(name))
	c = apiclient.New(cfg, opts...)
	r.clients[name] = c
	return c, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.configs[name]
	return ok
}

// List returns registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Remove deletes name and its cached client. It reports whether name existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.configs[name]
	delete(r.configs, name)
	delete(r.clients, name)
	return ok
}

// Config returns the configuration registered under name.
func (r *Registry) Config(name string) (apiclient.Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[name]
	return cfg, ok
}
