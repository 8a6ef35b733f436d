package dashboard

import (
	"fmt"
	"sync"
)

// CardHook lets packages register cards/providers during init().
type CardHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []CardHook
)

// RegisterCardHook registers a hook executed against new registries.
func RegisterCardHook(h CardHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements CardRegistry with hook + manifest support.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]CardDefinition
	providers    map[string]Provider
	manifestMeta map[string]ManifestProvider
}

// NewRegistry builds an empty registry and applies global hooks. Providers
// for the default card set are attached separately via
// RegisterDefaultProviders so
// callers can inject their repositories.
func NewRegistry() *Registry {
	reg := &Registry{
		definitions:  map[string]CardDefinition{},
		providers:    map[string]Provider{},
		manifestMeta: map[string]ManifestProvider{},
	}
	for _, def := range DefaultCardDefinitions() {
		_ = reg.RegisterDefinition(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered card hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition stores card metadata.
func (r *Registry) RegisterDefinition(def CardDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("card definition code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// RegisterProvider associates a provider implementation with a definition.
func (r *Registry) RegisterProvider(code string, provider Provider) error {
	if code == "" {
		return fmt.Errorf("card definition code is required to register provider")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("card definition %s not found", code)
	}
	r.providers[code] = provider
	return nil
}

// Definition fetches a card definition by code.
func (r *Registry) Definition(code string) (CardDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Provider fetches a card provider by code.
func (r *Registry) Provider(code string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// ProviderMetadata returns any manifest metadata registered for a card.
func (r *Registry) ProviderMetadata(code string) (ManifestProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[code]
	return meta, ok
}

// Definitions returns all registered definitions.
func (r *Registry) Definitions() []CardDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]CardDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	return defs
}

func (r *Registry) recordProviderMetadata(code string, meta ManifestProvider) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[code] = meta
}
