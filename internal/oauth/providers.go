package oauth

import (
	"errors"
	"slices"
	"sync"
)

const (
	Google   = "google"
	Facebook = "facebook"
)

var (
	ErrProviderConflict = errors.New("provider already exists")
	ErrProviderNotFound = errors.New("provider not found")
)

// Providers is the set of identity providers whose assertions the service accepts.
// Provider assertions are taken at face value; nothing here talks to the provider.
type Providers struct {
	names map[string]struct{}
	mu    sync.RWMutex
}

func NewProviders(names ...string) (*Providers, error) {
	p := &Providers{
		names: make(map[string]struct{}),
	}

	for _, n := range names {
		if err := p.Use(n); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Providers) Use(name string) error {
	if name == "" {
		return errors.New("empty provider name")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.names[name]; ok {
		return ErrProviderConflict
	}

	p.names[name] = struct{}{}
	return nil
}

func (p *Providers) Lookup(name string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.names[name]; !ok {
		return ErrProviderNotFound
	}

	return nil
}

// Names returns the registered providers in sorted order.
func (p *Providers) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, 0, len(p.names))
	for n := range p.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
