package nav

import "sync"

// Params is the navigation parameter store: a handful of named string
// values that outlive a single render. Lookups of unset names report
// absence, never an error. Implementations decide how the values persist
// (browser URL, session row); MemParams keeps them in memory.
type Params interface {
	Get(name string) (string, bool)
	Set(name, value string)
	Clear(name string)
}

// MemParams is an in-memory Params implementation.
type MemParams struct {
	mu   sync.Mutex
	vals map[string]string
}

func NewMemParams() *MemParams {
	return &MemParams{vals: make(map[string]string)}
}

func (p *MemParams) Get(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.vals[name]
	return v, ok
}

func (p *MemParams) Set(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vals[name] = value
}

func (p *MemParams) Clear(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.vals, name)
}
