package widget

import (
	"fmt"
	"sync"

	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

// HandleGenerator issues sequential widget handles ("w1", "w2", ...).
type HandleGenerator struct {
	prefix  string
	counter uint32
	mu      sync.Mutex
}

// NewHandleGenerator creates a generator whose handles start with prefix.
func NewHandleGenerator(prefix string) *HandleGenerator {
	return &HandleGenerator{prefix: prefix}
}

// Next returns the next handle.
func (g *HandleGenerator) Next() vtree.Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return vtree.Handle(fmt.Sprintf("%s%d", g.prefix, g.counter))
}

// Reset resets the counter to 0.
func (g *HandleGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = 0
}

// Current returns the current counter value without incrementing.
func (g *HandleGenerator) Current() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}
