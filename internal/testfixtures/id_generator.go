package testfixtures

import (
	"fmt"
	"sync"
)

// CreatedIDPrefix matches the ids the mock store gives to created entries.
const CreatedIDPrefix = "mock-created"

// IDGenerator hands out "<prefix>-<n>" ids in order and remembers them, so
// tests can inject it into the mock store or the demo directory and then
// assert on exactly what was issued.
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	issued []string
}

// NewIDGenerator returns a generator for prefix, or CreatedIDPrefix when
// prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = CreatedIDPrefix
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next id.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", g.prefix, len(g.issued)+1)
	g.issued = append(g.issued, id)
	return id
}

// NextFunc exposes Next for option injection.
func (g *IDGenerator) NextFunc() func() string {
	return g.Next
}

// Issued returns the ids handed out so far, oldest first.
func (g *IDGenerator) Issued() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.issued...)
}
