package selector

import "sync"

// Selector is the effect index shared between the render loop and the input
// handler. Both sides go through the same mutex and never hold it across I/O.
type Selector struct {
	mu  sync.Mutex
	tag Tag
}

// New returns a Selector starting at initial. An invalid tag starts at the
// first effect.
func New(initial Tag) *Selector {
	if !initial.Valid() {
		initial = Rainbow
	}
	return &Selector{tag: initial}
}

// Read returns the current effect.
func (s *Selector) Read() Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag
}

// Next advances to the following effect (mod Count) and returns it.
func (s *Selector) Next() Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tag = s.tag.Next()
	return s.tag
}
