package markers

import "sync/atomic"

// Detector finds the first marker in a text.
type Detector interface {
	Match(text string) (Match, bool)
}

// Matcher is a Detector whose catalogue can be swapped while in use, e.g.
// when an overridden catalogue file changes on disk.
type Matcher struct {
	cat atomic.Pointer[Catalogue]
}

// NewMatcher returns a Matcher over c.
func NewMatcher(c *Catalogue) *Matcher {
	m := &Matcher{}
	m.cat.Store(c)
	return m
}

func (m *Matcher) Match(text string) (Match, bool) {
	return m.cat.Load().Match(text)
}

// Catalogue returns the catalogue currently in use.
func (m *Matcher) Catalogue() *Catalogue {
	return m.cat.Load()
}

// Replace swaps in c for subsequent matches.
func (m *Matcher) Replace(c *Catalogue) {
	if c != nil {
		m.cat.Store(c)
	}
}
