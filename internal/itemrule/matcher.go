// Package itemrule decides whether an item counts as a light-source item for the boost.
package itemrule

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultPatterns matches every torch variant by id.
var DefaultPatterns = []string{"torch"}

// Matcher matches item ids against case-insensitive substrings and an optional Lua rule.
// When a script is present it decides; patterns are the fallback when the script errors.
type Matcher struct {
	patterns []string
	script   *Script

	mu    sync.RWMutex
	cache map[string]bool
}

// NewMatcher creates a matcher. Empty patterns fall back to DefaultPatterns.
// script may be nil.
func NewMatcher(patterns []string, script *Script) *Matcher {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	if len(normalized) == 0 {
		normalized = append(normalized, DefaultPatterns...)
	}

	return &Matcher{
		patterns: normalized,
		script:   script,
		cache:    make(map[string]bool),
	}
}

// Patterns returns the normalized substring patterns.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Matches reports whether a single item id qualifies.
func (m *Matcher) Matches(itemID string) bool {
	if itemID == "" {
		return false
	}

	m.mu.RLock()
	v, ok := m.cache[itemID]
	m.mu.RUnlock()
	if ok {
		return v
	}

	v, cacheable := m.evaluate(itemID)
	if !cacheable {
		return v
	}

	m.mu.Lock()
	m.cache[itemID] = v
	m.mu.Unlock()
	return v
}

// Any reports whether at least one of the item ids qualifies.
func (m *Matcher) Any(itemIDs []string) bool {
	for _, id := range itemIDs {
		if m.Matches(id) {
			return true
		}
	}
	return false
}

// evaluate returns the verdict and whether it may be cached. A pattern fallback after a
// script error is not cached, so the script gets another chance on the next lookup.
func (m *Matcher) evaluate(itemID string) (bool, bool) {
	if m.script != nil {
		v, err := m.script.IsQualifying(itemID)
		if err == nil {
			return v, true
		}
		log.Warn().Err(err).Str("item", itemID).Msg("Item rule script failed, using patterns")
		return m.matchPatterns(itemID), false
	}
	return m.matchPatterns(itemID), true
}

func (m *Matcher) matchPatterns(itemID string) bool {
	id := strings.ToLower(itemID)
	for _, p := range m.patterns {
		if strings.Contains(id, p) {
			return true
		}
	}
	return false
}
