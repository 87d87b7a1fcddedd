package itemrule

import (
	"errors"
	"testing"
)

func TestMatcher_Patterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		itemID   string
		want     bool
	}{
		{"default torch", nil, "minecraft:torch", true},
		{"default soul torch", nil, "minecraft:soul_torch", true},
		{"default case insensitive", nil, "Furniture_Crude_Torch", true},
		{"default non torch", nil, "minecraft:stone", false},
		{"empty id", nil, "", false},
		{"custom pattern", []string{"lantern"}, "minecraft:lantern", true},
		{"custom replaces default", []string{"lantern"}, "minecraft:torch", false},
		{"blank patterns use default", []string{" ", ""}, "minecraft:torch", true},
		{"pattern trimmed and lowered", []string{"  GLOW "}, "minecraft:glowstone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(tt.patterns, nil)
			if got := m.Matches(tt.itemID); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.itemID, got, tt.want)
			}
		})
	}
}

func TestMatcher_Any(t *testing.T) {
	m := NewMatcher(nil, nil)

	if m.Any(nil) {
		t.Error("Any(nil) = true, want false")
	}
	if m.Any([]string{"minecraft:dirt", "minecraft:stick"}) {
		t.Error("Any without a torch = true, want false")
	}
	if !m.Any([]string{"minecraft:dirt", "minecraft:torch"}) {
		t.Error("Any with a torch = false, want true")
	}
}

func TestScript_DecidesOverPatterns(t *testing.T) {
	s, err := LoadString(`
local log = require("log")
function is_qualifying(id)
  log.debug("checking", { item = id })
  return contains(id, "lantern") or id == "minecraft:glowstone"
end
`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer s.Close()

	m := NewMatcher(nil, s)

	tests := []struct {
		itemID string
		want   bool
	}{
		{"minecraft:LANTERN", true},
		{"minecraft:glowstone", true},
		{"minecraft:torch", false},
	}
	for _, tt := range tests {
		if got := m.Matches(tt.itemID); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.itemID, got, tt.want)
		}
		// Second call is served from the cache and must agree.
		if got := m.Matches(tt.itemID); got != tt.want {
			t.Errorf("cached Matches(%q) = %v, want %v", tt.itemID, got, tt.want)
		}
	}
}

func TestScript_ErrorFallsBackToPatterns(t *testing.T) {
	s, err := LoadString(`function is_qualifying(id) error("boom") end`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer s.Close()

	if _, err := s.IsQualifying("minecraft:torch"); err == nil {
		t.Error("IsQualifying error = nil, want script error")
	}

	m := NewMatcher(nil, s)
	if !m.Matches("minecraft:torch") {
		t.Error("Matches(torch) = false, want pattern fallback true")
	}
}

func TestMatcher_ScriptErrorIsNotCached(t *testing.T) {
	// Fails on the first call only, then rejects everything.
	s, err := LoadString(`
calls = 0
function is_qualifying(id)
  calls = calls + 1
  if calls == 1 then error("transient") end
  return false
end
`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer s.Close()

	m := NewMatcher(nil, s)
	if !m.Matches("minecraft:torch") {
		t.Fatal("first Matches(torch) = false, want pattern fallback true")
	}
	if m.Matches("minecraft:torch") {
		t.Error("second Matches(torch) = true, fallback result was cached")
	}
	// The successful verdict is cached from here on.
	if m.Matches("minecraft:torch") {
		t.Error("third Matches(torch) = true, want cached false")
	}
}

func TestLoadString_Errors(t *testing.T) {
	if _, err := LoadString(`x = 1`); !errors.Is(err, ErrNoRuleFunction) {
		t.Errorf("missing function error = %v, want ErrNoRuleFunction", err)
	}
	if _, err := LoadString(`function (`); err == nil {
		t.Error("syntax error = nil, want error")
	}
}

func TestScript_ClosedReturnsError(t *testing.T) {
	s, err := LoadString(`function is_qualifying(id) return true end`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	s.Close()
	s.Close()

	if _, err := s.IsQualifying("x"); err == nil {
		t.Error("IsQualifying after Close error = nil, want error")
	}
}
