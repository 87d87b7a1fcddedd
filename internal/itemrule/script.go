package itemrule

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

// RuleFunction is the global the rule script must define.
const RuleFunction = "is_qualifying"

// ErrNoRuleFunction is returned when a script does not define is_qualifying.
var ErrNoRuleFunction = errors.New("script does not define " + RuleFunction)

// Script holds a Lua VM with a loaded rule. Calls are serialized on an internal mutex
// because an LState must never be used from two goroutines at once.
type Script struct {
	mu sync.Mutex
	L  *lua.LState
	fn *lua.LFunction
}

// LoadScript loads a rule script from a file.
func LoadScript(path string) (*Script, error) {
	log.Info().Str("path", path).Msg("Loading item rule script")
	return newScript(func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadString loads a rule script from source text.
func LoadString(source string) (*Script, error) {
	return newScript(func(L *lua.LState) error { return L.DoString(source) })
}

func newScript(load func(L *lua.LState) error) (*Script, error) {
	L := lua.NewState()
	L.PreloadModule("log", NewLogModule().Loader)
	L.SetGlobal("contains", L.NewFunction(luaContains))

	if err := load(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to execute item rule script: %w", err)
	}

	fn, ok := L.GetGlobal(RuleFunction).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoRuleFunction
	}

	return &Script{L: L, fn: fn}, nil
}

// IsQualifying calls is_qualifying(item_id) and returns its truthiness.
func (s *Script) IsQualifying(itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.L == nil {
		return false, errors.New("item rule script closed")
	}

	if err := s.L.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(itemID)); err != nil {
		return false, fmt.Errorf("%s(%q): %w", RuleFunction, itemID, err)
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	return lua.LVAsBool(ret), nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L != nil {
		s.L.Close()
		s.L = nil
	}
}

// contains(s, sub) is a case-insensitive substring test for rule scripts.
func luaContains(L *lua.LState) int {
	s := strings.ToLower(L.CheckString(1))
	sub := strings.ToLower(L.CheckString(2))
	L.Push(lua.LBool(strings.Contains(s, sub)))
	return 1
}
