// Package hook runs optional Lua style hooks.
//
// A hook script defines tag_color(tag) returning a hex color token, letting
// a style pack compute per-tag colors instead of listing them. Hooks run in
// a sandboxed Lua state (no io, os, or module loading) and are resolved
// before export starts, so the pipeline itself stays pure.
package hook

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Errors returned by hook execution.
var (
	ErrClosed     = errors.New("hook state closed")
	ErrNoFunction = errors.New("hook defines no tag_color function")
)

// tagColorFn is the function a hook script must define.
const tagColorFn = "tag_color"

// Hook wraps a sandboxed Lua state holding one loaded style script.
//
// gopher-lua states are not goroutine-safe; the mutex serializes calls so a
// Hook may be shared across export goroutines.
type Hook struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

// Load compiles and runs a hook script from path.
func Load(path string) (*Hook, error) {
	h := newHook()
	if err := h.state.DoFile(path); err != nil {
		h.state.Close()
		return nil, fmt.Errorf("loading style hook %s: %w", path, err)
	}
	return h.checkScript()
}

// LoadString compiles and runs hook source directly. Tests use this.
func LoadString(src string) (*Hook, error) {
	h := newHook()
	if err := h.state.DoString(src); err != nil {
		h.state.Close()
		return nil, fmt.Errorf("loading style hook: %w", err)
	}
	return h.checkScript()
}

func newHook() *Hook {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Base plus the pure stdlib only: no io, os, debug, or package, so a
	// hook cannot touch the system or load modules.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	return &Hook{state: L}
}

func (h *Hook) checkScript() (*Hook, error) {
	if h.state.GetGlobal(tagColorFn).Type() != lua.LTFunction {
		h.state.Close()
		return nil, ErrNoFunction
	}
	return h, nil
}

// TagColor calls the script's tag_color with the given tag. An empty return
// value means the hook declines and the caller keeps its current color.
func (h *Hook) TagColor(tag string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", ErrClosed
	}

	fn := h.state.GetGlobal(tagColorFn)
	if err := h.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(tag)); err != nil {
		return "", fmt.Errorf("tag_color(%q): %w", tag, err)
	}
	ret := h.state.Get(-1)
	h.state.Pop(1)

	switch ret.Type() {
	case lua.LTNil:
		return "", nil
	case lua.LTString:
		return string(ret.(lua.LString)), nil
	default:
		return "", fmt.Errorf("tag_color(%q) returned %s, want string or nil", tag, ret.Type())
	}
}

// Close releases the Lua state.
func (h *Hook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.state.Close()
		h.closed = true
	}
}
