package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// globalZoneID is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no zone VM is found.
const globalZoneID = "__global__"

// hookCreatureDeath is the Lua global invoked when a creature dies.
const hookCreatureDeath = "on_creature_death"

// Engine owns one sandboxed LState per zone and exposes hook dispatch.
//
// Engine is safe for concurrent CallHook after all LoadZone calls complete.
// Each zone's LState is single-threaded; the mutex serializes hook calls.
type Engine struct {
	mu      sync.Mutex
	states  map[string]*lua.LState
	cancels map[string]func()
	logger  *zap.Logger

	// Say is injected after construction. Scripts call engine.say(msg) to
	// queue a room broadcast; nil makes it a no-op.
	Say func(msg string)
}

// NewEngine creates an Engine with no loaded zones.
//
// Precondition: logger must be non-nil.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]func()),
		logger:  logger,
	}
}

// LoadZone creates a sandboxed VM for zoneID, registers the engine module,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: zoneID must be non-empty; scriptDir must be a readable directory.
// Postcondition: Zone VM is registered; returns error on Lua load failure.
func (e *Engine) LoadZone(zoneID, scriptDir string, instLimit int) error {
	return e.loadInto(zoneID, scriptDir, instLimit)
}

// LoadGlobal creates the shared fallback VM usable from any zone.
//
// Precondition: scriptDir must be a readable directory.
func (e *Engine) LoadGlobal(scriptDir string, instLimit int) error {
	return e.loadInto(globalZoneID, scriptDir, instLimit)
}

func (e *Engine) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	e.registerModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, entry.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	e.mu.Lock()
	if old, ok := e.states[key]; ok {
		if oldCancel := e.cancels[key]; oldCancel != nil {
			oldCancel()
		}
		old.Close()
	}
	e.states[key] = L
	e.cancels[key] = cancel
	e.mu.Unlock()
	return nil
}

// registerModules installs the engine.* Lua table into L.
func (e *Engine) registerModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "say", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if e.Say != nil {
			e.Say(msg)
		}
		return 0
	}))
	L.SetGlobal("engine", engine)
}

// CallHook calls the named Lua global function in zoneID's VM. If the zone
// has no VM, the global VM is tried as a fallback. Returns (LNil, false) if
// the hook is not defined or no VM exists. Lua runtime errors are logged at
// Warn level and never propagated; a failing script must not stop the tick.
//
// Postcondition: Returns the first return value of the hook and whether the
// hook ran successfully.
func (e *Engine) CallHook(zoneID, hook string, args ...lua.LValue) (lua.LValue, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	L, ok := e.states[zoneID]
	if !ok {
		L = e.states[globalZoneID]
	}
	if L == nil {
		return lua.LNil, false
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, false
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.logger.Warn("scripting: Lua runtime error",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, false
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, true
}

// OnCreatureDeath fires the creature-death hook for a zone and returns the
// flavor line it produced, if any.
//
// Postcondition: ok is true iff the hook ran and returned a string.
func (e *Engine) OnCreatureDeath(zoneID, creatureName string) (string, bool) {
	ret, ok := e.CallHook(zoneID, hookCreatureDeath, lua.LString(creatureName))
	if !ok {
		return "", false
	}
	s, isString := ret.(lua.LString)
	if !isString {
		return "", false
	}
	return string(s), true
}

// Close shuts down every loaded VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, L := range e.states {
		if cancel := e.cancels[key]; cancel != nil {
			cancel()
		}
		L.Close()
	}
	e.states = make(map[string]*lua.LState)
	e.cancels = make(map[string]func())
}
