package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestEngine_OnCreatureDeath(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "hooks.lua", `
function on_creature_death(name)
    return "The spirit of the " .. name .. " fades into the mist."
end
`)

	e := NewEngine(zap.NewNop())
	require.NoError(t, e.LoadZone("village", dir, 0))
	defer e.Close()

	line, ok := e.OnCreatureDeath("village", "goblin")
	require.True(t, ok)
	assert.Equal(t, "The spirit of the goblin fades into the mist.", line)
}

func TestEngine_MissingHookIsSilent(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "empty.lua", `-- nothing here`)

	e := NewEngine(zap.NewNop())
	require.NoError(t, e.LoadZone("village", dir, 0))
	defer e.Close()

	_, ok := e.OnCreatureDeath("village", "goblin")
	assert.False(t, ok)

	_, ok = e.OnCreatureDeath("unknown-zone", "goblin")
	assert.False(t, ok, "no VM at all is also silent")
}

func TestEngine_GlobalFallback(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "shared.lua", `
function on_creature_death(name)
    return name .. " is no more."
end
`)

	e := NewEngine(zap.NewNop())
	require.NoError(t, e.LoadGlobal(dir, 0))
	defer e.Close()

	line, ok := e.OnCreatureDeath("any-zone", "rat")
	require.True(t, ok)
	assert.Equal(t, "rat is no more.", line)
}

func TestEngine_RuntimeErrorDoesNotPropagate(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `
function on_creature_death(name)
    error("boom")
end
`)

	e := NewEngine(zap.NewNop())
	require.NoError(t, e.LoadZone("village", dir, 0))
	defer e.Close()

	_, ok := e.OnCreatureDeath("village", "goblin")
	assert.False(t, ok)
}

func TestEngine_SayModule(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "say.lua", `
function on_creature_death(name)
    engine.say("A bell tolls somewhere far away.")
    return nil
end
`)

	e := NewEngine(zap.NewNop())
	var said []string
	e.Say = func(msg string) { said = append(said, msg) }
	require.NoError(t, e.LoadZone("village", dir, 0))
	defer e.Close()

	e.OnCreatureDeath("village", "goblin")
	assert.Equal(t, []string{"A bell tolls somewhere far away."}, said)
}

func TestEngine_LoadErrors(t *testing.T) {
	e := NewEngine(zap.NewNop())
	assert.Error(t, e.LoadZone("z", "/does/not/exist", 0))

	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", `function (`)
	assert.Error(t, e.LoadZone("z", dir, 0))
}

func TestSandbox_DangerousGlobalsRemoved(t *testing.T) {
	L, cancel := NewSandboxedState(0)
	defer cancel()
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "global %q should be stripped", name)
	}
}

func TestSandbox_InstructionLimit(t *testing.T) {
	L, cancel := NewSandboxedState(1000)
	defer cancel()
	defer L.Close()

	err := L.DoString(`while true do end`)
	assert.Error(t, err, "unbounded loop must be cut off by the opcode limit")
}
