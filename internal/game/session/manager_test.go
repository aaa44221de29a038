package session_test

import (
	"testing"

	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/player"
	"github.com/ironvale/mud/internal/game/ruleset"
	"github.com/ironvale/mud/internal/game/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	lines []string
}

func (r *recordingSender) Send(line string) error {
	r.lines = append(r.lines, line)
	return nil
}

func newParticipant(t *testing.T, uid, name, roomID string) *player.Participant {
	t.Helper()
	rules := ruleset.NewRegistry()
	rules.RegisterClass(&ruleset.Class{ID: "fighter", Name: "Fighter", HitDie: 10})
	rules.RegisterRace(&ruleset.Race{ID: "human", Name: "Human"})
	p, err := player.New(uid, name, "fighter", "human", rules, item.NewRegistry())
	require.NoError(t, err)
	p.RoomID = roomID
	return p
}

func TestManager_AddAndGet(t *testing.T) {
	m := session.NewManager()
	p := newParticipant(t, "u1", "Aldric", "square")

	sess, err := m.Add(p, "aldric", 7, "player", &recordingSender{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.CharacterID)

	got, ok := m.Get("u1")
	require.True(t, ok)
	assert.Same(t, sess, got)

	byName, ok := m.GetByName("Aldric")
	require.True(t, ok)
	assert.Same(t, sess, byName)

	_, err = m.Add(p, "aldric", 7, "player", nil)
	assert.Error(t, err, "double connect is rejected")
	assert.Equal(t, 1, m.Count())
}

func TestManager_RoomOccupancy(t *testing.T) {
	m := session.NewManager()
	_, err := m.Add(newParticipant(t, "u1", "Aldric", "square"), "a", 1, "player", nil)
	require.NoError(t, err)
	_, err = m.Add(newParticipant(t, "u2", "Brunhilda", "square"), "b", 2, "player", nil)
	require.NoError(t, err)
	_, err = m.Add(newParticipant(t, "u3", "Corin", "cellar"), "c", 3, "player", nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"u1", "u2"}, m.UIDsInRoom("square"))
	assert.ElementsMatch(t, []string{"Aldric", "Brunhilda"}, m.NamesInRoom("square"))
	assert.Empty(t, m.UIDsInRoom("nowhere"))
}

func TestManager_Move(t *testing.T) {
	m := session.NewManager()
	p := newParticipant(t, "u1", "Aldric", "square")
	_, err := m.Add(p, "a", 1, "player", nil)
	require.NoError(t, err)

	old, err := m.Move("u1", "cellar")
	require.NoError(t, err)
	assert.Equal(t, "square", old)
	assert.Equal(t, "cellar", p.RoomID)
	assert.Empty(t, m.UIDsInRoom("square"))
	assert.ElementsMatch(t, []string{"u1"}, m.UIDsInRoom("cellar"))

	_, err = m.Move("ghost", "cellar")
	assert.Error(t, err)
}

func TestManager_Remove(t *testing.T) {
	m := session.NewManager()
	_, err := m.Add(newParticipant(t, "u1", "Aldric", "square"), "a", 1, "player", nil)
	require.NoError(t, err)

	require.NoError(t, m.Remove("u1"))
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, m.UIDsInRoom("square"))
	assert.Error(t, m.Remove("u1"))
}

func TestSession_Send(t *testing.T) {
	m := session.NewManager()
	rec := &recordingSender{}
	sess, err := m.Add(newParticipant(t, "u1", "Aldric", "square"), "a", 1, "player", rec)
	require.NoError(t, err)

	require.NoError(t, sess.Send("You enter the square."))
	assert.Equal(t, []string{"You enter the square."}, rec.lines)

	nilSess, err := m.Add(newParticipant(t, "u2", "Brunhilda", "square"), "b", 2, "player", nil)
	require.NoError(t, err)
	assert.NoError(t, nilSess.Send("dropped"), "nil sender swallows output")
}
