// Package gameserver wires the game domain together: it owns the command
// dispatch for connected sessions, the world tick scheduler, and the
// serialization of all combat-state mutation.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ironvale/mud/internal/game/combat"
	"github.com/ironvale/mud/internal/game/command"
	"github.com/ironvale/mud/internal/game/creature"
	"github.com/ironvale/mud/internal/game/dice"
	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/player"
	"github.com/ironvale/mud/internal/game/respawn"
	"github.com/ironvale/mud/internal/game/ruleset"
	"github.com/ironvale/mud/internal/game/session"
	"github.com/ironvale/mud/internal/game/world"
	"github.com/ironvale/mud/internal/scripting"
)

// ErrQuit is returned by Dispatch when the player asked to disconnect.
var ErrQuit = errors.New("gameserver: player quit")

// Persister saves a participant's state. The game calls it on disconnect;
// a nil Persister disables persistence (used by tests).
type Persister interface {
	SavePlayer(ctx context.Context, sess *session.Session) error
}

// ContentPaths names the content directories the game loads from, kept for
// the admin reload.
type ContentPaths struct {
	Classes   string
	Races     string
	Items     string
	Creatures string
	World     string
}

// Game is the facade over the whole simulation. It owns the stateMu that
// serializes combat-state mutation: session goroutines and the tick goroutine
// both funnel through it, so participants and creature instances never need
// their own locks.
type Game struct {
	logger    *zap.Logger
	rules     *ruleset.Registry
	items     *item.Registry
	bestiary  *creature.Registry
	world     *world.Manager
	creatures *creature.Manager
	floor     *item.Floor
	sessions  *session.Manager
	roster    *combat.Roster
	tracker   *respawn.Tracker
	resolver  *combat.Resolver
	roller    *dice.Roller
	src       dice.Source
	commands  *command.Registry
	scripts   *scripting.Engine
	persister Persister
	paths     ContentPaths
	clock     Clock

	stateMu sync.Mutex
	tick    int64
}

// NewGame assembles a Game from loaded content.
//
// Precondition: logger, rules, items, bestiary, worldMgr, and src are
// non-nil. scripts and persister may be nil.
// Postcondition: the returned Game has empty rooms; call Populate to fill
// them from the world definitions.
func NewGame(
	logger *zap.Logger,
	rules *ruleset.Registry,
	items *item.Registry,
	bestiary *creature.Registry,
	worldMgr *world.Manager,
	src dice.Source,
	scripts *scripting.Engine,
	persister Persister,
	paths ContentPaths,
) *Game {
	roller := dice.NewLoggedRoller(src, logger)
	return &Game{
		logger:    logger,
		rules:     rules,
		items:     items,
		bestiary:  bestiary,
		world:     worldMgr,
		creatures: creature.NewManager(),
		floor:     item.NewFloor(items),
		sessions:  session.NewManager(),
		roster:    combat.NewRoster(),
		tracker:   respawn.NewTracker(),
		resolver:  combat.NewResolver(roller),
		roller:    roller,
		src:       src,
		commands:  command.DefaultRegistry(),
		scripts:   scripts,
		persister: persister,
		paths:     paths,
		clock:     systemClock{},
	}
}

// Sessions exposes the session manager for the transport layer.
func (g *Game) Sessions() *session.Manager {
	return g.sessions
}

// Rules exposes the ruleset registry for character creation.
func (g *Game) Rules() *ruleset.Registry {
	return g.rules
}

// Items exposes the item blueprint registry.
func (g *Game) Items() *item.Registry {
	return g.items
}

// World exposes the world manager.
func (g *Game) World() *world.Manager {
	return g.world
}

// Populate fills every room with the creatures and items its definitions
// name. Existing room contents are cleared first.
//
// Postcondition: each room holds its full definition counts; the respawn
// ledgers are empty.
func (g *Game) Populate() {
	g.stateMu.Lock()
	defer g.stateMu.Unlock()
	g.tracker.Reset()
	for _, room := range g.world.Rooms() {
		g.populateRoomLocked(room)
	}
}

func (g *Game) populateRoomLocked(room *world.Room) {
	g.creatures.ClearRoom(room.ID)
	g.floor.Clear(room.ID)
	for _, spawn := range room.CreatureSpawns {
		bp, ok := g.bestiary.Blueprint(spawn.Blueprint)
		if !ok {
			g.logger.Warn("room references unknown creature blueprint",
				zap.String("room", room.ID),
				zap.String("blueprint", spawn.Blueprint),
			)
			continue
		}
		for i := 0; i < spawn.Count; i++ {
			if _, err := g.creatures.Spawn(bp, room.ID); err != nil {
				g.logger.Error("spawning creature", zap.Error(err))
			}
		}
	}
	for _, spawn := range room.ItemSpawns {
		if _, ok := g.items.Blueprint(spawn.Blueprint); !ok {
			g.logger.Warn("room references unknown item blueprint",
				zap.String("room", room.ID),
				zap.String("blueprint", spawn.Blueprint),
			)
			continue
		}
		g.floor.Drop(room.ID, item.NewInstance(spawn.Blueprint, spawn.Quantity))
	}
}

// Join registers a connected participant, announces the arrival, and shows
// the starting room.
//
// Precondition: p is non-nil with a resolvable RoomID (falls back to the
// start room).
func (g *Game) Join(p *player.Participant, username string, characterID int64, role string, sender session.Sender) (*session.Session, error) {
	if _, ok := g.world.GetRoom(p.RoomID); !ok {
		start := g.world.StartRoom()
		if start == nil {
			return nil, fmt.Errorf("gameserver: world has no start room")
		}
		p.RoomID = start.ID
	}

	sess, err := g.sessions.Add(p, username, characterID, role, sender)
	if err != nil {
		return nil, err
	}

	g.logger.Info("participant joined",
		zap.String("uid", p.UID),
		zap.String("character", p.Name),
		zap.String("room", p.RoomID),
	)
	g.broadcastToRoom(p.RoomID, fmt.Sprintf("%s appears.", p.Name), p.UID)
	g.sendRoomView(sess)
	return sess, nil
}

// Leave cleans up after a disconnect: combat disengagement, deregistration,
// and persistence. Safe to call for sessions that already left.
func (g *Game) Leave(ctx context.Context, uid string) {
	sess, ok := g.sessions.Get(uid)
	if !ok {
		return
	}
	p := sess.Participant

	g.stateMu.Lock()
	g.disengageLocked(p)
	g.stateMu.Unlock()

	roomID := p.RoomID
	if err := g.sessions.Remove(uid); err != nil {
		g.logger.Warn("removing session", zap.String("uid", uid), zap.Error(err))
		return
	}
	g.broadcastToRoom(roomID, fmt.Sprintf("%s vanishes.", p.Name), uid)

	if g.persister != nil {
		if err := g.persister.SavePlayer(ctx, sess); err != nil {
			g.logger.Error("persisting character on disconnect",
				zap.String("uid", uid),
				zap.Error(err),
			)
		}
	}
	g.logger.Info("participant left", zap.String("uid", uid), zap.String("character", p.Name))
}

// broadcastToRoom sends line to every session in roomID except exceptUID.
func (g *Game) broadcastToRoom(roomID, line, exceptUID string) {
	for _, uid := range g.sessions.UIDsInRoom(roomID) {
		if uid == exceptUID {
			continue
		}
		if sess, ok := g.sessions.Get(uid); ok {
			if err := sess.Send(line); err != nil {
				g.logger.Debug("dropping undeliverable line", zap.String("uid", uid), zap.Error(err))
			}
		}
	}
}

// sendLines sends each line to the session, logging delivery failures.
func (g *Game) sendLines(sess *session.Session, lines ...string) {
	for _, line := range lines {
		if err := sess.Send(line); err != nil {
			g.logger.Debug("dropping undeliverable line",
				zap.String("uid", sess.Participant.UID),
				zap.Error(err),
			)
			return
		}
	}
}

// sendRoomView sends the full room description to the session.
func (g *Game) sendRoomView(sess *session.Session) {
	p := sess.Participant
	room, ok := g.world.GetRoom(p.RoomID)
	if !ok {
		g.sendLines(sess, "You are nowhere. Something is very wrong.")
		return
	}

	lines := []string{room.Title, room.Description}

	if exits := g.exitLine(room); exits != "" {
		lines = append(lines, exits)
	}
	for _, inst := range g.creatures.AliveInRoom(room.ID) {
		lines = append(lines, fmt.Sprintf("%s is here (%s).", inst.Name, inst.HealthDescription()))
	}
	for _, fi := range g.floor.ItemsInRoom(room.ID) {
		if fi.Quantity > 1 {
			lines = append(lines, fmt.Sprintf("%s (x%d) lies here.", fi.DisplayName(g.items), fi.Quantity))
		} else {
			lines = append(lines, fmt.Sprintf("%s lies here.", fi.DisplayName(g.items)))
		}
	}
	for _, name := range g.sessions.NamesInRoom(room.ID) {
		if name == p.Name {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s is here.", name))
	}
	g.sendLines(sess, lines...)
}

func (g *Game) exitLine(room *world.Room) string {
	visible := room.VisibleExits()
	if len(visible) == 0 {
		return "There are no obvious exits."
	}
	dirs := make([]string, 0, len(visible))
	for _, e := range visible {
		dirs = append(dirs, string(e.Direction))
	}
	sort.Strings(dirs)
	return "Exits: " + strings.Join(dirs, ", ")
}
