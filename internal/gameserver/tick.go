package gameserver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ironvale/mud/internal/game/creature"
	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/session"
	"github.com/ironvale/mud/internal/game/world"
)

// RunTicks drives the world simulation: one Tick per interval until ctx is
// cancelled. A panicking tick is logged and the loop keeps running; the
// world never stops.
//
// Precondition: interval > 0.
func (g *Game) RunTicks(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.safeTick()
			}
		}
	}()
}

func (g *Game) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("world tick panicked", zap.Any("panic", r))
		}
	}()
	g.Tick()
}

// Tick runs one simulation cycle over every room: creature respawn, item
// respawn, aggro acquisition, then the combat exchange for engaged
// creatures. The tick counter advances once per cycle and drives effect
// expiry.
func (g *Game) Tick() {
	g.stateMu.Lock()
	defer g.stateMu.Unlock()

	g.tick++
	now := g.clock.Now()

	for _, room := range g.world.Rooms() {
		g.respawnCreaturesLocked(room, now)
		g.respawnItemsLocked(room, now)
		g.acquireAggroLocked(room)
		g.exchangeCombatLocked(room)
	}
}

// respawnCreaturesLocked drains matured creature ledger entries, replacing
// each as long as the room's live count stays under the definition count.
// Entries that cannot produce a replacement this tick go back on the ledger
// and are retried next tick.
func (g *Game) respawnCreaturesLocked(room *world.Room, now time.Time) {
	for _, entry := range g.tracker.DueCreatures(room.ID, now) {
		spawn, ok := room.CreatureSpawnFor(entry.BlueprintID)
		if !ok || g.creatures.CountAlive(room.ID, entry.BlueprintID) >= spawn.Count {
			g.tracker.RequeueCreature(room.ID, entry)
			continue
		}
		bp, ok := g.bestiary.Blueprint(entry.BlueprintID)
		if !ok {
			g.tracker.RequeueCreature(room.ID, entry)
			continue
		}
		inst, err := g.creatures.Spawn(bp, room.ID)
		if err != nil {
			g.logger.Error("respawning creature", zap.Error(err))
			g.tracker.RequeueCreature(room.ID, entry)
			continue
		}
		g.broadcastToRoom(room.ID, fmt.Sprintf("%s arrives.", inst.Name), "")
	}
}

// respawnItemsLocked drains matured item ledger entries, topping the floor
// back up to the definition quantity with one new stack per entry. An entry
// drained while the floor is already full goes back on the ledger.
func (g *Game) respawnItemsLocked(room *world.Room, now time.Time) {
	for _, entry := range g.tracker.DueItems(room.ID, now) {
		missing := entry.Spawn.Quantity - g.floor.CountInRoom(room.ID, entry.Spawn.Blueprint)
		if missing <= 0 {
			g.tracker.RequeueItem(room.ID, entry)
			continue
		}
		fi := item.NewInstance(entry.Spawn.Blueprint, missing)
		g.floor.Drop(room.ID, fi)
		g.broadcastToRoom(room.ID, fmt.Sprintf("%s appears on the ground.", fi.DisplayName(g.items)), "")
	}
}

// acquireAggroLocked makes every unengaged aggressive creature pick the
// first living participant present and enter combat with them.
func (g *Game) acquireAggroLocked(room *world.Room) {
	uids := g.sessions.UIDsInRoom(room.ID)
	if len(uids) == 0 {
		return
	}

	for _, inst := range g.creatures.AliveInRoom(room.ID) {
		if !inst.Aggressive || inst.InCombat {
			continue
		}
		for _, uid := range uids {
			sess, ok := g.sessions.Get(uid)
			if !ok || !sess.Participant.Alive() {
				continue
			}
			g.engageLocked(sess.Participant, inst)
			g.sendLines(sess, fmt.Sprintf("%s snarls and moves to attack you!", inst.Name))
			g.broadcastToRoom(room.ID, fmt.Sprintf("%s moves to attack %s!", inst.Name, sess.Participant.Name), uid)
			break
		}
	}
}

// exchangeCombatLocked runs one attack for each engaged creature in the
// room against its target, after ticking its timed effects.
func (g *Game) exchangeCombatLocked(room *world.Room) {
	for _, inst := range g.creatures.AliveInRoom(room.ID) {
		if !g.roster.Contains(inst.ID) {
			continue
		}
		for _, kind := range inst.TickEffects(g.tick) {
			g.broadcastToRoom(room.ID, fmt.Sprintf("The %s effect on %s wears off.", kind, inst.Name), "")
		}

		sess, ok := g.sessions.Get(inst.TargetID)
		if !ok || sess.Participant.RoomID != room.ID || !sess.Participant.Alive() {
			g.releaseCreatureLocked(inst)
			continue
		}

		lines := g.resolver.Resolve(inst, sess.Participant, nil)
		g.deliverCombatLines(room.ID, lines)

		if !sess.Participant.Alive() {
			g.releaseCreatureLocked(inst)
			g.handleParticipantDefeatLocked(sess)
		}
	}
}

// releaseCreatureLocked drops a creature out of combat when its target is
// gone or down.
func (g *Game) releaseCreatureLocked(inst *creature.Instance) {
	inst.InCombat = false
	inst.TargetID = ""
	g.roster.Remove(inst.ID)
}

// handleParticipantDefeatLocked returns a downed participant to the start
// room at full health.
func (g *Game) handleParticipantDefeatLocked(sess *session.Session) {
	p := sess.Participant
	start := g.world.StartRoom()
	if start == nil {
		return
	}

	oldRoomID := p.RoomID
	if _, err := g.sessions.Move(p.UID, start.ID); err != nil {
		g.logger.Warn("relocating defeated participant", zap.String("uid", p.UID), zap.Error(err))
		return
	}
	p.Heal(p.MaxHP)
	g.broadcastToRoom(oldRoomID, fmt.Sprintf("%s collapses and fades away.", p.Name), p.UID)
	g.sendLines(sess, "Everything goes dark...", fmt.Sprintf("You awaken in %s, whole again.", start.Title))
}

// CurrentTick returns the current tick counter. Effects are stamped against
// it when applied.
func (g *Game) CurrentTick() int64 {
	g.stateMu.Lock()
	defer g.stateMu.Unlock()
	return g.tick
}
