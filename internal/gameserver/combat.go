package gameserver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ironvale/mud/internal/game/creature"
	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/player"
	"github.com/ironvale/mud/internal/game/session"
)

// handleKill engages the participant against a creature and resolves one
// immediate attack. The creature fights back on subsequent world ticks.
func (g *Game) handleKill(sess *session.Session, target string) {
	p := sess.Participant
	target = strings.TrimSpace(target)
	if target == "" {
		g.sendLines(sess, "Kill what?")
		return
	}

	g.stateMu.Lock()
	defer g.stateMu.Unlock()

	inst := g.creatures.FindInRoom(p.RoomID, target)
	if inst == nil {
		g.sendLines(sess, fmt.Sprintf("You see no %q here.", target))
		return
	}

	g.engageLocked(p, inst)

	lines := g.resolver.Resolve(p, inst, nil)
	g.deliverCombatLines(p.RoomID, lines)
	if !inst.Alive() {
		g.creatureDefeatedLocked(sess, inst)
	}
}

// handleFlee disengages the participant from combat and releases every
// creature that was targeting them.
func (g *Game) handleFlee(sess *session.Session) {
	p := sess.Participant

	g.stateMu.Lock()
	defer g.stateMu.Unlock()

	if !p.InCombat {
		g.sendLines(sess, "You are not fighting anything.")
		return
	}

	g.disengageLocked(p)
	g.sendLines(sess, "You back away from the fight.")
	g.broadcastToRoom(p.RoomID, fmt.Sprintf("%s backs away from the fight.", p.Name), p.UID)
}

// engageLocked sets the mutual combat flags and registers the creature in
// the roster.
//
// Precondition: stateMu is held; inst.Alive().
func (g *Game) engageLocked(p *player.Participant, inst *creature.Instance) {
	p.InCombat = true
	p.TargetID = inst.ID
	inst.InCombat = true
	inst.TargetID = p.UID
	g.roster.Add(inst.ID)
}

// disengageLocked clears the participant's combat flags and releases every
// creature in the room that was targeting them.
//
// Precondition: stateMu is held.
func (g *Game) disengageLocked(p *player.Participant) {
	p.InCombat = false
	p.TargetID = ""
	for _, inst := range g.creatures.InstancesInRoom(p.RoomID) {
		if inst.TargetID == p.UID {
			inst.InCombat = false
			inst.TargetID = ""
			g.roster.Remove(inst.ID)
		}
	}
}

// creatureDefeatedLocked settles a creature kill: experience, loot, the
// respawn ledger entry, the death hook, and removal from the live set.
//
// Precondition: stateMu is held; inst is dead.
func (g *Game) creatureDefeatedLocked(sess *session.Session, inst *creature.Instance) {
	p := sess.Participant
	roomID := inst.RoomID

	if p.TargetID == inst.ID {
		p.InCombat = false
		p.TargetID = ""
	}
	g.roster.Remove(inst.ID)

	if inst.XPValue > 0 {
		gained := p.AddXP(inst.XPValue, g.rules, g.items)
		g.sendLines(sess, fmt.Sprintf("You gain %d experience.", inst.XPValue))
		if gained > 0 {
			g.sendLines(sess, fmt.Sprintf("You are now level %d! You feel restored.", p.Level))
			g.broadcastToRoom(roomID, fmt.Sprintf("%s glows briefly with new strength.", p.Name), p.UID)
		}
	}

	if inst.Loot != nil {
		for _, drop := range creature.GenerateLoot(*inst.Loot, g.src) {
			if _, ok := g.items.Blueprint(drop.BlueprintID); !ok {
				g.logger.Warn("loot references unknown item blueprint",
					zap.String("creature", inst.BlueprintID),
					zap.String("item", drop.BlueprintID),
				)
				continue
			}
			fi := item.NewInstance(drop.BlueprintID, drop.Quantity)
			g.floor.Drop(roomID, fi)
			g.broadcastToRoom(roomID, fmt.Sprintf("%s drops %s.", inst.Name, fi.DisplayName(g.items)), "")
		}
	}

	if room, ok := g.world.GetRoom(roomID); ok {
		if spawn, ok := room.CreatureSpawnFor(inst.BlueprintID); ok {
			g.tracker.RecordCreatureDeath(roomID, inst.BlueprintID, g.clock.Now(), spawn.Delay())
		}
	}

	if g.scripts != nil {
		if room, ok := g.world.GetRoom(roomID); ok {
			if line, ok := g.scripts.OnCreatureDeath(room.ZoneID, inst.Name); ok {
				g.broadcastToRoom(roomID, line, "")
			}
		}
	}

	if err := g.creatures.Remove(inst.ID); err != nil {
		g.logger.Warn("removing defeated creature", zap.String("id", inst.ID), zap.Error(err))
	}
}

// deliverCombatLines sends combat narration to everyone in the room.
func (g *Game) deliverCombatLines(roomID string, lines []string) {
	for _, line := range lines {
		g.broadcastToRoom(roomID, line, "")
	}
}
