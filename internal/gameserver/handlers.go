package gameserver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/ruleset"
	"github.com/ironvale/mud/internal/game/session"
	"github.com/ironvale/mud/internal/game/world"
)

func (g *Game) handleMove(sess *session.Session, dir world.Direction) {
	p := sess.Participant
	dest, err := g.world.Navigate(p.RoomID, dir)
	if err != nil {
		g.sendLines(sess, fmt.Sprintf("You cannot go %s.", dir))
		return
	}

	oldRoomID, err := g.sessions.Move(p.UID, dest.ID)
	if err != nil {
		g.sendLines(sess, "Something holds you in place.")
		return
	}

	g.broadcastToRoom(oldRoomID, fmt.Sprintf("%s leaves %s.", p.Name, dir), p.UID)
	g.broadcastToRoom(dest.ID, fmt.Sprintf("%s arrives.", p.Name), p.UID)
	g.sendRoomView(sess)
}

func (g *Game) handleSheet(sess *session.Session) {
	p := sess.Participant
	class, _ := g.rules.Class(p.ClassID)
	race, _ := g.rules.Race(p.RaceID)
	className, raceName := p.ClassID, p.RaceID
	if class != nil {
		className = class.Name
	}
	if race != nil {
		raceName = race.Name
	}

	lines := []string{
		fmt.Sprintf("%s, level %d %s %s", p.Name, p.Level, raceName, className),
		fmt.Sprintf("HP: %d/%d  AC: %d  Proficiency: +%d", p.CurrentHP, p.MaxHP, p.ArmorClass, p.ProficiencyBonus),
		fmt.Sprintf("XP: %d (next level at %d)", p.XP, p.NextLevelXP),
	}

	abilities := make([]string, 0, len(ruleset.AllAbilities))
	for _, key := range ruleset.AllAbilities {
		abilities = append(abilities, fmt.Sprintf("%s %d", key, p.Ability(key)))
	}
	lines = append(lines, strings.Join(abilities, "  "))

	slots := make([]string, 0, len(p.Equipment))
	for slot := range p.Equipment {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		inst := p.Equipment[slot]
		if inst == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", slot, inst.DisplayName(g.items)))
	}
	g.sendLines(sess, lines...)
}

func (g *Game) handleInventory(sess *session.Session) {
	p := sess.Participant
	stacks := p.Inventory.Items()
	if len(stacks) == 0 {
		g.sendLines(sess, "You are carrying nothing.")
		return
	}
	lines := []string{fmt.Sprintf("You are carrying (%.1f lbs):", p.Inventory.Weight(g.items))}
	for _, inst := range stacks {
		if inst.Quantity > 1 {
			lines = append(lines, fmt.Sprintf("  %s (x%d)", inst.DisplayName(g.items), inst.Quantity))
		} else {
			lines = append(lines, fmt.Sprintf("  %s", inst.DisplayName(g.items)))
		}
	}
	g.sendLines(sess, lines...)
}

func (g *Game) handleGet(sess *session.Session, target string) {
	p := sess.Participant
	target = strings.TrimSpace(target)
	if target == "" {
		g.sendLines(sess, "Get what?")
		return
	}

	var taken item.Instance
	found := false
	for _, fi := range g.floor.ItemsInRoom(p.RoomID) {
		if g.floorMatches(fi, target) {
			taken, found = g.floor.Take(p.RoomID, target, fi.Quantity)
			break
		}
	}
	if !found {
		g.sendLines(sess, fmt.Sprintf("You see no %q here.", target))
		return
	}

	p.Inventory.Add(taken, g.items)
	g.sendLines(sess, fmt.Sprintf("You pick up %s.", taken.DisplayName(g.items)))
	g.broadcastToRoom(p.RoomID, fmt.Sprintf("%s picks up %s.", p.Name, taken.DisplayName(g.items)), p.UID)

	// The room's definition governs whether the pickup comes back later.
	if room, ok := g.world.GetRoom(p.RoomID); ok {
		if spawn, ok := room.ItemSpawnFor(taken.BlueprintID); ok {
			g.tracker.RecordItemRemoval(p.RoomID, spawn, g.clock.Now())
		}
	}
}

func (g *Game) floorMatches(inst item.Instance, query string) bool {
	q := strings.ToLower(query)
	if strings.HasPrefix(strings.ToLower(inst.BlueprintID), q) {
		return true
	}
	return strings.HasPrefix(strings.ToLower(inst.DisplayName(g.items)), q)
}

func (g *Game) handleDrop(sess *session.Session, target string) {
	p := sess.Participant
	target = strings.TrimSpace(target)
	if target == "" {
		g.sendLines(sess, "Drop what?")
		return
	}

	carried, ok := p.Inventory.Find(target, g.items)
	if !ok {
		g.sendLines(sess, fmt.Sprintf("You are not carrying %q.", target))
		return
	}
	dropped, err := p.Inventory.Remove(carried.BlueprintID, carried.Quantity)
	if err != nil {
		g.sendLines(sess, "You fumble and drop nothing.")
		return
	}

	g.floor.Drop(p.RoomID, dropped)
	g.sendLines(sess, fmt.Sprintf("You drop %s.", dropped.DisplayName(g.items)))
	g.broadcastToRoom(p.RoomID, fmt.Sprintf("%s drops %s.", p.Name, dropped.DisplayName(g.items)), p.UID)
}

func (g *Game) handleEquip(sess *session.Session, args []string) {
	p := sess.Participant
	if len(args) == 0 {
		g.sendLines(sess, "Equip what?")
		return
	}

	carried, ok := p.Inventory.Find(args[0], g.items)
	if !ok {
		g.sendLines(sess, fmt.Sprintf("You are not carrying %q.", args[0]))
		return
	}
	def, ok := g.items.Blueprint(carried.BlueprintID)
	if !ok || len(def.EquipSlots) == 0 {
		g.sendLines(sess, fmt.Sprintf("%s cannot be equipped.", carried.DisplayName(g.items)))
		return
	}

	slot := def.EquipSlots[0]
	if len(args) > 1 {
		slot = strings.ToLower(args[1])
	}

	inst, err := p.Inventory.Remove(carried.BlueprintID, 1)
	if err != nil {
		g.sendLines(sess, "You cannot get a grip on it.")
		return
	}

	displaced, err := p.Equip(slot, inst, g.rules, g.items)
	if err != nil {
		p.Inventory.Add(inst, g.items)
		g.sendLines(sess, fmt.Sprintf("You cannot equip that there: %v", err))
		return
	}
	if displaced != nil {
		p.Inventory.Add(*displaced, g.items)
		g.sendLines(sess, fmt.Sprintf("You swap out %s.", displaced.DisplayName(g.items)))
	}
	g.sendLines(sess, fmt.Sprintf("You equip %s (%s).", inst.DisplayName(g.items), slot))
}

func (g *Game) handleRemove(sess *session.Session, target string) {
	p := sess.Participant
	slot := strings.ToLower(strings.TrimSpace(target))
	if slot == "" {
		g.sendLines(sess, "Remove what? Name an equipment slot.")
		return
	}

	inst, err := p.Unequip(slot, g.rules, g.items)
	if err != nil {
		g.sendLines(sess, fmt.Sprintf("Nothing is equipped in %q.", slot))
		return
	}
	p.Inventory.Add(inst, g.items)
	g.sendLines(sess, fmt.Sprintf("You remove %s.", inst.DisplayName(g.items)))
}
