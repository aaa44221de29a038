package gameserver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ironvale/mud/internal/game/creature"
	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/ruleset"
	"github.com/ironvale/mud/internal/game/session"
	"github.com/ironvale/mud/internal/game/world"
)

// handleReload reloads all content from disk and swaps it in: registries,
// world, and room populations. Connected participants stay online; their
// derived stats are recomputed against the fresh content and anyone standing
// in a room that no longer exists is moved to the start room. Any load error
// aborts the reload with the previous content untouched.
func (g *Game) handleReload(sess *session.Session) {
	rules, err := g.loadRuleset()
	if err != nil {
		g.sendLines(sess, fmt.Sprintf("Reload failed: %v", err))
		return
	}
	items, err := g.loadItems()
	if err != nil {
		g.sendLines(sess, fmt.Sprintf("Reload failed: %v", err))
		return
	}
	bestiary, err := g.loadBestiary()
	if err != nil {
		g.sendLines(sess, fmt.Sprintf("Reload failed: %v", err))
		return
	}
	zones, err := world.LoadZonesFromDir(g.paths.World)
	if err != nil {
		g.sendLines(sess, fmt.Sprintf("Reload failed: %v", err))
		return
	}

	g.stateMu.Lock()
	if err := g.world.Replace(zones); err != nil {
		g.stateMu.Unlock()
		g.sendLines(sess, fmt.Sprintf("Reload failed: %v", err))
		return
	}
	g.rules = rules
	g.items = items
	g.bestiary = bestiary
	g.floor = item.NewFloor(items)

	g.tracker.Reset()
	for _, room := range g.world.Rooms() {
		g.populateRoomLocked(room)
	}

	start := g.world.StartRoom()
	for _, s := range g.sessions.All() {
		p := s.Participant
		g.disengageLocked(p)
		if _, ok := g.world.GetRoom(p.RoomID); !ok && start != nil {
			if _, err := g.sessions.Move(p.UID, start.ID); err != nil {
				g.logger.Warn("relocating participant after reload",
					zap.String("uid", p.UID), zap.Error(err))
			}
			g.sendLines(s, fmt.Sprintf("The world shifts around you. You find yourself in %s.", start.Title))
		}
		if err := p.Recalculate(g.rules, g.items); err != nil {
			g.logger.Error("recomputing participant after reload",
				zap.String("uid", p.UID), zap.Error(err))
		}
	}
	g.stateMu.Unlock()

	g.logger.Info("content reloaded",
		zap.Int("rooms", g.world.RoomCount()),
		zap.Int("items", len(items.All())),
		zap.Int("creatures", len(bestiary.All())),
	)
	g.sendLines(sess, "Content reloaded. The world has been repopulated.")
}

func (g *Game) loadRuleset() (*ruleset.Registry, error) {
	classes, err := ruleset.LoadClasses(g.paths.Classes)
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}
	races, err := ruleset.LoadRaces(g.paths.Races)
	if err != nil {
		return nil, fmt.Errorf("loading races: %w", err)
	}
	rules := ruleset.NewRegistry()
	for _, c := range classes {
		rules.RegisterClass(c)
	}
	for _, r := range races {
		rules.RegisterRace(r)
	}
	return rules, nil
}

func (g *Game) loadItems() (*item.Registry, error) {
	blueprints, err := item.LoadBlueprints(g.paths.Items, g.logger)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	reg := item.NewRegistry()
	for _, b := range blueprints {
		if err := reg.Register(b); err != nil {
			g.logger.Warn("skipping duplicate item blueprint", zap.String("id", b.ID))
		}
	}
	return reg, nil
}

func (g *Game) loadBestiary() (*creature.Registry, error) {
	blueprints, err := creature.LoadBlueprints(g.paths.Creatures, g.logger)
	if err != nil {
		return nil, fmt.Errorf("loading creatures: %w", err)
	}
	reg := creature.NewRegistry()
	for _, b := range blueprints {
		if err := reg.Register(b); err != nil {
			g.logger.Warn("skipping duplicate creature blueprint", zap.String("id", b.ID))
		}
	}
	return reg, nil
}
