package gameserver

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ironvale/mud/internal/game/command"
	"github.com/ironvale/mud/internal/game/player"
	"github.com/ironvale/mud/internal/game/session"
	"github.com/ironvale/mud/internal/game/world"
)

// Dispatch handles one input line from a connected session: it begins a new
// action cycle, parses the line, and routes to the named handler. Errors in a
// handler are reported to the session only; the loop continues. Returns
// ErrQuit when the player disconnects on purpose.
//
// Precondition: sess is a registered session.
func (g *Game) Dispatch(sess *session.Session, line string) error {
	p := sess.Participant
	p.BeginCycle()

	parsed := command.Parse(line)
	if parsed.Command == "" {
		return nil
	}

	cmd, ok := g.commands.Resolve(parsed.Command)
	if !ok {
		g.sendLines(sess, fmt.Sprintf("Unknown command: %q. Type 'help' for a list.", parsed.Command))
		return nil
	}
	if cmd.AdminOnly && sess.Role != "admin" {
		g.sendLines(sess, "You lack the authority for that.")
		return nil
	}

	if !p.Alive() && cmd.Handler != command.HandlerQuit && cmd.Handler != command.HandlerLook && cmd.Handler != command.HandlerSheet {
		g.sendLines(sess, "You are in no condition to act.")
		return nil
	}

	// Combat-blocked commands are rejected before the action is spent, so a
	// refused move never costs the cycle.
	if p.InCombat && cmd.BlockedInCombat {
		g.sendLines(sess, combatBlockLine(cmd.Handler))
		return nil
	}

	if !cmd.Free {
		if err := p.SpendAction(); err != nil {
			if errors.Is(err, player.ErrAlreadyActed) {
				g.sendLines(sess, "You have already acted this turn.")
				return nil
			}
			return err
		}
	}

	switch cmd.Handler {
	case command.HandlerMove:
		g.handleMove(sess, world.Direction(cmd.Name))
	case command.HandlerLook:
		g.sendRoomView(sess)
	case command.HandlerExits:
		g.handleExits(sess)
	case command.HandlerSheet:
		g.handleSheet(sess)
	case command.HandlerInventory:
		g.handleInventory(sess)
	case command.HandlerGet:
		g.handleGet(sess, parsed.RawArgs)
	case command.HandlerDrop:
		g.handleDrop(sess, parsed.RawArgs)
	case command.HandlerEquip:
		g.handleEquip(sess, parsed.Args)
	case command.HandlerRemove:
		g.handleRemove(sess, parsed.RawArgs)
	case command.HandlerKill:
		g.handleKill(sess, parsed.RawArgs)
	case command.HandlerFlee:
		g.handleFlee(sess)
	case command.HandlerSay:
		g.handleSay(sess, parsed.RawArgs)
	case command.HandlerWho:
		g.handleWho(sess)
	case command.HandlerHelp:
		g.handleHelp(sess)
	case command.HandlerReload:
		g.handleReload(sess)
	case command.HandlerQuit:
		g.sendLines(sess, "Farewell.")
		return ErrQuit
	default:
		g.sendLines(sess, "That does nothing yet.")
	}
	return nil
}

// combatBlockLine picks the refusal line for a command rejected mid-fight.
func combatBlockLine(handler string) string {
	switch handler {
	case command.HandlerGet:
		return "You are too busy fighting to pick things up."
	case command.HandlerDrop:
		return "You are too busy fighting to drop things."
	default:
		return "You cannot walk away from a fight. Try 'flee'."
	}
}

func (g *Game) handleExits(sess *session.Session) {
	room, ok := g.world.GetRoom(sess.Participant.RoomID)
	if !ok {
		g.sendLines(sess, "You are nowhere.")
		return
	}
	g.sendLines(sess, g.exitLine(room))
}

func (g *Game) handleSay(sess *session.Session, text string) {
	if strings.TrimSpace(text) == "" {
		g.sendLines(sess, "Say what?")
		return
	}
	p := sess.Participant
	g.sendLines(sess, fmt.Sprintf("You say: %s", text))
	g.broadcastToRoom(p.RoomID, fmt.Sprintf("%s says: %s", p.Name, text), p.UID)
}

func (g *Game) handleWho(sess *session.Session) {
	all := g.sessions.All()
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, fmt.Sprintf("%s (level %d)", s.Participant.Name, s.Participant.Level))
	}
	sort.Strings(names)
	lines := []string{fmt.Sprintf("%d adventurer(s) online:", len(names))}
	lines = append(lines, names...)
	g.sendLines(sess, lines...)
}

func (g *Game) handleHelp(sess *session.Session) {
	byCategory := g.commands.CommandsByCategory()
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var lines []string
	for _, cat := range categories {
		lines = append(lines, strings.ToUpper(cat))
		cmds := byCategory[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
		for _, c := range cmds {
			alias := ""
			if len(c.Aliases) > 0 {
				alias = fmt.Sprintf(" (%s)", strings.Join(c.Aliases, ", "))
			}
			lines = append(lines, fmt.Sprintf("  %s%s - %s", c.Name, alias, c.Help))
		}
	}
	g.sendLines(sess, lines...)
}
