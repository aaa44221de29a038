// Package command provides the command registry, parser, and built-in
// command definitions.
package command

// Categories for organizing commands in help output.
const (
	CategoryMovement      = "movement"
	CategoryWorld         = "world"
	CategoryCombat        = "combat"
	CategoryCommunication = "communication"
	CategorySystem        = "system"
	CategoryAdmin         = "admin"
)

// Handler identifiers mapping commands to game facade handlers.
const (
	HandlerMove      = "move"
	HandlerLook      = "look"
	HandlerExits     = "exits"
	HandlerSheet     = "sheet"
	HandlerInventory = "inventory"
	HandlerGet       = "get"
	HandlerDrop      = "drop"
	HandlerEquip     = "equip"
	HandlerRemove    = "remove"
	HandlerKill      = "kill"
	HandlerFlee      = "flee"
	HandlerSay       = "say"
	HandlerWho       = "who"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
	HandlerReload    = "reload"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for help output.
	Category string
	// Handler names the game facade handler for this command.
	Handler string
	// Free marks informational commands that never spend the cycle action.
	Free bool
	// AdminOnly restricts the command to admin-role accounts.
	AdminOnly bool
	// BlockedInCombat rejects the command while the player is fighting,
	// before the cycle action is spent.
	BlockedInCombat bool
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		// Movement
		{Name: "north", Aliases: []string{"n"}, Help: "Move north", Category: CategoryMovement, Handler: HandlerMove, BlockedInCombat: true},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south", Category: CategoryMovement, Handler: HandlerMove, BlockedInCombat: true},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east", Category: CategoryMovement, Handler: HandlerMove, BlockedInCombat: true},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west", Category: CategoryMovement, Handler: HandlerMove, BlockedInCombat: true},
		{Name: "up", Aliases: []string{"u"}, Help: "Move up", Category: CategoryMovement, Handler: HandlerMove, BlockedInCombat: true},
		{Name: "down", Aliases: []string{"d"}, Help: "Move down", Category: CategoryMovement, Handler: HandlerMove, BlockedInCombat: true},

		// World
		{Name: "look", Aliases: []string{"l"}, Help: "Look around the current room", Category: CategoryWorld, Handler: HandlerLook, Free: true},
		{Name: "exits", Aliases: nil, Help: "List available exits", Category: CategoryWorld, Handler: HandlerExits, Free: true},
		{Name: "get", Aliases: []string{"g", "take"}, Help: "Pick up an item from the floor (get <item>)", Category: CategoryWorld, Handler: HandlerGet, BlockedInCombat: true},
		{Name: "drop", Aliases: nil, Help: "Drop a carried item (drop <item>)", Category: CategoryWorld, Handler: HandlerDrop, BlockedInCombat: true},

		// Combat
		{Name: "kill", Aliases: []string{"k", "attack"}, Help: "Attack a creature (kill <name>)", Category: CategoryCombat, Handler: HandlerKill},
		{Name: "flee", Aliases: []string{"run"}, Help: "Disengage from combat", Category: CategoryCombat, Handler: HandlerFlee},
		{Name: "equip", Aliases: []string{"eq", "wear", "wield"}, Help: "Equip an item (equip <item> [slot])", Category: CategoryCombat, Handler: HandlerEquip},
		{Name: "remove", Aliases: []string{"rem"}, Help: "Remove an equipped item (remove <slot>)", Category: CategoryCombat, Handler: HandlerRemove},

		// Character
		{Name: "sheet", Aliases: []string{"sc", "stats"}, Help: "Show your character sheet", Category: CategorySystem, Handler: HandlerSheet, Free: true},
		{Name: "inventory", Aliases: []string{"i", "inv"}, Help: "Show carried items", Category: CategorySystem, Handler: HandlerInventory, Free: true},

		// Communication
		{Name: "say", Aliases: nil, Help: "Say something to the room", Category: CategoryCommunication, Handler: HandlerSay, Free: true},
		{Name: "who", Aliases: nil, Help: "List connected players", Category: CategoryCommunication, Handler: HandlerWho, Free: true},

		// System
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp, Free: true},
		{Name: "quit", Aliases: []string{"exit"}, Help: "Disconnect from the game", Category: CategorySystem, Handler: HandlerQuit, Free: true},

		// Admin
		{Name: "reload", Aliases: nil, Help: "Reload world and item content (admin only)", Category: CategoryAdmin, Handler: HandlerReload, AdminOnly: true},
	}
}

// IsMovementCommand reports whether the command name is a movement direction.
func IsMovementCommand(name string) bool {
	switch name {
	case "north", "south", "east", "west", "up", "down":
		return true
	default:
		return false
	}
}
