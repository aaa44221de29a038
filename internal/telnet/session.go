package telnet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ironvale/mud/internal/game/player"
	"github.com/ironvale/mud/internal/game/ruleset"
	"github.com/ironvale/mud/internal/gameserver"
	"github.com/ironvale/mud/internal/storage/postgres"
)

// AccountStore defines the account persistence operations required by Handler.
type AccountStore interface {
	Create(ctx context.Context, username, password string) (postgres.Account, error)
	Authenticate(ctx context.Context, username, password string) (postgres.Account, error)
}

// CharacterStore defines the character persistence operations required by Handler.
type CharacterStore interface {
	ListByAccount(ctx context.Context, accountID int64) ([]*postgres.CharacterRecord, error)
	Create(ctx context.Context, rec *postgres.CharacterRecord) (*postgres.CharacterRecord, error)
}

const welcomeBanner = `
` + Bold + BrightCyan + `
 ██╗██████╗  ██████╗ ███╗   ██╗██╗   ██╗ █████╗ ██╗     ███████╗
 ██║██╔══██╗██╔═══██╗████╗  ██║██║   ██║██╔══██╗██║     ██╔════╝
 ██║██████╔╝██║   ██║██╔██╗ ██║██║   ██║███████║██║     █████╗
 ██║██╔══██╗██║   ██║██║╚██╗██║╚██╗ ██╔╝██╔══██║██║     ██╔══╝
 ██║██║  ██║╚██████╔╝██║ ╚████║ ╚████╔╝ ██║  ██║███████╗███████╗
 ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝  ╚═══╝  ╚═╝  ╚═╝╚══════╝╚══════╝` + Reset + `

` + BrightYellow + `  A world of iron and embers.` + Reset + `

  Type ` + Green + `login <username> <password>` + Reset + ` to connect.
  Type ` + Green + `register <username> <password>` + Reset + ` to create an account.
  Type ` + Green + `quit` + Reset + ` to disconnect.
`

// Handler implements SessionHandler. It runs the authentication loop, the
// character screen, and finally bridges the connection into the game.
type Handler struct {
	game       *gameserver.Game
	accounts   AccountStore
	characters CharacterStore
	logger     *zap.Logger
}

// NewHandler creates a session Handler.
//
// Precondition: game, accounts, characters, and logger must be non-nil.
func NewHandler(game *gameserver.Game, accounts AccountStore, characters CharacterStore, logger *zap.Logger) *Handler {
	return &Handler{
		game:       game,
		accounts:   accounts,
		characters: characters,
		logger:     logger,
	}
}

// HandleSession shows the welcome banner and processes authentication
// commands until the player enters the world or quits.
//
// Postcondition: Returns nil on clean quit, or an error if the session ended
// abnormally.
func (h *Handler) HandleSession(ctx context.Context, conn *Conn) error {
	start := time.Now()
	addr := conn.RemoteAddr().String()

	if err := conn.Write([]byte(welcomeBanner)); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine(Colorize(Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()
		default:
		}

		if err := conn.WritePrompt(Colorize(BrightWhite, "> ")); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}

		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			_ = conn.WriteLine(Colorize(Cyan, "Goodbye!"))
			h.logger.Info("client quit",
				zap.String("remote_addr", addr),
				zap.Duration("session_duration", time.Since(start)),
			)
			return nil

		case "login":
			acct, err := h.handleLogin(ctx, conn, args)
			if err != nil {
				return err
			}
			if acct.ID == 0 {
				continue
			}
			h.logger.Info("player logged in",
				zap.String("remote_addr", addr),
				zap.String("username", acct.Username),
			)
			return h.characterScreen(ctx, conn, acct)

		case "register":
			if err := h.handleRegister(ctx, conn, args); err != nil {
				return err
			}

		case "help":
			h.showHelp(conn)

		default:
			_ = conn.WriteLine(Colorf(Red, "Unknown command: %s. Type 'help' for available commands.", cmd))
		}
	}
}

// handleLogin authenticates a player.
//
// Postcondition: Returns (acct, nil) on success, (postgres.Account{}, nil) if
// the error was shown to the user and the auth loop should continue, or an
// error on fatal failures.
func (h *Handler) handleLogin(ctx context.Context, conn *Conn, args []string) (postgres.Account, error) {
	if len(args) < 1 {
		_ = conn.WriteLine(Colorize(Red, "Usage: login <username> [password]"))
		return postgres.Account{}, nil
	}

	password, err := h.passwordArg(conn, args)
	if err != nil {
		return postgres.Account{}, err
	}

	acct, err := h.accounts.Authenticate(ctx, args[0], password)
	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrAccountNotFound):
			_ = conn.WriteLine(Colorize(Red, "Account not found. Use 'register' to create one."))
		case errors.Is(err, postgres.ErrInvalidCredentials):
			_ = conn.WriteLine(Colorize(Red, "Invalid password."))
		default:
			h.logger.Error("authentication error", zap.Error(err))
			_ = conn.WriteLine(Colorize(Red, "An internal error occurred. Please try again."))
		}
		return postgres.Account{}, nil
	}

	_ = conn.WriteLine(Colorf(BrightGreen, "Welcome back, %s!", acct.Username))
	return acct, nil
}

func (h *Handler) handleRegister(ctx context.Context, conn *Conn, args []string) error {
	if len(args) < 1 {
		return conn.WriteLine(Colorize(Red, "Usage: register <username> [password]"))
	}

	username := args[0]
	password, err := h.passwordArg(conn, args)
	if err != nil {
		return err
	}

	if len(username) < 3 || len(username) > 32 {
		return conn.WriteLine(Colorize(Red, "Username must be 3-32 characters."))
	}
	if len(password) < 6 {
		return conn.WriteLine(Colorize(Red, "Password must be at least 6 characters."))
	}

	acct, err := h.accounts.Create(ctx, username, password)
	if err != nil {
		if errors.Is(err, postgres.ErrAccountExists) {
			_ = conn.WriteLine(Colorize(Red, "That username is already taken."))
			return nil
		}
		h.logger.Error("registration error", zap.Error(err))
		_ = conn.WriteLine(Colorize(Red, "An internal error occurred. Please try again."))
		return nil
	}

	_ = conn.WriteLine(Colorf(BrightGreen, "Account created: %s (#%d). You may now 'login'.", acct.Username, acct.ID))
	return nil
}

// passwordArg returns the inline password when the command carried one, and
// otherwise prompts for it with client echo suppressed.
func (h *Handler) passwordArg(conn *Conn, args []string) (string, error) {
	if len(args) >= 2 {
		return args[1], nil
	}
	if err := conn.WritePrompt("Password: "); err != nil {
		return "", err
	}
	return conn.ReadPassword()
}

func (h *Handler) showHelp(conn *Conn) {
	help := Colorize(BrightWhite, "Available commands:") + "\r\n" +
		Colorize(Green, "  login <username> [password]") + "    - Log in to your account\r\n" +
		Colorize(Green, "  register <username> [password]") + " - Create a new account\r\n" +
		Colorize(Green, "  help") + "                           - Show this help\r\n" +
		Colorize(Green, "  quit") + "                           - Disconnect\r\n"
	_ = conn.Write([]byte(help))
}

// characterScreen runs the character selection and creation UI after login,
// then enters the world with the chosen character.
//
// Precondition: acct.ID must be > 0; conn must be open.
func (h *Handler) characterScreen(ctx context.Context, conn *Conn, acct postgres.Account) error {
	for {
		chars, err := h.characters.ListByAccount(ctx, acct.ID)
		if err != nil {
			return fmt.Errorf("listing characters: %w", err)
		}

		if len(chars) == 0 {
			_ = conn.WriteLine(Colorize(BrightYellow, "\r\nYou have no characters. Let's create one."))
			rec, err := h.characterCreation(ctx, conn, acct.ID)
			if err != nil {
				return err
			}
			if rec == nil {
				continue
			}
			return h.play(ctx, conn, acct, rec)
		}

		_ = conn.WriteLine(Colorize(BrightWhite, "\r\nYour characters:"))
		for i, rec := range chars {
			_ = conn.WriteLine(fmt.Sprintf("  %s%d%s. %s%s%s - level %d %s %s",
				Green, i+1, Reset,
				BrightWhite, rec.Name, Reset,
				rec.Level, h.raceName(rec.RaceID), h.className(rec.ClassID)))
		}
		_ = conn.WriteLine(fmt.Sprintf("  %s%d%s. Create a new character", Green, len(chars)+1, Reset))
		_ = conn.WriteLine(fmt.Sprintf("  %squit%s. Disconnect", Green, Reset))

		_ = conn.WritePrompt(Colorf(BrightWhite, "Select [1-%d]: ", len(chars)+1))
		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading character selection: %w", err)
		}
		line = strings.TrimSpace(strings.ToLower(line))

		if line == "quit" || line == "exit" {
			_ = conn.WriteLine(Colorize(Cyan, "Goodbye."))
			return nil
		}

		choice, err := strconv.Atoi(line)
		if err != nil || choice < 1 || choice > len(chars)+1 {
			_ = conn.WriteLine(Colorize(Red, "Invalid selection."))
			continue
		}

		if choice == len(chars)+1 {
			rec, err := h.characterCreation(ctx, conn, acct.ID)
			if err != nil {
				return err
			}
			if rec != nil {
				return h.play(ctx, conn, acct, rec)
			}
			continue
		}

		return h.play(ctx, conn, acct, chars[choice-1])
	}
}

// characterCreation guides the player through name, class, and race choices.
// Returns (nil, nil) if the player cancels at any step.
//
// Precondition: accountID must be > 0.
// Postcondition: Returns a persisted record or (nil, nil) on cancel.
func (h *Handler) characterCreation(ctx context.Context, conn *Conn, accountID int64) (*postgres.CharacterRecord, error) {
	_ = conn.WriteLine(Colorize(BrightCyan, "\r\n=== Character Creation ==="))
	_ = conn.WriteLine("Type 'cancel' at any prompt to return to the character screen.\r\n")

	_ = conn.WritePrompt(Colorize(BrightWhite, "Enter your character's name: "))
	name, err := conn.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("reading character name: %w", err)
	}
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "cancel") {
		return nil, nil
	}
	if len(name) < 2 || len(name) > 32 {
		_ = conn.WriteLine(Colorize(Red, "Name must be 2-32 characters."))
		return nil, nil
	}

	class, err := h.pickClass(conn)
	if err != nil || class == nil {
		return nil, err
	}
	race, err := h.pickRace(conn)
	if err != nil || race == nil {
		return nil, err
	}

	preview, err := player.New("preview", name, class.ID, race.ID, h.game.Rules(), h.game.Items())
	if err != nil {
		h.logger.Error("building character preview", zap.String("name", name), zap.Error(err))
		_ = conn.WriteLine(Colorf(Red, "Error building character: %v", err))
		return nil, nil
	}

	_ = conn.WriteLine(Colorize(BrightCyan, "\r\n--- Character Preview ---"))
	_ = conn.WriteLine(fmt.Sprintf("  Name:  %s%s%s", BrightWhite, name, Reset))
	_ = conn.WriteLine(fmt.Sprintf("  Race:  %s   Class: %s   Level: 1", race.Name, class.Name))
	_ = conn.WriteLine(fmt.Sprintf("  HP:    %d/%d   AC: %d", preview.CurrentHP, preview.MaxHP, preview.ArmorClass))

	abilities := make([]string, 0, len(ruleset.AllAbilities))
	for _, key := range ruleset.AllAbilities {
		abilities = append(abilities, fmt.Sprintf("%s %d", key, preview.Ability(key)))
	}
	_ = conn.WriteLine("  " + strings.Join(abilities, "  "))

	_ = conn.WritePrompt(Colorize(BrightWhite, "Create this character? [y/N]: "))
	confirm, err := conn.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("reading confirmation: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(confirm), "y") {
		_ = conn.WriteLine(Colorize(Yellow, "Character creation cancelled."))
		return nil, nil
	}

	start := h.game.World().StartRoom()
	if start == nil {
		return nil, fmt.Errorf("world has no start room")
	}
	preview.RoomID = start.ID

	rec := postgres.NewCharacterRecord(accountID, preview.Snapshot())
	created, err := h.characters.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNameTaken) {
			_ = conn.WriteLine(Colorize(Red, "That name is already taken."))
			return nil, nil
		}
		h.logger.Error("creating character", zap.String("name", name), zap.Error(err))
		_ = conn.WriteLine(Colorf(Red, "Failed to create character: %v", err))
		return nil, nil
	}

	h.logger.Info("character created",
		zap.String("name", created.Name),
		zap.Int64("account_id", accountID),
	)
	_ = conn.WriteLine(Colorf(BrightGreen, "Character %s created!", created.Name))
	return created, nil
}

func (h *Handler) pickClass(conn *Conn) (*ruleset.Class, error) {
	classes := h.game.Rules().Classes()
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })

	_ = conn.WriteLine(Colorize(BrightYellow, "\r\nChoose your class:"))
	for i, c := range classes {
		_ = conn.WriteLine(fmt.Sprintf("  %s%d%s. %s%s%s (hit die d%d)\r\n     %s",
			Green, i+1, Reset, BrightWhite, c.Name, Reset, c.HitDie, c.Description))
	}
	_ = conn.WritePrompt(Colorf(BrightWhite, "Select class [1-%d]: ", len(classes)))

	line, err := conn.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("reading class selection: %w", err)
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "cancel") {
		return nil, nil
	}
	choice, convErr := strconv.Atoi(line)
	if convErr != nil || choice < 1 || choice > len(classes) {
		_ = conn.WriteLine(Colorize(Red, "Invalid selection."))
		return nil, nil
	}
	return classes[choice-1], nil
}

func (h *Handler) pickRace(conn *Conn) (*ruleset.Race, error) {
	races := h.game.Rules().Races()
	sort.Slice(races, func(i, j int) bool { return races[i].Name < races[j].Name })

	_ = conn.WriteLine(Colorize(BrightYellow, "\r\nChoose your race:"))
	for i, r := range races {
		_ = conn.WriteLine(fmt.Sprintf("  %s%d%s. %s%s%s\r\n     %s",
			Green, i+1, Reset, BrightWhite, r.Name, Reset, r.Description))
	}
	_ = conn.WritePrompt(Colorf(BrightWhite, "Select race [1-%d]: ", len(races)))

	line, err := conn.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("reading race selection: %w", err)
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "cancel") {
		return nil, nil
	}
	choice, convErr := strconv.Atoi(line)
	if convErr != nil || choice < 1 || choice > len(races) {
		_ = conn.WriteLine(Colorize(Red, "Invalid selection."))
		return nil, nil
	}
	return races[choice-1], nil
}

// lineSender adapts a Conn to the game's Sender interface.
type lineSender struct {
	conn *Conn
}

func (s lineSender) Send(line string) error {
	return s.conn.WriteLine(line)
}

// play restores the participant from its record, joins the world, and runs
// the command loop until quit or disconnect.
//
// Postcondition: the session is removed from the world and saved before
// returning.
func (h *Handler) play(ctx context.Context, conn *Conn, acct postgres.Account, rec *postgres.CharacterRecord) error {
	p, err := player.Restore(strconv.FormatInt(rec.ID, 10), rec.Snapshot(), h.game.Rules(), h.game.Items())
	if err != nil {
		h.logger.Error("restoring character",
			zap.Int64("character_id", rec.ID),
			zap.Error(err),
		)
		_ = conn.WriteLine(Colorize(Red, "That character cannot be loaded."))
		return nil
	}

	sess, err := h.game.Join(p, acct.Username, rec.ID, acct.Role, lineSender{conn: conn})
	if err != nil {
		_ = conn.WriteLine(Colorize(Red, "That character is already in the world."))
		return nil
	}
	defer h.game.Leave(context.WithoutCancel(ctx), p.UID)

	prompt := Colorf(BrightCyan, "[%s]> ", p.Name)
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine(Colorize(Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()
		default:
		}

		if err := conn.WritePrompt(prompt); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}

		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if err := h.game.Dispatch(sess, line); err != nil {
			if errors.Is(err, gameserver.ErrQuit) {
				return nil
			}
			return fmt.Errorf("dispatching command: %w", err)
		}
	}
}

// className resolves a class ID to its display name, falling back to the ID.
func (h *Handler) className(id string) string {
	if c, ok := h.game.Rules().Class(id); ok {
		return c.Name
	}
	return id
}

func (h *Handler) raceName(id string) string {
	if r, ok := h.game.Rules().Race(id); ok {
		return r.Name
	}
	return id
}
