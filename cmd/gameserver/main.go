// Package main provides the game server binary: it loads content, connects
// to PostgreSQL, assembles the simulation, and serves Telnet sessions.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ironvale/mud/internal/config"
	"github.com/ironvale/mud/internal/game/creature"
	"github.com/ironvale/mud/internal/game/dice"
	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/ruleset"
	"github.com/ironvale/mud/internal/game/world"
	"github.com/ironvale/mud/internal/gameserver"
	"github.com/ironvale/mud/internal/observability"
	"github.com/ironvale/mud/internal/scripting"
	"github.com/ironvale/mud/internal/server"
	"github.com/ironvale/mud/internal/storage/postgres"
	"github.com/ironvale/mud/internal/telnet"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	paths := gameserver.ContentPaths{
		Classes:   cfg.Game.ContentPath("classes"),
		Races:     cfg.Game.ContentPath("races"),
		Items:     cfg.Game.ContentPath("items"),
		Creatures: cfg.Game.ContentPath("creatures"),
		World:     cfg.Game.ContentPath("world"),
	}

	// Load content
	contentStart := time.Now()
	rules, err := loadRuleset(paths)
	if err != nil {
		logger.Fatal("loading ruleset", zap.Error(err))
	}
	items, err := loadItems(paths, logger)
	if err != nil {
		logger.Fatal("loading item blueprints", zap.Error(err))
	}
	bestiary, err := loadBestiary(paths, logger)
	if err != nil {
		logger.Fatal("loading creature blueprints", zap.Error(err))
	}
	zones, err := world.LoadZonesFromDir(paths.World)
	if err != nil {
		logger.Fatal("loading zones", zap.Error(err))
	}
	worldMgr, err := world.NewManager(zones)
	if err != nil {
		logger.Fatal("creating world manager", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("classes", len(rules.Classes())),
		zap.Int("races", len(rules.Races())),
		zap.Int("items", len(items.All())),
		zap.Int("creatures", len(bestiary.All())),
		zap.Int("zones", len(zones)),
		zap.Int("rooms", worldMgr.RoomCount()),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Initialise scripting engine
	scripts := scripting.NewEngine(logger)
	defer scripts.Close()

	globalScriptDir := cfg.Game.ContentPath("scripts/global")
	if info, statErr := os.Stat(globalScriptDir); statErr == nil && info.IsDir() {
		if err := scripts.LoadGlobal(globalScriptDir, cfg.Game.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading global scripts", zap.String("dir", globalScriptDir), zap.Error(err))
		}
		logger.Info("global scripts loaded", zap.String("dir", globalScriptDir))
	}
	for _, zone := range worldMgr.AllZones() {
		if zone.ScriptDir == "" {
			continue
		}
		info, statErr := os.Stat(zone.ScriptDir)
		if statErr != nil || !info.IsDir() {
			logger.Warn("zone script_dir not found, skipping",
				zap.String("zone", zone.ID), zap.String("dir", zone.ScriptDir))
			continue
		}
		limit := zone.ScriptInstructionLimit
		if limit == 0 {
			limit = cfg.Game.ScriptInstructionLimit
		}
		if err := scripts.LoadZone(zone.ID, zone.ScriptDir, limit); err != nil {
			logger.Fatal("loading zone scripts", zap.String("zone", zone.ID), zap.Error(err))
		}
		logger.Info("zone scripts loaded",
			zap.String("zone", zone.ID), zap.String("dir", zone.ScriptDir))
	}

	// Connect to PostgreSQL for account and character persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	accounts := postgres.NewAccountRepository(pool.DB())
	characters := postgres.NewCharacterRepository(pool.DB())
	saver := postgres.NewPlayerSaver(characters)

	// Assemble and populate the simulation
	game := gameserver.NewGame(
		logger, rules, items, bestiary, worldMgr,
		dice.NewCryptoSource(), scripts, saver, paths,
	)
	game.Populate()

	tickCtx, stopTicks := context.WithCancel(ctx)
	game.RunTicks(tickCtx, cfg.Game.TickInterval)
	logger.Info("world tick started", zap.Duration("interval", cfg.Game.TickInterval))

	handler := telnet.NewHandler(game, accounts, characters, logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("telnet", &server.FuncService{
		StartFn: func() error {
			return acceptor.ListenAndServe()
		},
		StopFn: func() {
			acceptor.Stop()
			stopTicks()
		},
	})

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func loadRuleset(paths gameserver.ContentPaths) (*ruleset.Registry, error) {
	classes, err := ruleset.LoadClasses(paths.Classes)
	if err != nil {
		return nil, err
	}
	races, err := ruleset.LoadRaces(paths.Races)
	if err != nil {
		return nil, err
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

func loadItems(paths gameserver.ContentPaths, logger *zap.Logger) (*item.Registry, error) {
	blueprints, err := item.LoadBlueprints(paths.Items, logger)
	if err != nil {
		return nil, err
	}
	reg := item.NewRegistry()
	for _, b := range blueprints {
		if err := reg.Register(b); err != nil {
			logger.Warn("skipping duplicate item blueprint", zap.String("id", b.ID))
		}
	}
	return reg, nil
}

func loadBestiary(paths gameserver.ContentPaths, logger *zap.Logger) (*creature.Registry, error) {
	blueprints, err := creature.LoadBlueprints(paths.Creatures, logger)
	if err != nil {
		return nil, err
	}
	reg := creature.NewRegistry()
	for _, b := range blueprints {
		if err := reg.Register(b); err != nil {
			logger.Warn("skipping duplicate creature blueprint", zap.String("id", b.ID))
		}
	}
	return reg, nil
}
