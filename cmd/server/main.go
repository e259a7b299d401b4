package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skybase/server/internal/config"
	"github.com/skybase/server/internal/core/event"
	coresys "github.com/skybase/server/internal/core/system"
	"github.com/skybase/server/internal/data"
	"github.com/skybase/server/internal/handler"
	gamenet "github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
	"github.com/skybase/server/internal/obs"
	"github.com/skybase/server/internal/persist"
	gamesys "github.com/skybase/server/internal/system"
	"github.com/skybase/server/internal/world"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to server config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.Defaults()
			cfg.Server.StartTime = time.Now().Unix()
		} else {
			panic(err)
		}
	}

	log := buildLogger(cfg.Logging)
	defer log.Sync()
	log.Info("skybase server starting",
		zap.String("name", cfg.Server.Name), zap.Int("id", cfg.Server.ID))

	items, err := data.LoadItemTable(cfg.Items.CatalogPath)
	if err != nil {
		log.Fatal("load item catalog", zap.Error(err))
	}
	log.Info("item catalog loaded", zap.Int("kinds", items.Count()))

	ws := world.NewState(world.Tuning{
		MaxStack:          cfg.Items.MaxStack,
		MergeRadius:       cfg.Items.MergeRadius,
		PickupRadius:      cfg.Items.PickupRadius,
		PositionTolerance: cfg.Items.PositionTolerance,
		DropDistance:      cfg.Items.DropDistance,
		PickupDelay:       cfg.Items.PickupDelay,
		PickupCooldown:    cfg.Items.PickupCooldown,
		Lifetime:          cfg.Items.Lifetime,
		InventorySlots:    world.DefaultInventorySlots,
	})

	bus := event.NewBus()
	store := gamenet.NewSessionStore()

	deps := &handler.Deps{
		Config:    cfg,
		Log:       log,
		World:     ws,
		Items:     items,
		Sessions:  store,
		Bus:       bus,
		Inventory: ws,
		Anchors:   ws,
	}

	registry := packet.NewRegistry()
	handler.RegisterAll(registry, deps)

	manager := coresys.NewManager()
	manager.Register(gamesys.NewInputSystem(store, registry, deps))
	manager.Register(gamesys.NewEventDispatchSystem(bus))
	manager.Register(gamesys.NewItemMaintenanceSystem(deps, cfg.Items.MaintenanceTicks))
	manager.Register(gamesys.NewOutputSystem(store))

	// The WAL audit trail is optional; an empty DSN runs without it.
	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := persist.Connect(ctx, cfg.Database.DSN, cfg.Database.MaxConns, cfg.Database.ConnMaxLifetime)
		cancel()
		if err != nil {
			log.Fatal("connect database", zap.Error(err))
		}
		defer db.Close()
		walRepo := persist.NewItemWALRepo(db)
		if n, err := walRepo.CountSince(context.Background(), time.Now().Add(-24*time.Hour)); err == nil {
			log.Info("item wal reachable", zap.Int64("entries_24h", n))
		}
		manager.Register(gamesys.NewWALFlushSystem(walRepo, bus, cfg.Persistence.WALFlushTicks, log))
	} else {
		log.Warn("no database configured, item wal audit disabled")
	}

	if cfg.Obs.Enabled {
		bridge := obs.NewBridge(log)
		bridge.Attach(bus, ws)
		go func() {
			if err := bridge.Run(cfg.Obs.BindAddress); err != nil {
				log.Error("obs endpoint stopped", zap.Error(err))
			}
		}()
	}

	listener, err := net.Listen("tcp", cfg.Network.BindAddress)
	if err != nil {
		log.Fatal("listen", zap.Error(err))
	}
	log.Info("listening", zap.String("addr", cfg.Network.BindAddress))

	// Accept loop hands fresh sessions to the game loop over a channel;
	// the session store itself is game-loop-owned.
	newSessions := make(chan *gamenet.Session, 64)
	var nextSessionID atomic.Uint64
	go func() {
		opts := gamenet.Options{
			InQueueSize:  cfg.Network.InQueueSize,
			OutQueueSize: cfg.Network.OutQueueSize,
			ReadTimeout:  cfg.Network.ReadTimeout,
			WriteTimeout: cfg.Network.WriteTimeout,
		}
		for {
			conn, err := listener.Accept()
			if err != nil {
				close(newSessions)
				return
			}
			sess := gamenet.NewSession(nextSessionID.Add(1), conn, opts, log)
			sess.Start()
			select {
			case newSessions <- sess:
			default:
				log.Warn("session intake full, refusing connection")
				sess.Close()
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-stop:
			log.Info("shutting down")
			listener.Close()
			store.ForEach(func(s *gamenet.Session) { s.Close() })
			// One final tick flushes pending output and WAL batches.
			manager.Tick(time.Since(last))
			return
		case now := <-ticker.C:
		intake:
			for {
				select {
				case sess, ok := <-newSessions:
					if !ok {
						break intake
					}
					store.Add(sess)
				default:
					break intake
				}
			}
			manager.Tick(now.Sub(last))
			last = now
		}
	}
}

func buildLogger(cfg config.LoggingConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.AddCaller())
}
