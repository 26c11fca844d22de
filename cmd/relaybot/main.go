package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v4"

	"relaybot/internal/config"
	"relaybot/internal/database"
	"relaybot/internal/logger"
	"relaybot/internal/maintenance"
	"relaybot/internal/relay"
	"relaybot/internal/storage"
	tg "relaybot/internal/telegram"
	"relaybot/internal/telegram/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("relaybot: %v", err)
	}
}

func run() error {
	// Local development keeps secrets in .env; in production the file is
	// simply absent.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	store := storage.New(db)
	app := relay.New(cfg, store)

	reg := tg.NewRegistry()
	app.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		OwnerID: cfg.Telegram.OwnerChatID,
	})
	routes = append(routes, router.CallbackRoute(reg))
	routes = append(routes, router.TextRoutes(app.Flows(), reg, router.TextOptions{})...)

	middlewares := tg.DefaultMiddlewares(cfg, tg.ChainOptions{
		Blocklist: store,
		OnBlocked: app.OnBlocked,
		OnLimited: app.OnLimited,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startedAt := time.Now()
	appLog := func() *slog.Logger { return logger.L.With("component", "app") }

	return tg.Run(ctx, tg.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			if err := app.OnStart(ctx, rt); err != nil {
				return err
			}

			janitor := maintenance.New(maintenance.Options{
				Store: store,
				Notify: func(text string) {
					owner := cfg.Telegram.OwnerChatID
					if owner == 0 {
						return
					}
					if _, err := rt.Bot.Send(tele.ChatID(owner), text); err != nil {
						logger.Maint.Warn("owner report failed",
							slog.String("event", "notify"),
							slog.String("err", err.Error()),
						)
					}
				},
			})
			go janitor.Run(ctx)

			appLog().Info("app ready",
				slog.String("event", "ready"),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(context.Context, tg.Runtime) error {
			appLog().Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return nil
		},
	})
}
