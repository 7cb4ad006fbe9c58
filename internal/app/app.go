package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NastyaGoryachaya/chat-broadcaster/internal/config"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/infra/db"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/infra/telegram"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/interfaces"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/metrics"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/repository/jsonfile"
	repopg "github.com/NastyaGoryachaya/chat-broadcaster/internal/repository/postgres"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/scheduler"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/service/broadcast"
	botpkg "github.com/NastyaGoryachaya/chat-broadcaster/internal/transport/bot"
	"github.com/NastyaGoryachaya/chat-broadcaster/internal/transport/httptransport"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db   *pgxpool.Pool
	e    *echo.Echo
	serv *http.Server

	store     interfaces.StateStore
	broadcast *broadcast.Service
	updater   *scheduler.Scheduler

	bot *botpkg.Bot
}

func NewApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	store, err := app.openStore(ctx)
	if err != nil {
		app.closeDB()
		return nil, err
	}
	app.store = store

	// состояние читается один раз при старте
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	initial, err := store.Load(loadCtx)
	if err != nil {
		app.closeDB()
		return nil, fmt.Errorf("load state: %w", err)
	}
	log.Info("state loaded",
		slog.Int("chats", len(initial.Chats)),
		slog.Int("interval_min", initial.Config.IntervalMinutes),
		slog.Bool("running", initial.Config.Enabled),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tb, err := botpkg.NewTelebot(cfg.Telegram)
	if err != nil {
		log.Error("telegram init failed", slog.String("error", err.Error()))
		app.closeDB()
		return nil, err
	}

	holder := broadcast.NewHolder(initial)
	sender := telegram.NewSender(tb, telegram.Config{
		RatePerSecond: cfg.Broadcast.RatePerSecond,
		Burst:         cfg.Broadcast.RateBurst,
	})
	app.updater = scheduler.NewScheduler(holder, sender, log,
		scheduler.WithSendTimeout(cfg.Broadcast.SendTimeout),
		scheduler.WithMetrics(m),
	)
	app.broadcast = broadcast.NewService(holder, store, app.updater, log)
	app.bot = botpkg.New(tb, cfg.Telegram, app.broadcast, log)

	if cfg.Server.Enabled {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		httptransport.NewStatusHandler(log, app.broadcast, reg).RegisterRoutes(e)
		app.e = e
		app.serv = &http.Server{
			Addr:         cfg.Server.Addr,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
			Handler:      e,
		}
	}

	log.Info("app initialized",
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("http_enabled", cfg.Server.Enabled),
		slog.String("http_addr", cfg.Server.Addr),
	)
	return app, nil
}

func (a *App) openStore(ctx context.Context) (interfaces.StateStore, error) {
	switch a.cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := db.NewPool(ctx, &a.cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.db = pool
		repo := repopg.NewStateRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return jsonfile.NewStateRepository(a.cfg.Storage.Path)
	}
}

func (a *App) Run(ctx context.Context) error {
	if a.cfg.Broadcast.ResumeOnStart && a.broadcast.Resume() {
		a.log.Info("broadcast resumed from saved state")
	}

	a.log.Info("starting bot")
	a.bot.Start(ctx)

	if a.e != nil {
		a.log.Info("starting server", slog.String("addr", a.cfg.Server.Addr))
		go func() {
			if err := a.e.StartServer(a.serv); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("http server error", slog.String("error", err.Error()))
			}
		}()
	}

	<-ctx.Done()
	return a.Shutdown(context.Background())
}

func (a *App) Shutdown(ctx context.Context) error {
	shCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.e != nil {
		if err := a.e.Shutdown(shCtx); err != nil {
			a.log.Error("http shutdown error", slog.String("error", err.Error()))
		}
	}

	if a.bot != nil {
		a.bot.Stop()
	}

	// цикл останавливается, флаг running на диске остаётся как был
	started := time.Now()
	if err := stopWithin(shCtx, a.broadcast.Shutdown); err != nil {
		a.log.Warn("broadcast loop did not stop in time",
			slog.Duration("waited", time.Since(started)),
			slog.String("error", err.Error()))
	} else {
		a.log.Info("broadcast loop stopped", slog.Duration("waited", time.Since(started)))
	}

	a.closeDB()
	a.log.Info("application stopped")
	return nil
}

// stopWithin вызывает stop и ждёт его не дольше ctx. При таймауте stop
// продолжает работать в фоне.
func stopWithin(ctx context.Context, stop func()) error {
	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) closeDB() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}
