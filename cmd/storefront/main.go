package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nikolayk812/storefront/internal/client"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/guard"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"golang.org/x/text/currency"
)

func main() {
	configPath := flag.String("config-path", "", "storefront config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	flag.Parse()

	// a local .env is optional
	_ = godotenv.Load()

	if err := run(*configPath, *loglevel); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %s\n", err)
		os.Exit(1)
	}
}

func run(configPath, loglevel string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	unit, err := currency.ParseISO(conf.Currency)
	if err != nil {
		return fmt.Errorf("currency.ParseISO: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	setLogLevel(e, loglevel)
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	backend, err := client.New(conf.APIRoot)
	if err != nil {
		return fmt.Errorf("client.New: %w", err)
	}

	g, err := guard.New(conf.Guard.Routes, conf.Guard.Targets)
	if err != nil {
		return fmt.Errorf("guard.New: %w", err)
	}
	e.Use(guard.Middleware(g, []byte(conf.TokenSecret)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots, cleanup, err := newSnapshots(ctx, conf)
	if err != nil {
		return fmt.Errorf("newSnapshots: %w", err)
	}
	defer cleanup()

	h, err := newHandlers(backend, snapshots, unit, func(err error) { e.Logger.Error(err) })
	if err != nil {
		return fmt.Errorf("newHandlers: %w", err)
	}
	h.register(e)

	go func() {
		if err := e.Start(conf.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Error(err)
			stop()
		}
	}()

	<-ctx.Done()

	graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(graceful); err != nil {
		return fmt.Errorf("e.Shutdown: %w", err)
	}

	return nil
}

// newSnapshots picks Postgres-backed cart persistence when a database URI is
// configured, file-backed otherwise.
func newSnapshots(ctx context.Context, conf config.Config) (port.CartSnapshots, func(), error) {
	if conf.DatabaseURI == "" {
		snapshots, err := repository.NewFileSnapshots(conf.SnapshotDir)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.NewFileSnapshots: %w", err)
		}
		return snapshots, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, conf.DatabaseURI)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	snapshots, err := repository.NewCartSnapshots(pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("repository.NewCartSnapshots: %w", err)
	}

	return snapshots, pool.Close, nil
}

func setLogLevel(e *echo.Echo, level string) {
	levels := map[string]log.Lvl{
		"debug": log.DEBUG,
		"info":  log.INFO,
		"warn":  log.WARN,
		"error": log.ERROR,
		"off":   log.OFF,
	}

	lvl, ok := levels[level]
	if !ok {
		lvl = log.INFO
	}
	e.Logger.SetLevel(lvl)
}
