package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/georgemunganga/printa-dashboard/internal/config"
	"github.com/georgemunganga/printa-dashboard/internal/logging"
	"github.com/georgemunganga/printa-dashboard/internal/modules/auth"
	"github.com/georgemunganga/printa-dashboard/internal/modules/cart"
	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/dashboard"
	"github.com/georgemunganga/printa-dashboard/internal/modules/inventory"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
	"github.com/georgemunganga/printa-dashboard/internal/modules/remote"
	"github.com/georgemunganga/printa-dashboard/internal/modules/report"
)

func main() {
	app := &cli.App{
		Name:  "api",
		Usage: "inventory dashboard backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "optional .env file to load"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "snapshot",
				Usage:  "fetch once and print stats, notifications, activity and the report as JSON",
				Action: snapshot,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("api exited")
	}
}

// components holds what both commands share.
type components struct {
	cfg    config.Config
	log    *logrus.Logger
	db     *sql.DB
	client *remote.Client
	store  *inventory.Store
}

func bootstrap(c *cli.Context) (*components, error) {
	var files []string
	if f := c.String("env-file"); f != "" {
		files = append(files, f)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	a := &components{cfg: cfg, log: log}

	// ── Entity API ──────────────────────────────────────────
	a.client = remote.NewClient(remote.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
		Retries: cfg.FetchRetries,
		Logger:  log,
	}, auth.NewStaticTokenSource(cfg.APIToken))

	// ── Entity Store ────────────────────────────────────────
	var fetcher inventory.Fetcher = a.client
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "open replica")
		}
		if err := db.PingContext(c.Context); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "ping replica")
		}
		log.Info("reading snapshots from the database replica")
		a.db = db
		fetcher = inventory.NewPostgresFetcher(db)
	}
	a.store = inventory.NewStore(fetcher, log)
	return a, nil
}

func (a *components) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func serve(c *cli.Context) error {
	a, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer a.close()

	// An unreachable API at start-up is not fatal; the first refresh will retry.
	if err := a.store.Refresh(c.Context); err != nil {
		a.log.WithError(err).Warn("initial load failed")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(auth.Middleware)

	// ── Phase 1: Catalog & Orders ───────────────────────────
	catalog.NewHandler(catalog.NewService(a.store)).RegisterRoutes(router)

	orders := cart.NewOrders(a.store, a.client, a.log)
	order.NewHandler(order.NewService(a.store, orders)).RegisterRoutes(router)

	// ── Phase 2: Cart ───────────────────────────────────────
	carts := cart.NewRegistry(orders, a.cfg.CartTTL, a.cfg.CartLimit)
	cart.NewHandler(carts).RegisterRoutes(router)

	// ── Phase 3: Dashboard ──────────────────────────────────
	dashboard.NewHandler(dashboard.NewService(a.store), a.log).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go carts.Run(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		a.log.WithField("port", a.cfg.Port).Info("dashboard API starting")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.log.Info("shutting down")
	return srv.Shutdown(shutdown)
}

func snapshot(c *cli.Context) error {
	a, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Refresh(c.Context); err != nil {
		return err
	}

	svc := dashboard.NewService(a.store)
	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(struct {
		View   dashboard.View `json:"dashboard"`
		Report report.Report  `json:"report"`
	}{svc.View(), svc.Report()})
}
