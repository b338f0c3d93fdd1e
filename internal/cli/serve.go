package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/bossbooker/portal/internal/auth"
	"github.com/bossbooker/portal/internal/config"
	"github.com/bossbooker/portal/internal/geoip"
	"github.com/bossbooker/portal/internal/handlers"
	"github.com/bossbooker/portal/internal/kv"
	"github.com/bossbooker/portal/internal/logging"
	"github.com/bossbooker/portal/internal/middleware"
	"github.com/bossbooker/portal/internal/mirror"
	"github.com/bossbooker/portal/internal/pricing"
	"github.com/bossbooker/portal/internal/realtime"
	"github.com/bossbooker/portal/internal/store"
	"github.com/bossbooker/portal/internal/tracker"
)

var (
	servePort          string
	serveDataDir       string
	serveAdminPassword string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Boss Booker portal server",
	Long: `Start the Boss Booker portal server.

Configuration is read from bossbooker.toml (current directory or
$XDG_CONFIG_HOME/bossbooker), environment variables, and command flags,
in increasing priority.

Environment variables:
  ADMIN_PASSWORD  Dashboard password (required)
  API_KEYS        Comma-separated site ingest keys (bb_sk_ prefixed)
  PORT            Server port (default: 8787)
  DATA_DIR        Datastore directory (default: ./data)

Example:
  ADMIN_PASSWORD=secret bossbooker serve --port 8787`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "Datastore directory")
	serveCmd.Flags().StringVar(&serveAdminPassword, "admin-password", "", "Dashboard admin password")
	RootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.LoadWithOverrides(servePort, serveDataDir, serveAdminPassword)
	if err != nil {
		return err
	}
	if cfg.AdminPassword == "" {
		return errors.New("admin password is required: set ADMIN_PASSWORD or admin_password in bossbooker.toml")
	}

	log := logging.With("component", "serve")

	backend, err := kv.NewFile(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open data dir %s: %w", cfg.DataDir, err)
	}

	ds := store.New(backend)
	pricingSvc := pricing.NewService(backend)
	guard := auth.NewGuard(backend, cfg.AdminPassword)
	hub := realtime.NewHub()
	fwd := mirror.New(cfg.MirrorURL, cfg.MirrorAPIKey)

	var geo *geoip.Resolver
	var geoResolver tracker.GeoResolver
	if cfg.GeoEnrichment {
		path := cfg.GeoIPPath
		if path == "" {
			path = filepath.Join(cfg.DataDir, "GeoLite2-City.mmdb")
		}
		geo = geoip.Open(path)
		geoResolver = geo
	}

	h := &handlers.Handlers{
		Store:   ds,
		Pricing: pricingSvc,
		Tracker: tracker.New(ds, geoResolver),
		Guard:   guard,
		Hub:     hub,
		Mirror:  fwd,
		APIKeys: cfg.APIKeys,
		Version: Version,
	}

	app := fiber.New(createFiberConfig("Boss Booker Portal"))
	app.Use(recoverer.New())
	app.Use(logger.New())
	app.Use(middleware.CORS(cfg.TrustedOrigins))
	h.Register(app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	log.Info("portal started", "port", cfg.Port, "data_dir", cfg.DataDir)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Warn("shutdown incomplete", "error", err)
		}
		fwd.Wait()
		if geo != nil {
			_ = geo.Close()
		}
	}
	return nil
}
