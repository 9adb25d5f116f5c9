// StoragePulse — storage device metrics dashboard with a mock metrics endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vesaa/storagepulse/internal/catalog"
	"github.com/vesaa/storagepulse/internal/config"
	"github.com/vesaa/storagepulse/internal/dashboard"
	"github.com/vesaa/storagepulse/internal/generator"
	"github.com/vesaa/storagepulse/internal/logging"
	"github.com/vesaa/storagepulse/internal/models"
	"github.com/vesaa/storagepulse/internal/poller"
	"github.com/vesaa/storagepulse/internal/server"
	"github.com/vesaa/storagepulse/internal/watch"
)

const version = "v0.1.0"

func printBanner(mode string) {
	fmt.Printf("\n  ► StoragePulse %s  |  Mode: %s\n\n", version, mode)
}

func main() {
	root := &cobra.Command{
		Use:   "storagepulse",
		Short: "StoragePulse — storage device performance dashboard",
		Long: `StoragePulse serves mock storage-device metrics and a dashboard that
polls them, scores every device and compares it against the fleet average.`,
		SilenceUsage: true,
	}

	// ── server subcommand ─────────────────────────────────────────────────────
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the devices endpoint and the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner("SERVER")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
	serverCmd.Flags().Int("port", 0, "Listen port (overrides config)")
	serverCmd.Flags().Uint64("seed", 0, "Generator seed (0 = random)")
	serverCmd.Flags().String("catalog", "", "YAML/JSON file replacing the built-in device templates")

	// ── watch subcommand ──────────────────────────────────────────────────────
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll a devices endpoint and print the overview table",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner("WATCH")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runWatch(cfg)
		},
	}
	watchCmd.Flags().String("url", "", "Devices endpoint, e.g. http://127.0.0.1:4000/api/devices")
	watchCmd.Flags().String("sort", "", "Sort key, e.g. deviceScore or sustainability.powerEfficiency")
	watchCmd.Flags().String("dir", "", "Sort direction: asc or desc")
	watchCmd.Flags().Duration("interval", 0, "Poll interval (overrides config)")

	// ── version subcommand ────────────────────────────────────────────────────
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print StoragePulse version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("StoragePulse %s\n", version)
		},
	}

	root.AddCommand(serverCmd, watchCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config and applies CLI flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("catalog") {
		cfg.CatalogFile, _ = flags.GetString("catalog")
	}
	if flags.Changed("url") {
		cfg.APIURL, _ = flags.GetString("url")
	}
	if flags.Changed("sort") {
		cfg.DefaultSortKey, _ = flags.GetString("sort")
	}
	if flags.Changed("dir") {
		cfg.DefaultSortDir, _ = flags.GetString("dir")
	}
	if flags.Changed("interval") {
		d, _ := flags.GetDuration("interval")
		cfg.PollIntervalSeconds = int(d.Seconds())
	}

	if !dashboard.KnownKey(cfg.DefaultSortKey) {
		return nil, fmt.Errorf("unknown sort key %q", cfg.DefaultSortKey)
	}
	if cfg.DefaultSortDir != "asc" && cfg.DefaultSortDir != "desc" {
		return nil, fmt.Errorf("sort direction must be asc or desc, got %q", cfg.DefaultSortDir)
	}
	if cfg.PollIntervalSeconds <= 0 {
		return nil, errors.New("poll interval must be at least one second")
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func sortConfig(cfg *config.Config) models.SortConfig {
	return models.SortConfig{Key: cfg.DefaultSortKey, Direction: models.SortDirection(cfg.DefaultSortDir)}
}

func newPoller(cfg *config.Config) *poller.Poller {
	client := &http.Client{Timeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second}
	return poller.New(cfg.PollURL(), time.Duration(cfg.PollIntervalSeconds)*time.Second, client)
}

func runServer(cfg *config.Config) error {
	store, err := catalog.Open(cfg.CatalogDSN, cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("initializing catalog: %w", err)
	}
	defer store.Close()

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.ListenAddr(), err)
	}

	fmt.Printf("  ✓ Devices endpoint → http://%s/api/devices\n", cfg.ListenAddr())
	fmt.Printf("  ✓ Dashboard        → http://%s/\n", cfg.ListenAddr())
	fmt.Printf("  ✓ Polling %s every %ds\n\n", cfg.PollURL(), cfg.PollIntervalSeconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	return serve(ctx, ln, store, cfg)
}

// serve runs the HTTP server on ln and the poller until ctx is done. The
// listener already accepts connections, so the first poll can target it.
func serve(ctx context.Context, ln net.Listener, store server.TemplateStore, cfg *config.Config) error {
	p := newPoller(cfg)
	srv := server.New(store, generator.New(cfg.Seed), p, sortConfig(cfg))
	httpSrv := &http.Server{Handler: srv.Engine()}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	go p.Run(ctx)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		fmt.Println("\n  → Shutting down gracefully…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func runWatch(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sortCfg := sortConfig(cfg)
	p := newPoller(cfg)
	p.OnUpdate = func(snap poller.Snapshot) {
		view, err := dashboard.BuildView(snap.Devices, sortCfg, snap.FetchedAt)
		if err != nil {
			log.Warn().Err(err).Msg("nothing to show")
			return
		}
		if err := watch.Render(os.Stdout, view); err != nil {
			log.Error().Err(err).Msg("rendering table")
		}
		fmt.Println()
	}

	log.Info().Str("url", cfg.PollURL()).Msg("watching devices endpoint, press Ctrl+C to stop")
	p.Run(ctx)
	return nil
}
