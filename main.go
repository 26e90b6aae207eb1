package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/CrestNiraj12/mastoview/infra/config"
	"github.com/CrestNiraj12/mastoview/infra/logging"
	"github.com/CrestNiraj12/mastoview/infra/mastodon"
	"github.com/CrestNiraj12/mastoview/metrics"
	"github.com/CrestNiraj12/mastoview/poll"
	"github.com/CrestNiraj12/mastoview/session"
	"github.com/CrestNiraj12/mastoview/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	v, c, d := resolvedRuntimeVersionInfo(version, commit, date)

	root := &cobra.Command{
		Use:           "mastoview",
		Short:         "Read a Mastodon public timeline in the terminal",
		Version:       v,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := root.Flags()
	f.String("config", "", "config file (default ~/.config/mastoview/config.yaml)")
	f.String("instance", "", "Mastodon instance URL (https only)")
	f.Bool("federated", false, "show the federated timeline instead of local posts")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")
	f.String("log-level", "", "debug, info, warn or error")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mastoview %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		},
	})
	return root
}

// loadConfig layers defaults, the config file, MASTOVIEW_* env and flags,
// in increasing precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	vp := config.NewViper()
	f := cmd.Flags()

	path, _ := f.GetString("config")
	if err := config.ReadFile(vp, path); err != nil {
		return config.Config{}, err
	}

	for key, flag := range map[string]string{
		"instance":     "instance",
		"metrics_addr": "metrics-addr",
		"log_level":    "log-level",
	} {
		if f.Changed(flag) {
			if err := vp.BindPFlag(key, f.Lookup(flag)); err != nil {
				return config.Config{}, err
			}
		}
	}
	if f.Changed("federated") {
		federated, _ := f.GetBool("federated")
		vp.Set("local", !federated)
	}
	return config.Load(vp)
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, closeLog, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("mastoview started", "version", version, "instance", cfg.InstanceURL, "local", cfg.LocalOnly)
	defer logger.Info("mastoview shutting down")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer stop()
	}

	client := mastodon.NewClient(cfg.InstanceURL, cfg.ImageTimeout)
	sess := session.New(session.Deps{
		Timeline: mastodon.NewTimelineService(client, cfg.LocalOnly),
		Images:   mastodon.NewMediaService(client),
		Logger:   logger,
		Metrics:  m,
	}, session.Config{
		Poll: poll.Config{
			Cooldown:        cfg.Cooldown,
			RefreshInterval: cfg.RefreshInterval,
			Limit:           cfg.Limit,
		},
		RepaintInterval: cfg.RepaintInterval,
		BaseHost:        cfg.InstanceURL,
		MaxImageFetches: cfg.MaxImageFetches,
	})
	defer sess.Close()

	uiState, err := config.LoadUIState(cfg.UIStatePath)
	if err != nil {
		logger.Warn("ignoring ui state", "err", err)
	}

	rootModel := tui.NewApp(tui.Deps{
		Session:   sess,
		Instance:  strings.TrimPrefix(cfg.InstanceURL, "https://"),
		StatePath: cfg.UIStatePath,
		ShowMedia: !uiState.HideMedia,
		Logger:    logger,
	})

	p := tea.NewProgram(rootModel, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *log.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mastoview: %v\n", err)
		os.Exit(1)
	}
}
