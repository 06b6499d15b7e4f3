package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getstubd/stubd/pkg/config"
	"github.com/getstubd/stubd/pkg/engine"
	"github.com/getstubd/stubd/pkg/logging"
	"github.com/getstubd/stubd/pkg/reload"
)

var (
	serveConfig string
	serveHost   string
	servePort   int
	serveWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stub server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadServeConfig()
		if err != nil {
			return err
		}

		log := logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.Log.Level),
			Format: logging.ParseFormat(cfg.Log.Format),
			Output: os.Stderr,
		})

		srv, err := engine.NewServer(cfg, engine.WithLogger(log))
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() { _ = srv.Stop() }()

		if cfg.Watch.Enabled && serveConfig != "" {
			watcher, err := reload.New(func(string) {
				next, err := config.Load(serveConfig)
				if err != nil {
					log.Error("ignoring invalid configuration", "path", serveConfig, "error", err)
					return
				}
				if err := srv.SetRegistrar(config.BuildRegistrar(next, srv.Store())); err != nil {
					log.Error("reload rejected", "error", err)
				}
			}, reload.WithLogger(log), reload.WithIncludes(cfg.Watch.Include))
			if err != nil {
				return err
			}
			defer func() { _ = watcher.Close() }()

			if err := watcher.Add(serveConfig); err != nil {
				return err
			}
			for _, path := range cfg.Watch.Paths {
				if err := watcher.Add(path); err != nil {
					log.Warn("cannot watch path", "path", path, "error", err)
				}
			}
			watcher.Start()
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "stubd listening on %s (%d routes)\n", srv.Addr(), len(srv.Routes()))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		return nil
	},
}

func loadServeConfig() (*config.Config, error) {
	var cfg *config.Config
	if serveConfig != "" {
		loaded, err := config.Load(serveConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		config.ApplyEnv(cfg)
	}

	// Flags override file and environment.
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort >= 0 {
		cfg.Server.Port = servePort
	}
	if serveWatch {
		cfg.Watch.Enabled = true
	}
	return cfg, nil
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "path to a route definition file (YAML or JSON)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", -1, "listen port (overrides config)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload when the definition file changes")
	rootCmd.AddCommand(serveCmd)
}
