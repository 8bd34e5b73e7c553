package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/mmmmm/internal/app"
	"github.com/jask/mmmmm/internal/config"
	"github.com/jask/mmmmm/internal/database"
	"github.com/jask/mmmmm/internal/logging"
	"github.com/jask/mmmmm/internal/runtime"
	"github.com/jask/mmmmm/internal/ssb"
	"github.com/jask/mmmmm/internal/tui"
)

var (
	cfgPath string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mmmmm",
		Short:         "A terminal client for a local social feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger, err = logging.New(cfg.Log.Path, cfg.Log.Level, verbose)
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $MMMMM_CONFIG or ~/.config/mmmmm/config.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	root.AddCommand(newPostCmd(), newFeedCmd(), newWhoamiCmd(), newConfigCmd())
	return root
}

func openStore() (*ssb.Store, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	return ssb.NewStore(db), db, nil
}

func runTUI(ctx context.Context) error {
	store, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	self := cfg.Self()
	driver := ssb.NewDriver(store, self, ssb.DriverOptions{
		Replay: cfg.Network.Replay,
		Buffer: cfg.Network.Buffer,
	}, logger.Named("ssb"))

	rt, err := runtime.Start(app.Initial(), app.Composer{Banner: cfg.Banner()}.Main, runtime.Options{
		Self:      self,
		Publisher: driver,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer rt.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := driver.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("network: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer driver.Close()
		prog := tea.NewProgram(tui.New(rt, driver), tea.WithAltScreen(), tea.WithContext(gctx))
		final, err := prog.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("tui: %w", err)
		}
		if m, ok := final.(tui.Model); ok {
			return m.Err()
		}
		return nil
	})
	return g.Wait()
}
