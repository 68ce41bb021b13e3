package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"autotheme/internal/adapter/primary/web"
	"autotheme/internal/adapter/secondary/appearance"
	"autotheme/internal/adapter/secondary/repository"
	"autotheme/internal/core"
	"autotheme/internal/domain"
	"autotheme/internal/logging"
	"autotheme/internal/themefile"
)

// EnvPrefix prefixes the environment variables that mirror the global flags.
const EnvPrefix = "AUTOTHEME"

// ErrAlreadyRunning is returned when another scheduler holds the config lock.
var ErrAlreadyRunning = errors.New("another autotheme instance is already running for this config")

// rootOptions holds the resolved global flags for one command tree.
type rootOptions struct {
	v *viper.Viper

	cfgPath   string
	verbosity int
	envFile   string
	dryRun    bool

	// newAppearance is replaced in tests.
	newAppearance func() domain.Appearance
}

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{newAppearance: appearance.Native})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "autotheme",
		Short:         "Switch between day and night desktop appearance on a schedule",
		Long:          "Scheduler + Web UI + CLI that applies a day or night theme at sunrise and sunset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.v = viper.New()
	opts.v.SetEnvPrefix(EnvPrefix)
	opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	opts.v.AutomaticEnv()

	flags := cmd.PersistentFlags()
	flags.String("config", repository.DefaultPath(), "config file path (.json, .toml, .yaml)")
	flags.CountP("verbose", "v", "increase logging detail (-v, -vv, ... up to 4)")
	flags.String("env-file", "", "dotenv file providing variables for theme file placeholders")
	flags.Bool("dry-run", false, "log appearance changes instead of performing them")
	for _, name := range []string{"config", "verbose", "env-file", "dry-run"} {
		if err := opts.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		opts.cfgPath = opts.v.GetString("config")
		opts.verbosity = opts.v.GetInt("verbose")
		opts.envFile = opts.v.GetString("env-file")
		opts.dryRun = opts.v.GetBool("dry-run")
		if opts.cfgPath == "" {
			return errors.New("config path is empty")
		}
		logging.SetVerbosity(opts.verbosity)
		return nil
	}

	cmd.AddCommand(
		newDaemonCmd(opts),
		newServeCmd(opts),
		newShellCmd(opts),
		newConfigCmd(opts),
		newApplyCmd(opts),
		newResolveCmd(opts),
		newThemeCmd(opts),
	)

	return cmd
}

func (o *rootOptions) openRepository() (*repository.FileRepository, error) {
	return repository.NewFileRepository(o.cfgPath)
}

func (o *rootOptions) appearance() domain.Appearance {
	if o.dryRun {
		return appearance.NewNoopAppearance()
	}
	return o.newAppearance()
}

// parser builds the theme parser, resolving placeholders from the env file
// first and the process environment second.
func (o *rootOptions) parser() (*themefile.Parser, error) {
	lookup := themefile.Lookup(os.LookupEnv)
	if o.envFile != "" {
		vars, err := godotenv.Read(o.envFile)
		if err != nil {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		lookup = themefile.MapLookup(vars, os.LookupEnv)
	}
	return themefile.NewParser(themefile.WithExpander(themefile.EnvExpander(lookup))), nil
}

func (o *rootOptions) applier() (*core.Applier, error) {
	parser, err := o.parser()
	if err != nil {
		return nil, err
	}
	return core.NewApplier(parser), nil
}

// lock takes the single-instance lock that sits next to the config file.
func (o *rootOptions) lock() (*flock.Flock, error) {
	lock := flock.New(o.cfgPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire process lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return lock, nil
}

// scheduler is a started manager together with its resources.
type scheduler struct {
	manager *core.Manager
	release func()
}

// startScheduler locks the config, starts the manager and watches the
// config file for external edits.
func (o *rootOptions) startScheduler(ctx context.Context) (*scheduler, error) {
	repo, err := o.openRepository()
	if err != nil {
		return nil, err
	}
	lock, err := o.lock()
	if err != nil {
		return nil, err
	}
	release := func() {
		if err := lock.Unlock(); err != nil {
			logging.Warnf("failed to release process lock: %v", err)
		}
	}

	applier, err := o.applier()
	if err != nil {
		release()
		return nil, err
	}
	manager, err := core.NewManager(repo, o.appearance(), core.WithApplier(applier))
	if err != nil {
		release()
		return nil, err
	}
	if err := manager.Start(ctx); err != nil {
		release()
		return nil, err
	}

	if err := repository.Watch(ctx, repo.Path(), func() { reloadFromDisk(repo, manager) }); err != nil {
		logging.Warnf("config watcher disabled: %v", err)
	}

	return &scheduler{manager: manager, release: release}, nil
}

// reloadFromDisk activates an externally edited config. Saves made by the
// manager itself load back unchanged and are ignored.
func reloadFromDisk(repo domain.ConfigRepository, manager *core.Manager) {
	cfg, err := repo.Load()
	if err != nil {
		logging.Warnf("reload config: %v", err)
		return
	}
	if cfg == manager.CurrentConfig() {
		return
	}
	logging.Infof("config file changed, reloading")
	if err := manager.ReloadConfig(cfg); err != nil {
		logging.Warnf("reload config: %v", err)
	}
}

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the scheduler only (no web server)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := opts.startScheduler(ctx)
			if err != nil {
				return err
			}
			defer s.release()

			fmt.Fprintln(cmd.OutOrStdout(), "autotheme daemon started")
			logging.Infof("Scheduler daemon started (config: %s)", opts.cfgPath)

			<-s.manager.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon shutting down...")
			return nil
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := opts.startScheduler(ctx)
			if err != nil {
				return err
			}
			defer s.release()

			srv := web.NewServer(s.manager, addr)
			fmt.Fprintf(cmd.OutOrStdout(), "autotheme UI running at http://%s\n", addr)
			logging.Infof("autotheme UI: http://%s", addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			return srv.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7070", "HTTP listen address host:port")
	return cmd
}
