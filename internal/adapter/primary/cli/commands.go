package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"autotheme/internal/core"
	"autotheme/internal/domain"
	"autotheme/internal/logging"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration",
	}
	cmd.AddCommand(newConfigGetCmd(opts), newConfigSetCmd(opts))
	return cmd
}

// configView is the display form shared by the CLI and the shell.
func configView(cfg domain.Config) map[string]any {
	return map[string]any{
		"sunrise":                cfg.Sunrise.String(),
		"sunset":                 cfg.Sunset.String(),
		"checkIntervalMinutes":   cfg.CheckIntervalMinutes,
		"dayThemePath":           cfg.DayThemePath,
		"nightThemePath":         cfg.NightThemePath,
		"dayWallpaperOverride":   cfg.DayWallpaperOverride,
		"nightWallpaperOverride": cfg.NightWallpaperOverride,
		"useGeolocation":         cfg.UseGeolocation,
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newConfigGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openRepository()
			if err != nil {
				return err
			}
			cfg, err := repo.Load()
			if err != nil {
				return err
			}
			return printJSON(cmd, configView(cfg))
		},
	}
}

func newConfigSetCmd(opts *rootOptions) *cobra.Command {
	var (
		sunrise, sunset              string
		interval                     int
		dayTheme, nightTheme         string
		dayWallpaper, nightWallpaper string
		geolocation                  bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update configuration fields; a running scheduler picks the change up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openRepository()
			if err != nil {
				return err
			}
			cfg, err := repo.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("sunrise") {
				if cfg.Sunrise, err = domain.ParseTimeOfDay(sunrise); err != nil {
					return err
				}
			}
			if flags.Changed("sunset") {
				if cfg.Sunset, err = domain.ParseTimeOfDay(sunset); err != nil {
					return err
				}
			}
			if flags.Changed("interval") {
				cfg.CheckIntervalMinutes = interval
			}
			if flags.Changed("day-theme") {
				cfg.DayThemePath = dayTheme
			}
			if flags.Changed("night-theme") {
				cfg.NightThemePath = nightTheme
			}
			if flags.Changed("day-wallpaper") {
				cfg.DayWallpaperOverride = dayWallpaper
			}
			if flags.Changed("night-wallpaper") {
				cfg.NightWallpaperOverride = nightWallpaper
			}
			if flags.Changed("geolocation") {
				cfg.UseGeolocation = geolocation
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := repo.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved: sunrise=%s sunset=%s interval=%dm\n",
				cfg.Sunrise, cfg.Sunset, cfg.CheckIntervalMinutes)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&sunrise, "sunrise", "", "start of the day profile, HH:MM[:SS]")
	flags.StringVar(&sunset, "sunset", "", "start of the night profile, HH:MM[:SS]")
	flags.IntVar(&interval, "interval", domain.DefaultCheckIntervalMinutes, "schedule check interval in minutes")
	flags.StringVar(&dayTheme, "day-theme", "", "theme file applied during the day (empty clears)")
	flags.StringVar(&nightTheme, "night-theme", "", "theme file applied at night (empty clears)")
	flags.StringVar(&dayWallpaper, "day-wallpaper", "", "wallpaper overriding the day theme's (empty clears)")
	flags.StringVar(&nightWallpaper, "night-wallpaper", "", "wallpaper overriding the night theme's (empty clears)")
	flags.BoolVar(&geolocation, "geolocation", false, "reserved; stored but not used")
	return cmd
}

// parseAt reads --at, defaulting to the current local time.
func parseAt(at string) (domain.TimeOfDay, error) {
	if at == "" {
		return domain.TimeOfDayOf(time.Now()), nil
	}
	return domain.ParseTimeOfDay(at)
}

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var profileName string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the scheduled (or given) profile once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openRepository()
			if err != nil {
				return err
			}
			cfg, err := repo.Load()
			if err != nil {
				return err
			}
			applier, err := opts.applier()
			if err != nil {
				return err
			}

			isDay := domain.ResolveProfile(domain.TimeOfDayOf(time.Now()), cfg.Sunrise, cfg.Sunset)
			if profileName != "" {
				if isDay, err = domain.ParseProfileName(profileName); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applying %s profile...\n", domain.ProfileName(isDay))
			if err := core.Execute(opts.appearance(), applier.Sequence(isDay, cfg)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done")
			return nil
		},
	}
	cmd.Flags().StringVar(&profileName, "profile", "", "day|night; defaults to the scheduled profile")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		at   string
		plan bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print which profile the schedule selects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseAt(at)
			if err != nil {
				return err
			}
			repo, err := opts.openRepository()
			if err != nil {
				return err
			}
			cfg, err := repo.Load()
			if err != nil {
				return err
			}

			isDay := domain.ResolveProfile(now, cfg.Sunrise, cfg.Sunset)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s at %s (day %s-%s)\n", domain.ProfileName(isDay), now, cfg.Sunrise, cfg.Sunset)
			if !plan {
				return nil
			}

			applier, err := opts.applier()
			if err != nil {
				return err
			}
			for _, effect := range applier.Sequence(isDay, cfg) {
				fmt.Fprintf(out, "  %s\n", effect)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "time of day to resolve, HH:MM[:SS] (default now)")
	cmd.Flags().BoolVar(&plan, "plan", false, "also print the appearance changes that would be made")
	return cmd
}

func newThemeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Theme file utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the settings a theme file declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := opts.parser()
			if err != nil {
				return err
			}
			result := parser.Parse(args[0])

			keys := make([]string, 0, len(result.Settings))
			for k := range result.Settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, result.Settings[k])
			}
			if len(keys) == 0 {
				logging.Infof("%s declares no recognised settings", args[0])
			}
			return result.Err
		},
	})
	return cmd
}
