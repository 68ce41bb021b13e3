package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"autotheme/internal/domain"
	"autotheme/internal/logging"
	"autotheme/internal/usecase"
)

func newShellCmd(opts *rootOptions) *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run the scheduler with an interactive command prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := opts.startScheduler(ctx)
			if err != nil {
				return err
			}
			defer s.release()

			return runInteractiveShell(prompt, &shell{
				opts:      opts,
				scheduler: s.manager,
				out:       cmd.OutOrStdout(),
				verbosity: opts.verbosity,
			})
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "autotheme> ", "shell prompt")
	return cmd
}

// shell interprets one line at a time against a running scheduler.
type shell struct {
	opts      *rootOptions
	scheduler usecase.Scheduler
	out       io.Writer
	verbosity int
}

func runInteractiveShell(prompt string, sh *shell) error {
	historyFile := filepath.Join(os.TempDir(), "autotheme-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(sh.out, "Interactive shell started. Type 'help' for commands, 'exit' to quit.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(sh.out)
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(sh.out)
			return nil
		}
		if err != nil {
			return err
		}
		if sh.handle(line) {
			return nil
		}
	}
}

// handle runs one input line and reports whether the shell should exit.
func (sh *shell) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	tokens, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(sh.out, "Parse error: %v\n", err)
		return false
	}
	if len(tokens) == 0 {
		return false
	}

	switch tokens[0] {
	case "exit", "quit":
		fmt.Fprintln(sh.out, "Bye!")
		return true
	case "help":
		sh.printHelp()
	case "toggle":
		sh.report(sh.scheduler.ToggleNow())
	case "auto":
		sh.handleAuto(tokens[1:])
	case "apply":
		sh.handleApply(tokens[1:])
	case "status":
		sh.printStatus()
	case "log":
		if err := sh.handleLog(tokens[1:]); err != nil {
			fmt.Fprintf(sh.out, "log: %v\n", err)
		}
	case "daemon", "serve", "shell":
		fmt.Fprintln(sh.out, "The scheduler is already running in this shell.")
	default:
		if err := sh.execute(tokens); err != nil {
			fmt.Fprintf(sh.out, "command error: %v\n", err)
		}
	}
	return false
}

func (sh *shell) handleAuto(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "usage: auto on|off")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on", "true":
		sh.report(sh.scheduler.SetAutomatic(true))
	case "off", "false":
		sh.report(sh.scheduler.SetAutomatic(false))
	default:
		fmt.Fprintln(sh.out, "usage: auto on|off")
	}
}

func (sh *shell) handleApply(args []string) {
	var profile *bool
	if len(args) > 0 {
		isDay, err := domain.ParseProfileName(args[0])
		if err != nil {
			fmt.Fprintf(sh.out, "apply: %v\n", err)
			return
		}
		profile = &isDay
	}
	sh.report(sh.scheduler.ApplyOnce(profile))
}

// report prints the outcome of a scheduler command.
func (sh *shell) report(err error) {
	if err != nil {
		fmt.Fprintf(sh.out, "error: %v\n", err)
	}
	sh.printStatus()
}

func (sh *shell) printStatus() {
	snap := sh.scheduler.Snapshot()
	mode := "manual"
	if snap.AutoSwitch {
		mode = "automatic"
	}
	fmt.Fprintf(sh.out, "profile: %s (%s), last apply: %s\n",
		domain.ProfileName(snap.Activation.IsDay), mode, snap.LastApplyStatus)
	if !snap.NextRun.IsZero() {
		fmt.Fprintf(sh.out, "next check: %s\n", snap.NextRun.Format(time.TimeOnly))
	}
	if snap.LastError != nil {
		fmt.Fprintf(sh.out, "last error: %v\n", snap.LastError)
	}
}

// execute runs a one-shot subcommand with the shell's global flags.
func (sh *shell) execute(args []string) error {
	root := newRootCmd(&rootOptions{newAppearance: sh.opts.newAppearance})
	args = append(args,
		"--config", sh.opts.cfgPath,
		fmt.Sprintf("--verbose=%d", sh.verbosity),
	)
	if sh.opts.envFile != "" {
		args = append(args, "--env-file", sh.opts.envFile)
	}
	if sh.opts.dryRun {
		args = append(args, "--dry-run")
	}
	root.SetArgs(args)
	root.SetOut(sh.out)
	root.SetErr(sh.out)
	return root.Execute()
}

func (sh *shell) handleLog(args []string) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "set level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(sh.out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		sh.verbosity = count
	case vcount > 0:
		sh.verbosity = vcount
	default:
		fmt.Fprintf(sh.out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	logging.SetVerbosity(sh.verbosity)
	fmt.Fprintf(sh.out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.out, `Commands:
  toggle                      # switch day/night until the next scheduled check
  auto on|off                 # resume or suspend automatic switching
  apply [day|night]           # re-apply the scheduled or given profile
  status                      # show the active profile
  config get                  # print the configuration
  config set --sunset 19:30   # update the configuration
  resolve --at 07:00 --plan   # show what the schedule selects
  theme inspect FILE          # print a theme file's settings
  log -vv                     # more detailed logging
  log --show                  # show the current log level
  exit / quit                 # leave the shell`)
}
