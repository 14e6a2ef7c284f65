package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/recipes/internal/api"
	"github.com/Makepad-fr/recipes/internal/config"
	"github.com/Makepad-fr/recipes/internal/listview"
	"github.com/Makepad-fr/recipes/internal/logging"
	"github.com/Makepad-fr/recipes/internal/ui"
)

const name = "recipes"

// overridden during build with ldflags
var version = "dev"

// Exit codes: 0 ok, 1 operation failed, 2 usage error.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// exitError carries the exit code and the line printed for it.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: exitUsage, msg: fmt.Sprintf(format, args...)}
}

func failure(what string, err error) error {
	return &exitError{code: exitFail, msg: what + ": " + err.Error()}
}

// app holds what every subcommand shares.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	var lsFlags listFlags
	root := &cobra.Command{
		Use:   name,
		Short: "recipes - browse and edit a remote recipe collection",
		Long: fmt.Sprintf(`recipes - browse and edit a remote recipe collection

Version: %s

Without a subcommand the interactive list opens. Every change is sent to the
API and the whole list is reloaded afterwards.`, version),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown subcommand: %s", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, lsFlags)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.recipes.yaml)")
	pf.String("api-url", config.DefaultAPIURL, "recipes collection endpoint")
	pf.Duration("timeout", config.DefaultTimeout, "per-request timeout (0 disables)")
	pf.Float64("rate-limit", 0, "max requests per second (0 is unlimited)")
	pf.String("user-agent", "", "User-Agent header override")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "log destination (interactive default: user cache dir)")
	pf.String("theme", "classic", "color theme (classic, neon, mono)")
	pf.Bool("color", false, "force colors even when output is not a terminal")
	pf.Bool("no-color", false, "disable colors (wins over --color)")
	pf.Bool("show-errors", false, "show request failures in the interactive status line")
	pf.Bool("keep-edit-on-failure", false, "keep the edit form open when saving fails")

	if err := bindFlags(a.v, pf, map[string]string{
		config.KeyAPIURL:            "api-url",
		config.KeyTimeout:           "timeout",
		config.KeyRateLimit:         "rate-limit",
		config.KeyUserAgent:         "user-agent",
		config.KeyLogLevel:          "log-level",
		config.KeyLogFile:           "log-file",
		config.KeyTheme:             "theme",
		config.KeyColor:             "color",
		config.KeyNoColor:           "no-color",
		config.KeyShowErrors:        "show-errors",
		config.KeyKeepEditOnFailure: "keep-edit-on-failure",
	}); err != nil {
		panic(err)
	}

	addListFlags(root, &lsFlags)
	root.AddCommand(
		newListCommand(a),
		newAddCommand(a),
		newEditCommand(a),
		newRemoveCommand(a),
		newExportCommand(a),
	)
	return root
}

// bindFlags maps config keys to the flags in fs that set them.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, flag := range keys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s to %s: %w", flag, key, err)
		}
	}
	return nil
}

func (a *app) loadConfig() error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return usageErrorf("%v", err)
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return usageErrorf("config: %v", err)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)
	ui.SetColorForcing(cfg.Color, cfg.NoColor)
	return nil
}

// setupLogging installs the default logger. Interactive runs always log to
// a file so the terminal stays clean.
func (a *app) setupLogging(stderr io.Writer, interactive bool) (func() error, error) {
	file := a.cfg.LogFile
	if interactive && file == "" {
		file = logging.DefaultFile(name)
	}
	_, closeFn, err := logging.Setup(logging.Options{
		Module:  name,
		Version: version,
		Level:   a.cfg.LogLevel,
		File:    file,
		Stderr:  stderr,
	})
	if err != nil {
		return nil, failure("logging", err)
	}
	slog.Debug("starting", "name", name, "version", version, "api_url", a.cfg.APIURL)
	return closeFn, nil
}

func (a *app) newView() *listview.View {
	client := api.NewClient(a.cfg.APIURL,
		api.WithTimeout(a.cfg.Timeout),
		api.WithRateLimit(a.cfg.RateLimit),
		api.WithUserAgent(a.cfg.UserAgent),
		api.WithLogger(slog.Default()),
	)
	return listview.New(client,
		listview.WithSavePolicy(a.cfg.SavePolicy()),
		listview.WithLogger(slog.Default()),
	)
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCommand(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		ui.Fail(stderr, ee.msg)
		if ee.code == exitUsage {
			fmt.Fprintln(stderr, ui.Current().Muted.Render("Run `recipes --help` for usage."))
		}
		return ee.code
	}
	ui.Fail(stderr, err.Error())
	return exitFail
}
