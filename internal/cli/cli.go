package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/etkinlik-toplayici/etkinlik/internal/config"
	"github.com/etkinlik-toplayici/etkinlik/internal/filter"
	"github.com/etkinlik-toplayici/etkinlik/internal/logger"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitNewListings = 2
)

// Environment variables that provide flag defaults.
const (
	EnvConfig  = "ETKINLIK_CONFIG"
	EnvDataDir = "ETKINLIK_DATA_DIR"

	EnvTelegramToken = "ETKINLIK_TELEGRAM_TOKEN"
)

// app carries what every command needs once the root pre-run has finished.
type app struct {
	stdout io.Writer
	stderr io.Writer

	flagConfig    string
	flagDataDir   string
	flagLogLevel  string
	flagLogFormat string
	flagNow       string
	flagVerbose   bool

	cfg      *config.Config
	log      *logger.Logger
	runID    string
	now      time.Time
	exitCode int
}

// NewRootCmd creates the root command writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return newApp(stdout, stderr).rootCmd()
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, exitCode: ExitSuccess}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "etkinlik",
		Short: "Collect events and scholarships from Turkish listing sites",
		Long: `A CLI tool that scrapes event listings from Biletinial and Bubilet and
scholarship announcements from Microfon, normalizes their Turkish date texts
to DD.MM.YYYY, and tracks listings across runs so new ones can be reported.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flagConfig, "config", os.Getenv(EnvConfig), "Config file (.yaml, .yml or .toml) [$"+EnvConfig+"]")
	pf.StringVar(&a.flagDataDir, "data-dir", os.Getenv(EnvDataDir), "Data directory for snapshots [$"+EnvDataDir+"] (default "+config.DefaultDataDir+")")
	pf.StringVar(&a.flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.flagLogFormat, "log-format", "", "Log format: json or text")
	pf.StringVar(&a.flagNow, "now", "", "Reference date for year inference and filters (DD.MM.YYYY or RFC 3339)")
	pf.BoolVarP(&a.flagVerbose, "verbose", "v", false, "Enable verbose output and debug logging")

	cmd.AddCommand(a.scrapeCmd())
	cmd.AddCommand(a.normalizeCmd())
	cmd.AddCommand(a.snapshotsCmd())

	return cmd
}

// setup loads configuration, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.flagConfig != "" {
		loaded, err := config.LoadFrom(a.flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if a.flagDataDir != "" {
		cfg.DataDir = a.flagDataDir
	}
	if a.flagLogLevel != "" {
		cfg.Log.Level = a.flagLogLevel
	}
	if a.flagLogFormat != "" {
		cfg.Log.Format = a.flagLogFormat
	}
	if a.flagVerbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	now, err := parseNow(a.flagNow)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.now = now
	a.runID = uuid.NewString()

	base := logger.New(level, cfg.Log.Format, a.stderr)
	logger.SetDefault(base)
	a.log = base.With(logger.Fields{"run_id": a.runID})

	a.log.Debug("configuration loaded", logger.Fields{
		"command":  cmd.CommandPath(),
		"config":   a.flagConfig,
		"data_dir": cfg.DataDir,
	})
	return nil
}

// parseNow accepts "" (current time), DD.MM.YYYY or RFC 3339.
func parseNow(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now(), nil
	}
	if t, err := filter.ParseDay(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q (use DD.MM.YYYY or RFC 3339)", s)
	}
	return t, nil
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	cmd := a.rootCmd()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return a.exitCode
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
