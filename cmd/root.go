package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudmovies/config"
	"github.com/s0up4200/cloudmovies/radarr"
	"github.com/s0up4200/cloudmovies/tui"
)

// skipInit marks commands that run without a config file
const skipInit = "skip-init"

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build version and time
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// rootCmd represents the base command; without a subcommand it runs the TUI
var rootCmd = &cobra.Command{
	Use:   "cloudmovies",
	Short: "Discover movies and TV shows and keep a watchlist, from the terminal",
	Long: `cloudmovies is a terminal client for TMDB. Sign in with your TMDB account
(or continue as a guest), browse what is popular, search for titles and keep
a watchlist that can be handed over to Radarr.`,
	PersistentPreRunE: initializeApp,
	RunE:              runTUI,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.cloudmovies/config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp loads the configuration and sets up the logger
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipInit] == "true" {
		logger = setupLogger(config.LoggingConfig{Level: "info", Color: true}, os.Stderr)
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stderr)
	return nil
}

// setupLogger configures the zerolog logger writing to out
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openLogFile opens the TUI log file for appending
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("the interactive UI needs a terminal; see --help for the other commands")
	}

	// the UI owns the terminal, so logs go to a file
	logFile, err := openLogFile(cfg.Logging.File)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger = setupLogger(cfg.Logging, logFile)

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	deps := tui.Deps{
		Auth:      svc.auth,
		Browse:    svc.tmdb,
		Watchlist: svc.watchlist,
		Settings:  svc.settings,
		Bus:       svc.bus,
		Logger:    logger,
	}
	if svc.recents != nil {
		deps.Recents = svc.recents
	}

	app := tui.New(ctx, deps, tui.Options{
		SplashDelay:    cfg.UI.SplashDelay,
		Transition:     cfg.UI.Transition,
		SkipOnboarding: cfg.Session.SkipOnboarding,
	})

	logger.Info().Str("version", version).Msg("Starting UI")
	_, err = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("ui exited: %w", err)
	}
	return nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB and Radarr",
	Long:  `Test the connection to the TMDB API and, when enabled, to your Radarr instance.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Printf("Testing connection to TMDB at %s...\n", cfg.TMDB.URL)
	client, err := newTMDBClient()
	if err != nil {
		return err
	}
	if err := client.TestConnection(ctx); err != nil {
		return err
	}
	fmt.Println("✓ Connection successful!")

	if !cfg.Radarr.Enabled {
		fmt.Println("\nRadarr integration: Disabled")
		return nil
	}

	fmt.Printf("\nTesting connection to Radarr at %s...\n", cfg.Radarr.URL)
	rc, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
	if err != nil {
		return err
	}
	fmt.Println("✓ Radarr connection successful!")

	profile, err := rc.ResolveQualityProfile(ctx, cfg.Radarr.QualityProfile)
	if err != nil {
		return err
	}
	folder, err := rc.ResolveRootFolder(ctx, cfg.Radarr.RootFolder)
	if err != nil {
		return err
	}
	fmt.Printf("- Quality profile ID: %d\n", profile)
	fmt.Printf("- Root folder: %s\n", folder)

	return nil
}
