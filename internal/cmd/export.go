package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/FdezRomero/whimsical-exporter/internal/browser"
	"github.com/FdezRomero/whimsical-exporter/internal/config"
	"github.com/FdezRomero/whimsical-exporter/internal/display"
	"github.com/FdezRomero/whimsical-exporter/internal/engine"
	"github.com/FdezRomero/whimsical-exporter/internal/filelock"
	"github.com/FdezRomero/whimsical-exporter/internal/history"
	"github.com/FdezRomero/whimsical-exporter/internal/logger"
	"github.com/FdezRomero/whimsical-exporter/internal/prompt"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [folder-url]",
		Short: "Recursively export a Whimsical folder to local files",
		Long: `Export signs in to Whimsical and mirrors the folder tree rooted at the
given folder URL onto local storage, one directory per folder and one file
per board and format.

Credentials and the folder URL resolve in priority order: flag (where one
exists), environment variable, config file, interactive prompt. The
password is never accepted as a flag; set ` + config.EnvPassword + ` or type it at
the prompt.

Existing files are treated as complete: re-running an interrupted export
fetches only what is still missing.

Examples:
  # Everything from the environment
  WHIMSICAL_EMAIL=me@example.com WHIMSICAL_PASSWORD=secret \
    whimsical-exporter export https://whimsical.com/my-folder-Ab12Cd

  # Formats and output directory as flags
  whimsical-exporter export --formats svg,png,pdf --output-dir ./boards \
    https://whimsical.com/my-folder-Ab12Cd

  # Watch the browser work
  whimsical-exporter export --headful https://whimsical.com/my-folder-Ab12Cd`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().String("config", "", "Path to config file (default: "+config.DefaultConfigPath+")")
	cmd.Flags().String("email", "", "Whimsical account email")
	cmd.Flags().String("formats", "", "Comma-separated export formats: svg, png, pdf")
	cmd.Flags().String("output-dir", "", "Directory to export into")
	cmd.Flags().String("timeout", "", "Per-interaction timeout (e.g. 30s, 2m)")
	cmd.Flags().Bool("headful", false, "Show the browser window for diagnosis")
	cmd.Flags().Bool("verbose", false, "Show detailed progress (debug-level logging)")
	cmd.Flags().String("log-dir", "", "Directory for run log files")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadExportConfig(cmd)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}

	formats, err := engine.ParseFormats(cfg.Formats)
	if err != nil {
		return err
	}

	folderURL, err := resolveFolderURL(args, cfg.BaseURL)
	if err != nil {
		return err
	}

	email, password, err := resolveCredentials(cmd)
	if err != nil {
		return err
	}

	// One run at a time per output root: concurrent runs would trust each
	// other's half-finished skip decisions.
	lock, err := filelock.New(cfg.OutputDir)
	if err != nil {
		return err
	}
	acquired, err := lock.TryAcquire()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("another export is already running against %s (lock: %s)", cfg.OutputDir, lock.Path())
	}
	defer lock.Release()

	runID := uuid.New().String()

	consoleLog := logger.NewConsoleLogger(os.Stdout, logLevel)
	fileLog, err := logger.NewFileLogger(cfg.LogDir, runID, logLevel)
	if err != nil {
		// File logging is best-effort; the console carries the run.
		consoleLog.LogWarn(fmt.Sprintf("file logging disabled: %v", err))
	}
	var log engine.Logger = consoleLog
	if fileLog != nil {
		defer fileLog.Close()
		log = logger.NewMultiLogger(consoleLog, fileLog)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.LogInfo(fmt.Sprintf("starting export of %s (formats: %s)", folderURL, engine.FormatStrings(formats)))

	session, err := browser.NewSession(ctx, browser.Options{
		Headful: cfg.Headful,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer session.Close()

	if err := session.Login(ctx, cfg.BaseURL, email, password); err != nil {
		return err
	}
	log.LogInfo("signed in")

	var progressFn engine.ProgressFunc
	if !verbose && isatty.IsTerminal(os.Stdout.Fd()) {
		indicator := display.NewProgressIndicator(os.Stdout)
		progressFn = indicator.Step
	}

	eng, err := engine.New(engine.Options{
		Surface:        session,
		BaseURL:        cfg.BaseURL,
		Formats:        formats,
		Logger:         log,
		PaginationWait: cfg.PaginationWait,
		Progress:       progressFn,
	})
	if err != nil {
		return err
	}

	started := time.Now()
	runErr := eng.ExportFolder(ctx, folderURL, cfg.OutputDir)

	stats := eng.Stats()
	stats.Duration = time.Since(started)
	log.LogSummary(stats)

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if cfg.History.Enabled && !noHistory {
		recordRun(log, cfg, runID, folderURL, formats, started, stats, runErr)
	}

	return runErr
}

// loadExportConfig loads the YAML config and overlays environment variables
// and CLI flags, in that order.
func loadExportConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	if v, _ := cmd.Flags().GetString("formats"); v != "" {
		cfg.Formats = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("log-dir"); v != "" {
		cfg.LogDir = v
	}
	if v, _ := cmd.Flags().GetString("timeout"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", v, err)
		}
		cfg.Timeout = timeout
	}
	if headful, _ := cmd.Flags().GetBool("headful"); headful {
		cfg.Headful = true
	}

	return cfg, nil
}

// resolveFolderURL resolves the starting folder: argument, environment, or
// interactive prompt. The URL must live under the service base URL.
func resolveFolderURL(args []string, baseURL string) (string, error) {
	folderURL := ""
	if len(args) > 0 {
		folderURL = args[0]
	}
	if folderURL == "" {
		folderURL = os.Getenv(config.EnvFolderURL)
	}
	if folderURL == "" && prompt.CanPrompt() {
		var err error
		folderURL, err = prompt.Text("Folder URL")
		if err != nil {
			return "", err
		}
	}
	if folderURL == "" {
		return "", fmt.Errorf("no folder URL given; pass it as an argument or set %s", config.EnvFolderURL)
	}

	folderURL = strings.TrimSuffix(strings.TrimSpace(folderURL), "/")
	if _, err := engine.LocalName(baseURL, folderURL); err != nil {
		return "", fmt.Errorf("invalid folder URL: %w", err)
	}
	return folderURL, nil
}

// resolveCredentials resolves email and password: flag (email only),
// environment, or interactive prompt.
func resolveCredentials(cmd *cobra.Command) (string, string, error) {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = os.Getenv(config.EnvEmail)
	}
	if email == "" && prompt.CanPrompt() {
		var err error
		email, err = prompt.Text("Email")
		if err != nil {
			return "", "", err
		}
	}
	if email == "" {
		return "", "", fmt.Errorf("no email given; use --email or set %s", config.EnvEmail)
	}

	password := os.Getenv(config.EnvPassword)
	if password == "" && prompt.CanPrompt() {
		var err error
		password, err = prompt.Password("Password")
		if err != nil {
			return "", "", err
		}
	}
	if password == "" {
		return "", "", fmt.Errorf("no password given; set %s", config.EnvPassword)
	}

	return email, password, nil
}

// recordRun stores the finished run in the history database. History is
// advisory, so failures only warn.
func recordRun(log engine.Logger, cfg *config.Config, runID, folderURL string, formats []engine.Format, started time.Time, stats engine.Stats, runErr error) {
	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("run history unavailable: %v", err))
		return
	}
	defer store.Close()

	status := history.StatusCompleted
	if runErr != nil {
		status = history.StatusFailed
	}

	record := &history.Run{
		ID:             runID,
		RootURL:        folderURL,
		Formats:        engine.FormatStrings(formats),
		StartedAt:      started,
		FinishedAt:     time.Now(),
		BoardsExported: stats.BoardsExported,
		BoardsSkipped:  stats.BoardsSkipped,
		EmptyBoards:    stats.EmptyBoards,
		FormatFailures: stats.FormatFailures,
		Status:         status,
	}

	if err := store.RecordRun(context.Background(), record); err != nil {
		log.LogWarn(fmt.Sprintf("failed to record run history: %v", err))
	}
}
