package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/glabrego/devwebfeed/internal/app"
	"github.com/glabrego/devwebfeed/internal/board"
	"github.com/glabrego/devwebfeed/internal/config"
	"github.com/glabrego/devwebfeed/internal/devweb"
	"github.com/glabrego/devwebfeed/internal/logging"
	"github.com/glabrego/devwebfeed/internal/realtime"
	"github.com/glabrego/devwebfeed/internal/storage"
	"github.com/glabrego/devwebfeed/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
	flagLogFile   string
	flagLocation  string
	flagEdit      bool
)

var (
	cfg       config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "devwebfeed",
	Short: "Live terminal view of the developer relations post board",
	Long: `devwebfeed lists the board's posts and tweets, keeps the list live through
the change feed and lets you filter by domain or author.

The location flag takes the query string the web board uses, e.g. "?domain=example.com".`,
	SilenceUsage:       true,
	PersistentPreRunE:  setUp,
	PersistentPostRunE: tearDown,
	RunE:               runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default: $XDG_CONFIG_HOME/devwebfeed/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "auto", "log format: auto, json or human")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", `log file, "-" for stdout (default from DEVWEBFEED_LOG_FILE)`)

	rootCmd.Flags().StringVar(&flagLocation, "location", "", `initial location, e.g. "?author=Ada"`)
	rootCmd.Flags().BoolVar(&flagEdit, "edit", false, "enable the delete action")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "devwebfeed %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setUp(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFromEnvWithFile(flagConfig)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logFile := cfg.LogFile
	if flagLogFile != "" {
		logFile = flagLogFile
	}
	logCloser, err = logging.SetUpLogger(flagLogLevel, flagLogFormat, logFile)
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	return nil
}

func tearDown(cmd *cobra.Command, args []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

type services struct {
	client  *devweb.Client
	repo    *storage.Repository
	service *app.Service
}

func openServices(ctx context.Context) (*services, error) {
	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := repo.Init(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("storage write check failed (%v). Verify DEVWEBFEED_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := devweb.NewClient(cfg.BaseURL, nil)
	return &services{
		client:  client,
		repo:    repo,
		service: app.NewService(client, repo, cfg.TweetHandle),
	}, nil
}

func (s *services) Close() error {
	return s.repo.Close()
}

func startLocation(raw string, edit bool) (*board.Location, error) {
	loc, err := board.ParseLocation(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --location %q: %w", raw, err)
	}
	if edit {
		loc.Query.Set("edit", "")
	}
	return loc, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	loc, err := startLocation(flagLocation, flagEdit)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	snapshot, err := svc.service.CachedSnapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not load post snapshot, starting empty")
	}
	prefs, err := svc.service.LoadPreferences(ctx, app.Preferences{IncludeTweets: cfg.IncludeTweets})
	if err != nil {
		log.Warn().Err(err).Msg("could not load preferences, using defaults")
	}

	model := tui.NewModel(svc.service, realtime.NewFeed(svc.client, cfg.PollInterval), tui.Options{
		Title:         "devwebfeed",
		Year:          svc.service.CurrentYear(),
		IncludeTweets: prefs.IncludeTweets,
		Location:      loc,
		Snapshot:      snapshot,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	final, err := program.Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	}
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
