package root

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cone387/ttask/internal/api"
	"github.com/cone387/ttask/internal/config"
	"github.com/cone387/ttask/internal/prefs"
	"github.com/cone387/ttask/internal/ui"
	"github.com/cone387/ttask/internal/ui/keys"
)

// Version information set via ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "ttask",
	Short:         "Terminal client for the ttask todo backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap()
		if err != nil {
			return err
		}
		defer env.close()

		app := ui.NewApp(env.client, env.store, keys.FromConfig(env.cfg.Keys), env.log)
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}

func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newListCmd(),
		newShowCmd(),
		newStatsCmd(),
		newTagCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env holds everything a command needs: config, logger, api client and the
// local preferences store.
type env struct {
	cfg    config.Config
	log    *slog.Logger
	client *api.Client
	store  *prefs.Store

	logFile *os.File
}

func (e *env) close() {
	e.store.Close()
	if e.logFile != nil {
		e.logFile.Close()
	}
}

func bootstrap() (*env, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("locate config: %w", err)
	}
	cfg, err := config.LoadOrCreate(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var logFile *os.File
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		logOut = f
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.ParseLogLevel()}))

	client, err := api.New(cfg.APIURL, log)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}

	dbPath, err := prefs.DefaultPath()
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("locate data dir: %w", err)
	}
	store, err := prefs.Open(dbPath)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	return &env{cfg: cfg, log: log, client: client, store: store, logFile: logFile}, nil
}

// restoreSession installs the saved token pair on the client, for the
// non-interactive subcommands.
func (e *env) restoreSession() error {
	raw := e.store.Session()
	if raw == "" {
		return fmt.Errorf("not logged in, run %q once to sign in", "ttask")
	}
	var pair api.TokenPair
	if err := json.Unmarshal([]byte(raw), &pair); err != nil {
		return fmt.Errorf("saved session is unreadable, run %q to sign in again", "ttask")
	}
	e.client.SetTokens(pair)
	return nil
}
