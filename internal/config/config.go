package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultConfigFileName = "config.toml"

// Keymap holds the user-configurable key bindings
type Keymap struct {
	Quit         string `toml:"quit"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Add          string `toml:"add"`
	Edit         string `toml:"edit"`
	Delete       string `toml:"delete"`
	Toggle       string `toml:"toggle"`
	Star         string `toml:"star"`
	Grab         string `toml:"grab"`
	Drop         string `toml:"drop"`
	Cancel       string `toml:"cancel"`
	Search       string `toml:"search"`
	CycleGroupBy string `toml:"cycle_group_by"`
	CycleSort    string `toml:"cycle_sort"`
	FlipSort     string `toml:"flip_sort"`
	CycleView    string `toml:"cycle_view"`
	Reload       string `toml:"reload"`
	NewGroup     string `toml:"new_group"`
	RenameGroup  string `toml:"rename_group"`
	Projects     string `toml:"projects"`
	Collapse     string `toml:"collapse"`
}

type Config struct {
	APIURL   string `toml:"api_url"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	Keys     Keymap `toml:"keys"`
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	return nil
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultPath returns the config file location under the XDG config
// directory, creating the app directory if needed.
func DefaultPath() (string, error) {
	confDir := os.Getenv("XDG_CONFIG_HOME")
	if confDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		confDir = filepath.Join(home, ".config")
	}
	appDir := filepath.Join(confDir, "ttask")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config file at path, writing one with defaults
// if it does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultConfig().APIURL
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		APIURL:   "http://localhost:8000/api",
		LogLevel: "info",
		Keys: Keymap{
			Quit:         "q",
			Up:           "k",
			Down:         "j",
			Add:          "a",
			Edit:         "e",
			Delete:       "d",
			Toggle:       " ",
			Star:         "*",
			Grab:         "m",
			Drop:         "enter",
			Cancel:       "esc",
			Search:       "/",
			CycleGroupBy: "g",
			CycleSort:    "s",
			FlipSort:     "o",
			CycleView:    "v",
			Reload:       "r",
			NewGroup:     "G",
			RenameGroup:  "R",
			Projects:     "p",
			Collapse:     "tab",
		},
	}
}
