package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "task_manager.db"

	defaultDataDir  = "~/.local/share/taskdeck"
	defaultLogFile  = "~/.local/share/taskdeck/logs/app.log"
	defaultLogLevel = "info"
)

// Environment overrides.
const (
	EnvConfig     = "TASKDECK_CONFIG"
	EnvLogLevel   = "TASKDECK_LOG_LEVEL"
	EnvDBDir      = "TASK_MANAGER_DB_DIR"
	EnvDBFilename = "TASK_MANAGER_DB_FILENAME"
)

// Keymap binds each action to one or more key names as reported by Bubble
// Tea ("a", "enter", "pgup", ...).
type Keymap struct {
	Quit        []string `toml:"quit"`
	Up          []string `toml:"up"`
	Down        []string `toml:"down"`
	PrevTopic   []string `toml:"prev_topic"`
	NextTopic   []string `toml:"next_topic"`
	Add         []string `toml:"add"`
	QuickAdd    []string `toml:"quick_add"`
	Edit        []string `toml:"edit"`
	Toggle      []string `toml:"toggle"`
	Favourite   []string `toml:"favourite"`
	Delete      []string `toml:"delete"`
	Expand      []string `toml:"expand"`
	AddTopic    []string `toml:"add_topic"`
	DeleteTopic []string `toml:"delete_topic"`
	Help        []string `toml:"help"`
	LogsOlder   []string `toml:"logs_older"`
	LogsNewer   []string `toml:"logs_newer"`
	Yank        []string `toml:"yank"`
	Confirm     []string `toml:"confirm"`
	Cancel      []string `toml:"cancel"`
	Back        []string `toml:"back"`
}

type Config struct {
	DBDir      string `toml:"db_dir"`
	DBFilename string `toml:"db_filename"`
	LogFile    string `toml:"log_file"`
	LogLevel   string `toml:"log_level"`
	Keys       Keymap `toml:"keys"`
}

// DBPath is the full path of the SQLite file.
func (c Config) DBPath() string {
	return filepath.Join(c.DBDir, c.DBFilename)
}

// ResolveConfigPath picks the config file: the explicit path if given, then
// $TASKDECK_CONFIG, then taskdeck/config.toml under the user config dir.
func ResolveConfigPath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return expandPath(explicit)
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfig)); env != "" {
		return expandPath(env)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "taskdeck", DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Environment overrides are applied after the
// file is read.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDBDir)); v != "" {
		cfg.DBDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBFilename)); v != "" {
		cfg.DBFilename = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

func (c *Config) normalize() error {
	def := defaultConfig()
	if strings.TrimSpace(c.DBDir) == "" {
		c.DBDir = def.DBDir
	}
	if strings.TrimSpace(c.DBFilename) == "" {
		c.DBFilename = def.DBFilename
	}
	if strings.TrimSpace(c.LogFile) == "" {
		c.LogFile = def.LogFile
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = def.LogLevel
	}

	var err error
	if c.DBDir, err = expandPath(c.DBDir); err != nil {
		return fmt.Errorf("db_dir: %w", err)
	}
	if c.LogFile, err = expandPath(c.LogFile); err != nil {
		return fmt.Errorf("log_file: %w", err)
	}
	c.Keys.fillFrom(def.Keys)
	return nil
}

// fillFrom restores the default binding of every action left empty.
func (k *Keymap) fillFrom(def Keymap) {
	pairs := []struct {
		dst *[]string
		src []string
	}{
		{&k.Quit, def.Quit},
		{&k.Up, def.Up},
		{&k.Down, def.Down},
		{&k.PrevTopic, def.PrevTopic},
		{&k.NextTopic, def.NextTopic},
		{&k.Add, def.Add},
		{&k.QuickAdd, def.QuickAdd},
		{&k.Edit, def.Edit},
		{&k.Toggle, def.Toggle},
		{&k.Favourite, def.Favourite},
		{&k.Delete, def.Delete},
		{&k.Expand, def.Expand},
		{&k.AddTopic, def.AddTopic},
		{&k.DeleteTopic, def.DeleteTopic},
		{&k.Help, def.Help},
		{&k.LogsOlder, def.LogsOlder},
		{&k.LogsNewer, def.LogsNewer},
		{&k.Yank, def.Yank},
		{&k.Confirm, def.Confirm},
		{&k.Cancel, def.Cancel},
		{&k.Back, def.Back},
	}
	for _, p := range pairs {
		if len(*p.dst) == 0 {
			*p.dst = p.src
		}
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

func defaultConfig() Config {
	return Config{
		DBDir:      defaultDataDir,
		DBFilename: DefaultDBName,
		LogFile:    defaultLogFile,
		LogLevel:   defaultLogLevel,
		Keys: Keymap{
			Quit:        []string{"q", "ctrl+c"},
			Up:          []string{"k", "up"},
			Down:        []string{"j", "down"},
			PrevTopic:   []string{"h", "left"},
			NextTopic:   []string{"l", "right"},
			Add:         []string{"a"},
			QuickAdd:    []string{"A"},
			Edit:        []string{"e"},
			Toggle:      []string{"t"},
			Favourite:   []string{"f"},
			Delete:      []string{"d"},
			Expand:      []string{"enter"},
			AddTopic:    []string{"N"},
			DeleteTopic: []string{"X"},
			Help:        []string{"H"},
			LogsOlder:   []string{"pgup"},
			LogsNewer:   []string{"pgdown"},
			Yank:        []string{"y"},
			Confirm:     []string{"enter"},
			Cancel:      []string{"esc"},
			Back:        []string{"tab"},
		},
	}
}
