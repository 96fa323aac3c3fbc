package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	FilePath     string
	UseStdin     bool
	Follow       bool
	DataDir      string
	Theme        Theme
	Offline      bool
	HistoryDepth int

	OpenAIModel      string
	OpenAIBase       string
	OpenAITimeoutSec int

	ExportFormat string // csv|xlsx|pdf: one-shot export, no TUI
	ExportOut    string

	ShowVersion bool

	// Internal
	IsPipedStdin bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Detect if stdin is piped
	fi, _ := os.Stdin.Stat()
	cfg.IsPipedStdin = (fi.Mode() & os.ModeCharDevice) == 0

	fs := flag.NewFlagSet("rollgrid", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.FilePath, "file", "", "roster spreadsheet to import (.csv or .xlsx)")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "read a CSV roster from stdin (default: auto if piped)")
	fs.BoolVar(&cfg.Follow, "follow", false, "follow the roster CSV and append rows as they arrive")
	fs.StringVar(&cfg.DataDir, "data-dir", getenvDefault("ROLLGRID_DATA_DIR", defaultDataDir()), "directory for the local account database")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", getenvDefault("ROLLGRID_THEME", string(ThemeDark)), "theme: dark|light")
	fs.BoolVar(&cfg.Offline, "offline", false, "disable OpenAI features and work offline only")
	fs.IntVar(&cfg.HistoryDepth, "history-depth", getenvDefaultInt("ROLLGRID_HISTORY_DEPTH", 200), "max retained undo snapshots (min 2)")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", getenvDefault("ROLLGRID_OPENAI_MODEL", "gpt-4o-mini"), "OpenAI model override")
	fs.StringVar(&cfg.OpenAIBase, "openai-base-url", getenvDefault("ROLLGRID_OPENAI_BASE_URL", ""), "OpenAI base URL override")
	fs.IntVar(&cfg.OpenAITimeoutSec, "openai-timeout-sec", getenvDefaultInt("ROLLGRID_OPENAI_TIMEOUT_SEC", 60), "OpenAI request timeout in seconds")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export the stored roster without opening the editor: csv|xlsx|pdf")
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)

	if cfg.ExportFormat != "" {
		switch cfg.ExportFormat {
		case "csv", "xlsx", "pdf":
		default:
			return nil, fmt.Errorf("unknown export format %q", cfg.ExportFormat)
		}
		if cfg.ExportOut == "" {
			return nil, errors.New("--export requires --out path")
		}
	}

	if cfg.Follow && cfg.FilePath == "" {
		return nil, errors.New("--follow requires --file")
	}

	if cfg.UseStdin || (cfg.IsPipedStdin && cfg.FilePath == "") {
		cfg.UseStdin = true
	}

	if cfg.HistoryDepth < 2 {
		cfg.HistoryDepth = 2
	}

	return cfg, nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "rollgrid")
	}
	return "."
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) OpenAIKey() string { return os.Getenv("OPENAI_API_KEY") }

func (c *Config) AIEnabled() bool { return !c.Offline && c.OpenAIKey() != "" }

func (c *Config) String() string {
	return fmt.Sprintf("file=%s stdin=%v follow=%v theme=%s offline=%v", c.FilePath, c.UseStdin, c.Follow, c.Theme, c.Offline)
}
