// Load envs from .env
// Load YAML config
// Provide default values
// Validate config

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const (
	EngineBrowser = "playwright"
	EngineHTTP    = "http"

	// PagePlaceholder is replaced by the page number in BaseURL
	PagePlaceholder = "{page}"
)

type Config struct {
	//Target site
	BaseURL  string `yaml:"base_url"`
	MaxPages int    `yaml:"max_pages"`
	Engine   string `yaml:"engine"`

	//Browser
	Headless    bool   `yaml:"headless"`
	UserAgent   string `yaml:"user_agent"`
	ViewportW   int    `yaml:"viewport_width"`
	ViewportH   int    `yaml:"viewport_height"`
	CookiesPath string `yaml:"cookies_path"`

	//Timing
	NavTimeout   time.Duration `yaml:"nav_timeout"`
	WaitTimeout  time.Duration `yaml:"wait_timeout"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	RetryCount   int           `yaml:"retry_count"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	MinPageDelay time.Duration `yaml:"min_page_delay"`
	MaxPageDelay time.Duration `yaml:"max_page_delay"`

	//Paths
	CSVPath        string `yaml:"csv_path"`
	JSONPath       string `yaml:"json_path"`
	LogPath        string `yaml:"log_path"`
	LogLevel       string `yaml:"log_level"`
	ScreenshotsDir string `yaml:"screenshots_dir"`

	//Optional integrations, disabled when empty.
	//Also read from DATABASE_URL, TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID, see applyEnv
	DatabaseURL    string `yaml:"database_url"`
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

// Default returns the values the crawler was tuned with against catho.com.br
func Default() *Config {
	return &Config{
		BaseURL:        "https://www.catho.com.br/vagas/?page={page}",
		MaxPages:       200,
		Engine:         EngineBrowser,
		Headless:       false,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko)",
		ViewportW:      1280,
		ViewportH:      720,
		NavTimeout:     60 * time.Second,
		WaitTimeout:    15 * time.Second,
		SettleDelay:    5 * time.Second,
		RetryCount:     3,
		RetryDelay:     5 * time.Second,
		MinPageDelay:   1 * time.Second,
		MaxPageDelay:   3 * time.Second,
		CSVPath:        "vagas.csv",
		JSONPath:       "vagas.json",
		LogPath:        "vagas.log",
		LogLevel:       "info",
		ScreenshotsDir: "logs/screenshots",
	}
}

// Load reads .env and the YAML file at path (missing file is fine),
// applies env overrides and fills anything left unset with defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, eris.Wrapf(err, "config: parse %s", path)
		}
	case os.IsNotExist(err):
		//defaults only
	default:
		return nil, eris.Wrapf(err, "config: read %s", path)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	fillDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("VAGAS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("VAGAS_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return eris.Wrap(err, "config: invalid VAGAS_MAX_PAGES")
		}
		cfg.MaxPages = n
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return eris.Wrap(err, "config: invalid TELEGRAM_CHAT_ID")
		}
		cfg.TelegramChatID = id
	}
	return nil
}

// fillDefaults covers zero values a partial YAML file may leave behind
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Engine == "" {
		cfg.Engine = def.Engine
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.ViewportW == 0 || cfg.ViewportH == 0 {
		cfg.ViewportW, cfg.ViewportH = def.ViewportW, def.ViewportH
	}
	if cfg.CSVPath == "" {
		cfg.CSVPath = def.CSVPath
	}
	if cfg.JSONPath == "" {
		cfg.JSONPath = def.JSONPath
	}
	if cfg.LogPath == "" {
		cfg.LogPath = def.LogPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.ScreenshotsDir == "" {
		cfg.ScreenshotsDir = def.ScreenshotsDir
	}
}

// PageURL builds the listing URL for a 1-based page number
func (c *Config) PageURL(page int) string {
	return strings.ReplaceAll(c.BaseURL, PagePlaceholder, strconv.Itoa(page))
}

// TelegramEnabled reports whether both bot token and chat are set
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func (c *Config) Validate() error {
	if !strings.Contains(c.BaseURL, PagePlaceholder) {
		return eris.Errorf("config: base_url %q has no %s placeholder", c.BaseURL, PagePlaceholder)
	}
	if c.MaxPages < 1 {
		return eris.Errorf("config: max_pages must be >= 1, got %d", c.MaxPages)
	}
	if c.Engine != EngineBrowser && c.Engine != EngineHTTP {
		return eris.Errorf("config: unknown engine %q", c.Engine)
	}
	if c.RetryCount < 1 {
		return eris.Errorf("config: retry_count must be >= 1, got %d", c.RetryCount)
	}
	if c.NavTimeout <= 0 || c.WaitTimeout <= 0 {
		return eris.New("config: timeouts must be positive")
	}
	if c.RetryDelay < 0 || c.SettleDelay < 0 {
		return eris.New("config: delays must not be negative")
	}
	if c.MinPageDelay < 0 || c.MaxPageDelay < c.MinPageDelay {
		return eris.Errorf("config: invalid page delay range [%s, %s]", c.MinPageDelay, c.MaxPageDelay)
	}
	return nil
}
