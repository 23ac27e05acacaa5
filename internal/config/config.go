package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appName            = "devwebfeed"
	defaultBaseURL     = "https://devwebfeed.appspot.com"
	defaultTweetHandle = "ChromiumDev"
	defaultPoll        = 15 * time.Second
)

// Config holds runtime settings for the CLI app.
type Config struct {
	BaseURL       string        `yaml:"base_url"`
	TweetHandle   string        `yaml:"tweet_handle"`
	DBPath        string        `yaml:"db_path"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	LogFile       string        `yaml:"log_file"`
	IncludeTweets bool          `yaml:"include_tweets"`
}

// FilePath is the optional YAML config file location.
func FilePath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

func Defaults() Config {
	return Config{
		BaseURL:       defaultBaseURL,
		TweetHandle:   defaultTweetHandle,
		DBPath:        filepath.Join(xdg.CacheHome, appName, "devwebfeed.db"),
		PollInterval:  defaultPoll,
		LogFile:       filepath.Join(xdg.StateHome, appName, "devwebfeed.log"),
		IncludeTweets: true,
	}
}

// LoadFromEnv reads .env (if present), then the YAML file, then the process
// environment. Later sources win.
func LoadFromEnv() (Config, error) {
	return LoadFromEnvWithFile(FilePath())
}

func LoadFromEnvWithFile(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Load(path)
}

func Load(path string) (Config, error) {
	cfg := Defaults()

	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v := os.Getenv("DEVWEBFEED_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("DEVWEBFEED_TWEET_HANDLE"); v != "" {
		c.TweetHandle = v
	}
	if v := os.Getenv("DEVWEBFEED_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("DEVWEBFEED_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("DEVWEBFEED_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DEVWEBFEED_POLL_INTERVAL must be a duration: %s", v)
		}
		c.PollInterval = d
	}
	if v := os.Getenv("DEVWEBFEED_INCLUDE_TWEETS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEVWEBFEED_INCLUDE_TWEETS must be a boolean: %s", v)
		}
		c.IncludeTweets = b
	}
	return nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	if c.BaseURL[len(c.BaseURL)-1] == '/' {
		return fmt.Errorf("BaseURL must not end with '/': %s", c.BaseURL)
	}
	if c.TweetHandle == "" {
		return errors.New("TweetHandle is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("PollInterval must be positive: %s", c.PollInterval)
	}
	return nil
}
