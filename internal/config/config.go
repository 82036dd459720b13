package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	API       APIConfig       `mapstructure:"api"`
	Client    ClientConfig    `mapstructure:"client"`
	Download  DownloadConfig  `mapstructure:"download"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	LogLevel  string          `mapstructure:"log_level"`
	LogFile   string          `mapstructure:"log_file"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// APIConfig holds control API server settings
type APIConfig struct {
	Port       int    `mapstructure:"port"`
	Debug      bool   `mapstructure:"debug"`
	CORS       bool   `mapstructure:"cors"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// ClientConfig holds site client settings
type ClientConfig struct {
	Host           string `mapstructure:"host"`
	Cookies        string `mapstructure:"cookies"`
	Proxy          string `mapstructure:"proxy"`
	RetryTimes     int    `mapstructure:"retry_times"`
	WaitForIPUnban bool   `mapstructure:"wait_for_ip_unban"`
}

// DownloadConfig holds download manager settings
type DownloadConfig struct {
	Dir                 string `mapstructure:"dir"`
	PageDelayMillis     int    `mapstructure:"page_delay_millis"`     // Delay between page image fetches
	CommentThreshold    int    `mapstructure:"comment_threshold"`     // Comments scored at or below are dropped
	NotificationDelayMS int    `mapstructure:"notification_delay_ms"` // Coalescing window for notification updates
}

// NotifyConfig holds desktop notification settings
type NotifyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	AppName string `mapstructure:"app_name"`
}

// SchedulerConfig holds scheduler settings
type SchedulerConfig struct {
	RetryFailedCron    string `mapstructure:"retry_failed_cron"`
	RetryFailedEnabled bool   `mapstructure:"retry_failed_enabled"`
}

var globalConfig *Config

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("api.port", 8890)
	v.SetDefault("api.debug", false)
	v.SetDefault("api.cors", true)
	v.SetDefault("api.cors_origin", "*")
	v.SetDefault("client.host", "e-hentai.org")
	v.SetDefault("client.retry_times", 3)
	v.SetDefault("client.wait_for_ip_unban", false)
	v.SetDefault("download.dir", "downloads")
	v.SetDefault("download.page_delay_millis", 500)
	v.SetDefault("download.comment_threshold", -101)
	v.SetDefault("download.notification_delay_ms", 1000)
	v.SetDefault("notify.enabled", true)
	v.SetDefault("notify.app_name", "ehfetch")
	v.SetDefault("scheduler.retry_failed_cron", "0 * * * *")
	v.SetDefault("scheduler.retry_failed_enabled", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read environment variables
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}
