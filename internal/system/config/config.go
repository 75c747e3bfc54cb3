package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabasesConfig `mapstructure:"database"`
	Storage  StorageConfig   `mapstructure:"storage"`
	Approval ApprovalConfig  `mapstructure:"approval"`
	Training TrainingConfig  `mapstructure:"training"`
	Leave    LeaveConfig     `mapstructure:"leave"`
	Cache    CacheConfig     `mapstructure:"cache"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	CORS     CORSConfig      `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
}

// DatabasesConfig holds all database configurations
type DatabasesConfig struct {
	HRMS DatabaseConfig `mapstructure:"hrms"`
}

// DatabaseConfig holds individual database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// ApprovalConfig holds approval engine configuration
type ApprovalConfig struct {
	Escalation       EscalationConfig `mapstructure:"escalation"`
	LeaveRequestType string           `mapstructure:"leave_request_type"`
}

// EscalationConfig controls hierarchical approver resolution.
// MaxLevels is the number of scopes climbed above the requester's
// department (1 = faculty, 2 = faculty then organization).
type EscalationConfig struct {
	MaxLevels                 int  `mapstructure:"max_levels"`
	FacultyCountsAsEscalated  bool `mapstructure:"faculty_counts_as_escalated"`
	FilterByRequesterDivision bool `mapstructure:"filter_by_requester_division"`
}

// TrainingConfig holds training application configuration
type TrainingConfig struct {
	DefaultMaxReapplications int `mapstructure:"default_max_reapplications"`
}

// LeaveConfig holds leave management configuration
type LeaveConfig struct {
	DefaultAnnualDays int `mapstructure:"default_annual_days"`
}

// CacheConfig holds the optional redis cache configuration
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

var globalConfig *Config

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default configuration lookup order:
		// 1. ./repository/conf/deployment.yaml (production - relative to binary)
		// 2. ./cmd/server/repository/conf/deployment.yaml (development)
		v.SetConfigName("deployment")
		v.SetConfigType("yaml")
		v.AddConfigPath("./repository/conf")
		v.AddConfigPath("./cmd/server/repository/conf")
		v.AddConfigPath("../repository/conf")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("HRMS")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	globalConfig = &config
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8290)
	v.SetDefault("database.hrms.type", "mysql")
	v.SetDefault("database.hrms.max_open_conns", 25)
	v.SetDefault("database.hrms.max_idle_conns", 5)
	v.SetDefault("database.hrms.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("storage.base_dir", "./repository/storage")
	v.SetDefault("approval.escalation.max_levels", 2)
	v.SetDefault("approval.escalation.faculty_counts_as_escalated", true)
	v.SetDefault("approval.escalation.filter_by_requester_division", true)
	v.SetDefault("approval.leave_request_type", "Leave Request")
	v.SetDefault("training.default_max_reapplications", 3)
	v.SetDefault("leave.default_annual_days", 21)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("logging.level", "info")
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.Database.HRMS.Type {
	case "mysql":
		if config.Database.HRMS.Hostname == "" {
			return fmt.Errorf("database hostname is required")
		}
		if config.Database.HRMS.Database == "" {
			return fmt.Errorf("database name is required")
		}
	case "sqlite", "sqlite3":
		if config.Database.HRMS.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", config.Database.HRMS.Type)
	}

	if config.Approval.Escalation.MaxLevels < 0 || config.Approval.Escalation.MaxLevels > 2 {
		return fmt.Errorf("approval.escalation.max_levels must be between 0 and 2")
	}

	if config.Training.DefaultMaxReapplications < 1 {
		return fmt.Errorf("training.default_max_reapplications must be at least 1")
	}

	if config.Cache.Enabled && config.Cache.Address == "" {
		return fmt.Errorf("cache address is required when cache is enabled")
	}

	return nil
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// SetGlobal sets the global configuration (for testing purposes)
func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

// DriverName returns the database/sql driver name for the configured type.
func (d *DatabaseConfig) DriverName() string {
	if d.Type == "sqlite" || d.Type == "sqlite3" {
		return "sqlite3"
	}
	return "mysql"
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	if d.Type == "sqlite" || d.Type == "sqlite3" {
		return fmt.Sprintf("file:%s?_foreign_keys=on", d.Path)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}
