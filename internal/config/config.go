package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	JWT       JWTConfig       `yaml:"jwt"`
	Claims    ClaimsConfig    `yaml:"claims"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// GatewayConfig selects the payment gateway backend
type GatewayConfig struct {
	Type    string `yaml:"type"` // "mock" or "live"
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// SendGridConfig contains notification delivery settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// JWTConfig contains token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// ClaimsConfig contains the dispute-engine timing knobs
type ClaimsConfig struct {
	// EscalationWindowHours is how long a guest has to acknowledge a
	// reported trip issue before the sweep escalates it to a claim.
	EscalationWindowHours int `yaml:"escalation_window_hours"`
	// ResponseWindowHours sets the guest response deadline on claims
	// filed against a guest. Zero disables the deadline.
	ResponseWindowHours int `yaml:"response_window_hours"`
	// ChargeRetryHours is the backoff before a failed trip charge is
	// retried by the sweep.
	ChargeRetryHours int `yaml:"charge_retry_hours"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig holds the cron expressions for the periodic sweeps
type SchedulerConfig struct {
	EscalateTripIssues string `yaml:"escalate_trip_issues"`
	RetryFailedCharges string `yaml:"retry_failed_charges"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) overrideWithEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Database = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.SendGrid.APIKey = v
	}
	if v := os.Getenv("GATEWAY_API_KEY"); v != "" {
		c.Gateway.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Claims.EscalationWindowHours == 0 {
		c.Claims.EscalationWindowHours = 48
	}
	if c.Claims.ResponseWindowHours == 0 {
		c.Claims.ResponseWindowHours = 72
	}
	if c.Claims.ChargeRetryHours == 0 {
		c.Claims.ChargeRetryHours = 24
	}
	if c.Scheduler.EscalateTripIssues == "" {
		c.Scheduler.EscalateTripIssues = "0 0 * * * *" // hourly
	}
	if c.Scheduler.RetryFailedCharges == "" {
		c.Scheduler.RetryFailedCharges = "0 30 * * * *"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
}

// Validate checks the configuration for required values
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if c.Database.Host == "" || c.Database.Database == "" {
		return fmt.Errorf("database host and name are required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	return nil
}

// GetServerAddress returns the host:port the HTTP server listens on
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString builds the lib/pq connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Database, c.Database.SSLMode)
}

// EscalationWindow returns the trip-issue acknowledgment window
func (c *Config) EscalationWindow() time.Duration {
	return time.Duration(c.Claims.EscalationWindowHours) * time.Hour
}

// ResponseWindow returns the guest response deadline window
func (c *Config) ResponseWindow() time.Duration {
	return time.Duration(c.Claims.ResponseWindowHours) * time.Hour
}

// ChargeRetryInterval returns the failed-charge retry backoff
func (c *Config) ChargeRetryInterval() time.Duration {
	return time.Duration(c.Claims.ChargeRetryHours) * time.Hour
}
