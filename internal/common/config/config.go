package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Assessment    AssessmentConfig        `mapstructure:"assessment"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig is the health and metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type CamundaConfig struct {
	BrokerAddress          string `mapstructure:"broker_address"`
	UsePlaintextConnection bool   `mapstructure:"use_plaintext"`
	MaxJobsActive          int    `mapstructure:"max_jobs_active"`
	Timeout                int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout         int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetAddresses returns Addresses, or URL alone when no list is configured.
func (e ElasticsearchConfig) GetAddresses() []string {
	if len(e.Addresses) > 0 {
		return e.Addresses
	}
	if e.URL != "" {
		return []string{e.URL}
	}
	return nil
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (w WorkerConfig) TimeoutDuration() time.Duration {
	return GetDuration(w.Timeout)
}

// --- Specific Configuration Sections ---

// NotificationConfig holds settings for the notify-hr-platform worker.
type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	SES struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		HREmail   string `mapstructure:"hr_email"`
	} `mapstructure:"ses"`
}

// AssessmentConfig holds questionnaire and result settings.
type AssessmentConfig struct {
	CatalogVersion       string `mapstructure:"catalog_version"`
	SessionBaseURL       string `mapstructure:"session_base_url"`
	SessionTTLHours      int    `mapstructure:"session_ttl_hours"`
	ResultsIndex         string `mapstructure:"results_index"`
	DuplicateCacheTTLSec int    `mapstructure:"duplicate_cache_ttl_sec"`
}

// SessionTTL returns the questionnaire link lifetime.
func (a AssessmentConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// DuplicateCacheTTL returns how long a duplicate-check answer is cached.
func (a AssessmentConfig) DuplicateCacheTTL() time.Duration {
	return time.Duration(a.DuplicateCacheTTLSec) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
