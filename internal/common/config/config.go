// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	HTTP          HTTPConfig              `mapstructure:"http"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Matching      MatchingConfig          `mapstructure:"matching"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Tracing       TracingConfig           `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type HTTPConfig struct {
	Address string `mapstructure:"address"`
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

// GetDSN returns the PostgreSQL connection string.
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
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MatchingConfig tunes the scoring pipeline. The score weights themselves are
// part of the scoring contract and are not configurable.
type MatchingConfig struct {
	MinScore          float64 `mapstructure:"min_score"`
	MaxMatches        int     `mapstructure:"max_matches"`
	NotifyLimit       int     `mapstructure:"notify_limit"`
	ScoreWorkers      int     `mapstructure:"score_workers"`
	CandidateCacheTTL int     `mapstructure:"candidate_cache_ttl"` // seconds
}

type NotificationConfig struct {
	SNSEnabled bool   `mapstructure:"sns_enabled"`
	AWSRegion  string `mapstructure:"aws_region"`
	TopicARN   string `mapstructure:"topic_arn"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
