// internal/common/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	cfg := &Config{}
	cfg.Database.Postgres.Host = "localhost"
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validTestConfig()

	assert.Equal(t, "matching-engine", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "matching-activity", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, 30.0, cfg.Matching.MinScore)
	assert.Equal(t, 10, cfg.Matching.MaxMatches)
	assert.Equal(t, 5, cfg.Matching.NotifyLimit)
	assert.Equal(t, 8, cfg.Matching.ScoreWorkers)
	assert.Equal(t, 60, cfg.Matching.CandidateCacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Postgres.Host = "localhost"
	cfg.Matching.MinScore = 50
	cfg.Matching.NotifyLimit = 3
	applyDefaults(cfg)

	assert.Equal(t, 50.0, cfg.Matching.MinScore)
	assert.Equal(t, 3, cfg.Matching.NotifyLimit)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "missing postgres host",
			mutate:  func(cfg *Config) { cfg.Database.Postgres.Host = "" },
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "sns enabled without topic",
			mutate:  func(cfg *Config) { cfg.Notifications.SNSEnabled = true },
			wantErr: "notifications.topic_arn is required",
		},
		{
			name: "sns enabled with topic",
			mutate: func(cfg *Config) {
				cfg.Notifications.SNSEnabled = true
				cfg.Notifications.TopicARN = "arn:aws:sns:eu-central-1:123456789012:matches"
			},
		},
		{
			name:    "notify limit above max matches",
			mutate:  func(cfg *Config) { cfg.Matching.NotifyLimit = 20 },
			wantErr: "matching.notify_limit must not exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		Database: "marketplace",
		User:     "matcher",
		Password: "secret",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=matcher password=secret dbname=marketplace sslmode=require",
		p.GetDSN())
}
