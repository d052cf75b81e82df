// Package config handles configuration for the survey server: defaults,
// then an optional JSON file, then .env and environment, then flags.
package config

import "time"

// Config holds runtime settings for the survey server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses of the form UI and the results API.
//   - DatabaseDriver / DatabaseDSN: database/sql driver ("sqlite" or "pgx") and DSN.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - SessionKey: cookie signing key; random per process when empty.
//   - AccessTokenValidityDuration / ResetCodeValidityDuration: token lifetimes.
//   - SurveyVariant: which questionnaire is served.
//   - AuthRatePerMinute: login, register and reset posts allowed per client IP.
type Config struct {
	HTTPAddr                    string
	GRPCAddr                    string
	DatabaseDriver              string
	DatabaseDSN                 string
	SecretKey                   string
	SessionKey                  string
	AccessTokenValidityDuration time.Duration
	ResetCodeValidityDuration   time.Duration
	SurveyVariant               string
	LogLevel                    string
	AuthRatePerMinute           int
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "survey.db"
	c.SecretKey = ""
	c.SessionKey = ""
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.ResetCodeValidityDuration = 10 * time.Minute
	c.SurveyVariant = "opinion"
	c.LogLevel = "info"
	c.AuthRatePerMinute = 30
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
