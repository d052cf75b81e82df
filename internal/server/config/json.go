package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/surveykeeper/internal/flagx"
	"github.com/dmitrijs2005/surveykeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations are
// timex.Duration so both "10m" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	GRPCAddr                    string         `json:"grpc_addr"`
	DatabaseDriver              string         `json:"database_driver"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SessionKey                  string         `json:"session_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ResetCodeValidityDuration   timex.Duration `json:"reset_code_validity_duration"`
	SurveyVariant               string         `json:"survey_variant"`
	LogLevel                    string         `json:"log_level"`
	AuthRatePerMinute           int            `json:"auth_rate_per_minute"`
}

// parseJson overlays the file named by -c/-config, if any. Keys missing from
// the file keep their current values. An unreadable file or invalid JSON
// panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SessionKey, c.SessionKey)
	setString(&config.SurveyVariant, c.SurveyVariant)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ResetCodeValidityDuration.Duration > 0 {
		config.ResetCodeValidityDuration = c.ResetCodeValidityDuration.Duration
	}
	if c.AuthRatePerMinute > 0 {
		config.AuthRatePerMinute = c.AuthRatePerMinute
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
