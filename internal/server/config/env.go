package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is read, when present, before the environment is consulted.
// Variables already set in the process environment win over the file.
var dotEnvFile = ".env"

// parseEnv overlays SURVEY_* variables. Validity variables are minutes.
// A malformed number panics.
func parseEnv(config *Config) {
	if _, err := os.Stat(dotEnvFile); err == nil {
		if err := godotenv.Load(dotEnvFile); err != nil {
			panic(err)
		}
	}

	lookupString(&config.HTTPAddr, "SURVEY_HTTP_ADDR")
	lookupString(&config.GRPCAddr, "SURVEY_GRPC_ADDR")
	lookupString(&config.DatabaseDriver, "SURVEY_DB_DRIVER")
	lookupString(&config.DatabaseDSN, "SURVEY_DATABASE_DSN")
	lookupString(&config.SecretKey, "SURVEY_SECRET_KEY")
	lookupString(&config.SessionKey, "SURVEY_SESSION_KEY")
	lookupString(&config.SurveyVariant, "SURVEY_VARIANT")
	lookupString(&config.LogLevel, "SURVEY_LOG_LEVEL")

	lookupMinutes(&config.AccessTokenValidityDuration, "SURVEY_ACCESS_TOKEN_VALIDITY")
	lookupMinutes(&config.ResetCodeValidityDuration, "SURVEY_RESET_CODE_VALIDITY")

	if v, ok := os.LookupEnv("SURVEY_AUTH_RATE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("SURVEY_AUTH_RATE: %w", err))
		}
		config.AuthRatePerMinute = n
	}
}

func lookupString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func lookupMinutes(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = time.Duration(n) * time.Minute
}
