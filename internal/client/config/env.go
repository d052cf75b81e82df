package config

import (
	"os"

	"github.com/joho/godotenv"
)

var dotEnvFile = ".env"

var envVars = map[string]func(*Config) *string{
	"SURVEY_SERVER_ADDR":      func(c *Config) *string { return &c.ServerAddr },
	"SURVEY_DB_DRIVER":        func(c *Config) *string { return &c.DatabaseDriver },
	"SURVEY_DATABASE_DSN":     func(c *Config) *string { return &c.DatabaseDSN },
	"SURVEY_VARIANT":          func(c *Config) *string { return &c.SurveyVariant },
	"SURVEY_LOG_LEVEL":        func(c *Config) *string { return &c.LogLevel },
	"SURVEY_USERS_FILE":       func(c *Config) *string { return &c.UsersFile },
	"SURVEY_RESULTS_FILE":     func(c *Config) *string { return &c.ResultsFile },
	"SURVEY_S3_ROOT_USER":     func(c *Config) *string { return &c.S3RootUser },
	"SURVEY_S3_ROOT_PASSWORD": func(c *Config) *string { return &c.S3RootPassword },
	"SURVEY_S3_BUCKET":        func(c *Config) *string { return &c.S3Bucket },
	"SURVEY_S3_REGION":        func(c *Config) *string { return &c.S3Region },
	"SURVEY_S3_BASE_ENDPOINT": func(c *Config) *string { return &c.S3BaseEndpoint },
	"SURVEY_ACCESS_TOKEN":     func(c *Config) *string { return &c.AccessToken },
}

func parseEnv(cfg *Config) {
	if _, err := os.Stat(dotEnvFile); err == nil {
		if err := godotenv.Load(dotEnvFile); err != nil {
			panic(err)
		}
	}

	for key, field := range envVars {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field(cfg) = v
		}
	}
}
