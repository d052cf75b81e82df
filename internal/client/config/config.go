package config

import "time"

// Config holds runtime settings for the survey CLI.
type Config struct {
	ServerAddr        string
	DatabaseDriver    string
	DatabaseDSN       string
	SurveyVariant     string
	ResetCodeValidity time.Duration
	LogLevel          string

	// Legacy files used by import and export.
	UsersFile   string
	ResultsFile string

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	// AccessToken authenticates results API calls.
	AccessToken string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "survey.db"
	c.SurveyVariant = "opinion"
	c.ResetCodeValidity = 10 * time.Minute
	c.LogLevel = "warn"
	c.UsersFile = "users.json"
	c.ResultsFile = "resultats.xlsx"
	c.S3Bucket = "surveykeeper"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000"
}

// LoadConfig applies defaults, then the JSON file named in args, then the
// environment. Flags are applied later by cobra through BindFlags.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	return cfg
}
