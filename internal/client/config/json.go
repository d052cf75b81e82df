package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/surveykeeper/internal/flagx"
	"github.com/dmitrijs2005/surveykeeper/internal/timex"
)

type JsonConfig struct {
	ServerAddr        string         `json:"server_addr"`
	DatabaseDriver    string         `json:"database_driver"`
	DatabaseDSN       string         `json:"database_dsn"`
	SurveyVariant     string         `json:"survey_variant"`
	ResetCodeValidity timex.Duration `json:"reset_code_validity"`
	LogLevel          string         `json:"log_level"`
	UsersFile         string         `json:"users_file"`
	ResultsFile       string         `json:"results_file"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	AccessToken       string         `json:"access_token"`
}

// parseJson overlays values from the file given by -c/--config in args.
// It panics on read or decode errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&cfg.ServerAddr:     c.ServerAddr,
		&cfg.DatabaseDriver: c.DatabaseDriver,
		&cfg.DatabaseDSN:    c.DatabaseDSN,
		&cfg.SurveyVariant:  c.SurveyVariant,
		&cfg.LogLevel:       c.LogLevel,
		&cfg.UsersFile:      c.UsersFile,
		&cfg.ResultsFile:    c.ResultsFile,
		&cfg.S3RootUser:     c.S3RootUser,
		&cfg.S3RootPassword: c.S3RootPassword,
		&cfg.S3Bucket:       c.S3Bucket,
		&cfg.S3Region:       c.S3Region,
		&cfg.S3BaseEndpoint: c.S3BaseEndpoint,
		&cfg.AccessToken:    c.AccessToken,
	} {
		if v != "" {
			*dst = v
		}
	}

	if c.ResetCodeValidity.Duration > 0 {
		cfg.ResetCodeValidity = c.ResetCodeValidity.Duration
	}
}
