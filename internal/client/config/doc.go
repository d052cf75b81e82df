// Package config loads runtime configuration for the survey CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or --config.
//  3. .env file, then SURVEY_* environment variables.
//  4. Command-line flags bound by BindFlags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_addr": "127.0.0.1:50051",
//	  "database_driver": "sqlite",
//	  "database_dsn": "survey.db",
//	  "survey_variant": "opinion",
//	  "reset_code_validity": "10m",
//	  "users_file": "users.json",
//	  "results_file": "resultats.xlsx",
//	  "s3_bucket": "surveykeeper"
//	}
package config
