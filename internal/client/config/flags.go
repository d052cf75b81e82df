package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the persistent CLI flags on fs with the current values
// as defaults, so flags given on the command line win.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to JSON config file")
	fs.StringVarP(&c.ServerAddr, "server", "a", c.ServerAddr, "results API address")
	fs.StringVarP(&c.DatabaseDriver, "db-driver", "t", c.DatabaseDriver, "database driver (sqlite or pgx)")
	fs.StringVarP(&c.DatabaseDSN, "dsn", "d", c.DatabaseDSN, "database DSN")
	fs.StringVarP(&c.SurveyVariant, "variant", "v", c.SurveyVariant, "survey variant")
	fs.DurationVar(&c.ResetCodeValidity, "reset-validity", c.ResetCodeValidity, "reset code validity")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "log level")
	fs.StringVar(&c.UsersFile, "users-file", c.UsersFile, "legacy users.json path")
	fs.StringVar(&c.ResultsFile, "results-file", c.ResultsFile, "legacy results workbook path")
	fs.StringVar(&c.S3RootUser, "s3-user", c.S3RootUser, "S3 access key")
	fs.StringVar(&c.S3RootPassword, "s3-password", c.S3RootPassword, "S3 secret key")
	fs.StringVar(&c.S3Bucket, "s3-bucket", c.S3Bucket, "S3 bucket")
	fs.StringVar(&c.S3Region, "s3-region", c.S3Region, "S3 region")
	fs.StringVar(&c.S3BaseEndpoint, "s3-endpoint", c.S3BaseEndpoint, "S3 endpoint, empty for AWS")
	fs.StringVar(&c.AccessToken, "token", c.AccessToken, "results API access token")
}
