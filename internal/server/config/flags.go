package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-t string   database driver, "sqlite" or "pgx"
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-k string   cookie session key
//	-x int      access token validity, minutes
//	-r int      reset code validity, minutes
//	-v string   survey variant, "opinion" or "material"
//	-l string   log level
//	-m int      auth posts per minute per client IP
//
// os.Args is filtered through flagx.FilterArgs first so that -c/-config and
// flags of other components do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-t", "-d", "-s", "-k", "-x", "-r", "-v", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port to run server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "t", config.DatabaseDriver, "database driver (sqlite, pgx)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SessionKey, "k", config.SessionKey, "session cookie key")

	accessTokenValidity := fs.Int("x", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	resetCodeValidity := fs.Int("r", int(config.ResetCodeValidityDuration.Minutes()), "reset code validity (in minutes)")

	fs.StringVar(&config.SurveyVariant, "v", config.SurveyVariant, "survey variant (opinion, material)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&config.AuthRatePerMinute, "m", config.AuthRatePerMinute, "auth requests per minute per client")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.ResetCodeValidityDuration = time.Duration(*resetCodeValidity) * time.Minute
}
