// Package config provides functionality for managing configuration options
// for the backend server using command-line flags, environment variables,
// and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the server.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string

	// DatabaseDSN holds the Postgres connection string.
	DatabaseDSN string

	// JWTSecret signs issued bearer tokens.
	JWTSecret string

	// TokenTTLMinutes is the lifetime of issued tokens.
	TokenTTLMinutes int

	// BcryptCost is the cost used when hashing account passwords.
	BcryptCost int

	// SeedAdminEmail, when set together with SeedAdminPassword, creates a
	// bootstrap administrator account at startup if none exists.
	SeedAdminEmail    string
	SeedAdminPassword string

	// LogLevel controls zap verbosity.
	LogLevel string

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "secret", "", "JWT signing secret")
	flag.IntVar(&options.TokenTTLMinutes, "ttl", 60, "token lifetime in minutes")
	flag.IntVar(&options.BcryptCost, "bcrypt-cost", 10, "bcrypt hashing cost")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, an optional JSON config file, and
// environment variables to set configuration values. Environment variables
// win over the config file, which wins over flag defaults. A .env file in
// the working directory is loaded first if present.
func Parse() *Options {
	_ = godotenv.Load()

	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL_MINUTES"); ttl != "" {
		if n, err := strconv.Atoi(ttl); err == nil {
			options.TokenTTLMinutes = n
		}
	}
	if email := os.Getenv("SEED_ADMIN_EMAIL"); email != "" {
		options.SeedAdminEmail = email
	}
	if password := os.Getenv("SEED_ADMIN_PASSWORD"); password != "" {
		options.SeedAdminPassword = password
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	return options
}
