package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/service/verify"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultVerifyMode   = verify.ModePermissive
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the storefront core will be run
	ListenAddr string

	// Reseller panel API endpoint to connect to
	ResellerAddr string

	// Secret key of the reseller panel account
	ResellerAPIKey string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Shared with the identity provider to verify the JWT tokens it issues
	SecretKey string

	// Mode of the legacy verification endpoint (permissive, strict)
	VerifyMode string

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		VerifyMode:  defaultVerifyMode,
		Environment: defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":      setString(&c.ListenAddr),
		"DATABASE_URI":     setString(&c.DatabaseDSN),
		"SECRET_KEY":       setString(&c.SecretKey),
		"LOG_LEVEL":        setString(&c.LogLevel),
		"RESELLER_ADDRESS": setString(&c.ResellerAddr),
		"RESELLER_API_KEY": setString(&c.ResellerAPIKey),
		"VERIFY_MODE":      setString(&c.VerifyMode),
		"ENVIRONMENT":      setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("smmpanel", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key shared with the identity provider")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.ResellerAddr, "reseller", "r", c.ResellerAddr, "Reseller panel API endpoint")
	fs.StringVarP(&c.ResellerAPIKey, "reseller-key", "k", c.ResellerAPIKey, "Reseller panel API key")
	fs.StringVar(&c.VerifyMode, "verify-mode", c.VerifyMode, "Verification endpoint mode (permissive, strict)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}
