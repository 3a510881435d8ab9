// Package config loads server settings from the environment.
package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingSecret is returned by Validate when no token secret is set.
var ErrMissingSecret = errors.New("RM_JWT_SECRET is required to serve")

type App struct {
	// Storage
	DataDir         string `envconfig:"DATA_DIR" default:"./data"`
	AuthDBPath      string `envconfig:"AUTH_DB_PATH" default:"./data/accounts.db"`
	SerializeWrites bool   `envconfig:"SERIALIZE_WRITES" default:"false"`

	// Network
	Port int `envconfig:"PORT" default:"8080"`

	// Identity
	JWTSecret        string        `envconfig:"JWT_SECRET"`
	TokenTTL         time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	AllowSignUp      bool          `envconfig:"ALLOW_SIGN_UP" default:"true"`
	MaxFailedSignIns int           `envconfig:"MAX_FAILED_SIGN_INS" default:"5"`
	LockoutWindow    time.Duration `envconfig:"LOCKOUT_WINDOW" default:"15m"`

	// Presentation
	DefaultUnit string `envconfig:"DEFAULT_UNIT" default:"Unit 1A"`
	Currency    string `envconfig:"CURRENCY" default:"KES"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Prefix namespaces every variable, e.g. RM_DATA_DIR.
const Prefix = "RM"

// Load reads a .env file if one exists, then the environment.
func Load() (App, error) {
	_ = godotenv.Load()

	var c App
	err := envconfig.Process(Prefix, &c)
	return c, err
}

// Validate checks the settings the server cannot start without.
func (c App) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	return nil
}
