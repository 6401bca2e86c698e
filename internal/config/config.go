package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable, e.g. BLOG_ADDR.
const Prefix = "blog"

// Config holds the service settings read from the environment.
type Config struct {
	Addr            string        `envconfig:"ADDR" default:":3333"`
	DiagAddr        string        `envconfig:"DIAG_ADDR" default:":9999"`
	Routes          bool          `envconfig:"ROUTES" default:"false"`
	Seed            bool          `envconfig:"SEED" default:"true"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	err := envconfig.Process(Prefix, &c)

	return &c, err
}
