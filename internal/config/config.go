package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultJWTSecret is only acceptable outside production; LoadConfig logs a
// warning when it is used.
const defaultJWTSecret = "change-this-secret-in-production"

type Config struct {
	APIPort     int    `yaml:"apiPort"`
	Environment string `yaml:"environment"`
	Database    struct {
		Path       string `yaml:"path"`
		WALMode    bool   `yaml:"walMode"`
		MaxRetries int    `yaml:"maxRetries"`
		RetryDelay int    `yaml:"retryDelay"`
	} `yaml:"database"`
	JWT struct {
		Secret   string `yaml:"secret"`
		TTLHours int    `yaml:"ttlHours"`
	} `yaml:"jwt"`
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine (env-only config); anything else is a
		// parse error and should fail startup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 5000
		log.Println("APIPort not specified, using default 5000")
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
		log.Println("Environment not specified, defaulting to development")
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "moneytrack.db"
		log.Println("Database path not specified, using default moneytrack.db")
	}

	if !v.IsSet("database.walMode") {
		cfg.Database.WALMode = true
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = 5
	}
	if cfg.Database.RetryDelay == 0 {
		cfg.Database.RetryDelay = 5
	}

	// JWT_SECRET from the environment wins over the config file.
	if s := v.GetString("jwt_secret"); s != "" {
		cfg.JWT.Secret = s
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = defaultJWTSecret
		log.Println("Warning: JWT secret not specified, using insecure default")
	}
	if cfg.JWT.TTLHours == 0 {
		cfg.JWT.TTLHours = 24
	}

	return &cfg, nil
}

// TokenTTL returns the configured token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTLHours) * time.Hour
}

// Development reports whether the server runs in development mode. Error
// detail is only exposed to clients in development.
func (c *Config) Development() bool {
	return c.Environment == "development"
}
