package config

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Session Session `yaml:"session"`
	Demo    Demo    `yaml:"demo"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	Storage       string `yaml:"storage"` // memory, postgres
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	RedisChannel  string `yaml:"redisChannel"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	Seed          bool   `yaml:"seed"`
}

type Session struct {
	SubmitDelay time.Duration `yaml:"submitDelay"`
	// zero disables the automatic reset after a submission
	AutoReset time.Duration `yaml:"autoReset"`
	Tick      time.Duration `yaml:"tick"`
	Expiry    time.Duration `yaml:"expiry"`
}

type Demo struct {
	Duration int `yaml:"duration"`
}

func Default() Config {
	return Config{
		Server: Server{
			Listen:  ":8000",
			Storage: StorageMemory,
			Seed:    true,
		},
		Session: Session{
			SubmitDelay: 2 * time.Second,
			AutoReset:   3 * time.Second,
			Tick:        time.Second,
			Expiry:      30 * time.Minute,
		},
		Demo: Demo{
			Duration: 180,
		},
	}
}

// Load reads an optional .env file, then the YAML file at path (if any) over the
// defaults, then SAHAYAK_* environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	config := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, err
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil && !errors.Is(err, io.EOF) {
			return Config{}, errors.Wrapf(err, "failed to decode %s", path)
		}
	}

	if err := config.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	c.Server.Listen = getEnv("SAHAYAK_LISTEN", c.Server.Listen)
	c.Server.Storage = getEnv("SAHAYAK_STORAGE", c.Server.Storage)
	c.Server.PostgresDsn = getEnv("SAHAYAK_POSTGRES_DSN", c.Server.PostgresDsn)
	c.Server.RedisAddr = getEnv("SAHAYAK_REDIS_ADDR", c.Server.RedisAddr)
	c.Server.RedisPassword = getEnv("SAHAYAK_REDIS_PASSWORD", c.Server.RedisPassword)
	c.Server.MemcachedAddr = getEnv("SAHAYAK_MEMCACHED_ADDR", c.Server.MemcachedAddr)
	c.Server.TraceEndpoint = getEnv("SAHAYAK_TRACE_ENDPOINT", c.Server.TraceEndpoint)

	if value := os.Getenv("SAHAYAK_ENABLE_TRACE"); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(err, "invalid SAHAYAK_ENABLE_TRACE")
		}
		c.Server.EnableTrace = enabled
	}
	if value := os.Getenv("SAHAYAK_AUTO_RESET"); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrap(err, "invalid SAHAYAK_AUTO_RESET")
		}
		c.Session.AutoReset = d
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Server.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.Server.PostgresDsn == "" {
			return errors.New("postgres storage requires server.postgresDsn")
		}
	default:
		return errors.Errorf("unknown storage %q", c.Server.Storage)
	}
	if c.Server.EnableTrace && c.Server.TraceEndpoint == "" {
		return errors.New("tracing requires server.traceEndpoint")
	}
	if c.Session.SubmitDelay < 0 || c.Session.AutoReset < 0 {
		return errors.New("session delays must not be negative")
	}
	if c.Session.Tick <= 0 {
		return errors.New("session.tick must be positive")
	}
	if c.Demo.Duration <= 0 {
		return errors.New("demo.duration must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
