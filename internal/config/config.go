package config

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Загрузка конфигурации из config.yaml через cleanenv, переменные окружения имеют приоритет

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Storage   StorageConfig   `yaml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Logger    LoggerConfig    `yaml:"logger"`
}

// ServerConfig - HTTP со статусом и метриками
type ServerConfig struct {
	Enabled         bool          `yaml:"enabled" env:"HTTP_ENABLED" env-default:"true"`
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type TelegramConfig struct {
	Token           string        `yaml:"token" env:"BOT_TOKEN"`
	OwnerID         int64         `yaml:"owner_id" env:"OWNER_ID"`
	LongPollTimeout time.Duration `yaml:"long_poll_timeout" env-default:"10s"`
	CommandTimeout  time.Duration `yaml:"command_timeout" env-default:"5s"`
}

type BroadcastConfig struct {
	// ResumeOnStart - поднять рассылку после рестарта, если в состоянии running=true
	ResumeOnStart bool          `yaml:"resume_on_start" env:"RESUME_ON_START" env-default:"true"`
	SendTimeout   time.Duration `yaml:"send_timeout" env-default:"15s"`
	RatePerSecond float64       `yaml:"rate_per_second" env-default:"25"`
	RateBurst     int           `yaml:"rate_burst" env-default:"5"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"` // file|postgres
	Path   string `yaml:"path" env:"STATE_PATH" env-default:"data.json"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`   // debug|info|warn|error
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"` // text|json
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn" env:"POSTGRES_DSN"`
	Host            string        `yaml:"host" env-default:"localhost"`
	Port            int           `yaml:"port" env-default:"5432"`
	User            string        `yaml:"user" env-default:"postgres"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DBName          string        `yaml:"dbname" env-default:"broadcaster"`
	SSLMode         string        `yaml:"sslmode" env-default:"disable"`
	Timeout         time.Duration `yaml:"timeout" env-default:"5s"`
	MaxConns        int32         `yaml:"max_conns" env-default:"4"`
	MinConns        int32         `yaml:"min_conns" env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"30m"`
}

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

func LoadConfig() (*Config, error) {
	return load(fetchConfigPath())
}

func load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Try to read from config file if specified
	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram token is empty (BOT_TOKEN)")
	}
	if c.Telegram.OwnerID == 0 {
		return errors.New("telegram owner id is empty (OWNER_ID)")
	}
	switch c.Storage.Driver {
	case StorageFile, StoragePostgres:
	default:
		return errors.New("unknown storage driver: " + c.Storage.Driver)
	}
	return nil
}

func fetchConfigPath() string {
	var res string
	flag.StringVar(&res, "c", "", "config file path")
	flag.Parse()
	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
