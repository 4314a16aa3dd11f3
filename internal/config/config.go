package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var (
	ErrUnknownLogFormat       = errors.New("unknown log format")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
)

type Config struct {
	LogLevel        string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat       string        `yaml:"log-format" env:"LOG_FORMAT" env-default:"json"`
	HTTPPort        string        `yaml:"http-port" env:"HTTP_PORT" env-default:"8000"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	Game            Game          `yaml:"game"`
	Redis           Redis         `yaml:"redis"`
}

// Game - AnySymbol lets the board take symbols other than X and O, written as sent.
type Game struct {
	AnySymbol bool `yaml:"any-symbol" env:"GAME_ANY_SYMBOL" env-default:"false"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:board"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads path when it exists, environment only otherwise. Environment always wins over the file.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) validate() error {
	switch that.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownLogFormat, that.LogFormat)
	}

	if that.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidShutdownTimeout, that.ShutdownTimeout)
	}

	return nil
}

func (that *Config) GetHTTPAddr() string {
	return ":" + that.HTTPPort
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
