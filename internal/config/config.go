package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    string  `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis      Redis   `yaml:"redis"`
	Session    Session `yaml:"session"`
	Games      Games   `yaml:"games"`
}

type Redis struct {
	Host       string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"REDIS_SESSION_TTL" env-default:"2h"`
}

type Session struct {
	MoveTimeout  time.Duration `yaml:"move-timeout" env-default:"2m"`
	TotalTimeout time.Duration `yaml:"total-timeout" env-default:"40s"`
	IdleAbort    time.Duration `yaml:"idle-abort" env-default:"30m"`
}

type Games struct {
	WordsFile    string       `yaml:"words-file" env:"WORDS_FILE"`
	Twenty48     Twenty48     `yaml:"twenty48"`
	Hangman      Hangman      `yaml:"hangman"`
	Wordle       Wordle       `yaml:"wordle"`
	Battleship   Battleship   `yaml:"battleship"`
	Typerace     Typerace     `yaml:"typerace"`
	VerbalMemory VerbalMemory `yaml:"verbal-memory"`
	Reaction     Reaction     `yaml:"reaction"`
}

type Twenty48 struct {
	WinAt int `yaml:"win-at" env-default:"2048"`
}

type Hangman struct {
	Lives int `yaml:"lives" env-default:"8"`
}

type Wordle struct {
	Attempts int `yaml:"attempts" env-default:"6"`
}

type Battleship struct {
	RandomPlacement bool `yaml:"random-placement" env-default:"false"`
}

type Typerace struct {
	Winners   int     `yaml:"winners" env-default:"3"`
	Threshold float64 `yaml:"threshold" env-default:"0.9"`
}

type VerbalMemory struct {
	Lives int `yaml:"lives" env-default:"3"`
}

type Reaction struct {
	MinPause time.Duration `yaml:"min-pause" env-default:"1s"`
	MaxPause time.Duration `yaml:"max-pause" env-default:"5s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
