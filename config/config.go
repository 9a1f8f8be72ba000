// Package config loads server and self-play settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"arba/meta"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

const (
	ModeRandom = "random"
	ModeAI     = "ai"
	ModeSearch = "search"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Game   GameConfig   `yaml:"game"`
	AI     AIConfig     `yaml:"ai"`
	Search SearchConfig `yaml:"search"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

type GameConfig struct {
	DefaultPiecesPerPlayer int `yaml:"defaultPiecesPerPlayer"`
	MaxPiecesPerPlayer     int `yaml:"maxPiecesPerPlayer"`
}

type AIConfig struct {
	Mode        string `yaml:"mode"`
	ModelPath   string `yaml:"modelPath"`
	OnnxLibrary string `yaml:"onnxLibrary"`
	InputName   string `yaml:"inputName"`
	OutputName  string `yaml:"outputName"`
	// Sample draws learned actions proportionally to their scores instead of
	// taking the best one.
	Sample bool  `yaml:"sample"`
	Seed   int64 `yaml:"seed"`
}

type SearchConfig struct {
	Goroutines int           `yaml:"goroutines"`
	Episodes   int           `yaml:"episodes"`
	Duration   time.Duration `yaml:"duration"`
	Cutoff     int           `yaml:"cutoff"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Game: GameConfig{
			DefaultPiecesPerPlayer: meta.DEFAULT_PIECES_PER_PLAYER,
			MaxPiecesPerPlayer:     meta.MAX_PIECES_PER_PLAYER,
		},
		AI: AIConfig{
			Mode:       ModeRandom,
			InputName:  "input",
			OutputName: "output",
		},
		Search: SearchConfig{
			Goroutines: meta.GO_ROUTINES,
			Episodes:   meta.EPISODES,
			Cutoff:     meta.WITH_CUTOFF,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path on top of the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ARBA_* variables looked up through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("ARBA_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("ARBA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("ARBA_AI_MODE"); v != "" {
		c.AI.Mode = NormalizeMode(v)
	}
	if v := getenv("ARBA_MODEL_PATH"); v != "" {
		c.AI.ModelPath = v
	}
	if v := getenv("ARBA_ONNX_LIBRARY"); v != "" {
		c.AI.OnnxLibrary = v
	}
}

func (c Config) Validate() error {
	g := c.Game
	if g.MaxPiecesPerPlayer < 1 {
		return fmt.Errorf("%w: maxPiecesPerPlayer must be positive, got %d", ErrInvalid, g.MaxPiecesPerPlayer)
	}
	if g.DefaultPiecesPerPlayer < 1 || g.DefaultPiecesPerPlayer > g.MaxPiecesPerPlayer {
		return fmt.Errorf("%w: defaultPiecesPerPlayer must be in [1,%d], got %d",
			ErrInvalid, g.MaxPiecesPerPlayer, g.DefaultPiecesPerPlayer)
	}
	if !ValidMode(c.AI.Mode) {
		return fmt.Errorf("%w: unknown ai mode %q", ErrInvalid, c.AI.Mode)
	}
	s := c.Search
	if s.Goroutines < 1 {
		return fmt.Errorf("%w: search goroutines must be positive", ErrInvalid)
	}
	if s.Episodes <= 0 && s.Duration <= 0 {
		return fmt.Errorf("%w: search needs episodes or a duration", ErrInvalid)
	}
	if s.Cutoff < 0 {
		return fmt.Errorf("%w: negative search cutoff", ErrInvalid)
	}
	return nil
}

// NormalizeMode trims and lowercases a mode name.
func NormalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}

// ValidMode reports whether mode names a known move selector.
func ValidMode(mode string) bool {
	switch mode {
	case ModeRandom, ModeAI, ModeSearch:
		return true
	}
	return false
}
