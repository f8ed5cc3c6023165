package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	ListenPort string   `yaml:"listen_port"`
	Results    Results  `yaml:"results"`
	Preview    Preview  `yaml:"preview"`
	Security   Security `yaml:"security"`
	Log        Log      `yaml:"log"`
}

type Results struct {
	DefaultRoot string        `yaml:"default_root" validate:"required,url"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Preview struct {
	Locale      string        `yaml:"locale"`
	MaxSessions int           `yaml:"max_sessions" validate:"gte=0"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

type Security struct {
	HTTPS          bool     `yaml:"https"`
	FrameAncestors []string `yaml:"frame_ancestors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// MountRate is the number of new sessions per second one client IP may open, MountBurst its burst.
	MountRate  float64 `yaml:"mount_rate" validate:"gte=0"`
	MountBurst int     `yaml:"mount_burst" validate:"gte=0"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Private struct {
	HandshakeKey string `yaml:"handshake_key" validate:"required"`
}

const (
	defaultPort        = "8081"
	defaultTimeout     = 30 * time.Second
	defaultLocale      = "und"
	defaultMaxSessions = 1024
	defaultSessionTTL  = 2 * time.Hour
	defaultMountRate   = 1.0
	defaultMountBurst  = 10
)

func (c *Config) HandshakeKey() string {
	return c.private.HandshakeKey
}

// New builds a config from already decoded parts, applying defaults and validation.
func New(public Public, private Private) (*Config, error) {
	cfg := &Config{Public: public, private: private}
	cfg.applyEnv()
	cfg.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg.Public); err != nil {
		return nil, fmt.Errorf("invalid public config: %w", err)
	}
	if err := validate.Struct(cfg.private); err != nil {
		return nil, fmt.Errorf("invalid private config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Public.ListenPort = port
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Public.Log.Level = level
	}
	if key := os.Getenv("HANDSHAKE_KEY"); key != "" {
		c.private.HandshakeKey = key
	}
}

func (c *Config) applyDefaults() {
	if c.Public.ListenPort == "" {
		c.Public.ListenPort = defaultPort
	}
	if c.Public.Results.Timeout == 0 {
		c.Public.Results.Timeout = defaultTimeout
	}
	if c.Public.Preview.Locale == "" {
		c.Public.Preview.Locale = defaultLocale
	}
	if c.Public.Preview.MaxSessions == 0 {
		c.Public.Preview.MaxSessions = defaultMaxSessions
	}
	if c.Public.Preview.SessionTTL == 0 {
		c.Public.Preview.SessionTTL = defaultSessionTTL
	}
	if c.Public.Security.MountRate == 0 {
		c.Public.Security.MountRate = defaultMountRate
	}
	if c.Public.Security.MountBurst == 0 {
		c.Public.Security.MountBurst = defaultMountBurst
	}
	if c.Public.Log.Level == "" {
		c.Public.Log.Level = "info"
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.UnmarshalStrict(configFile, output); err != nil {
		panic("can't unmarshal config file " + configPath + ": " + err.Error())
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder and panics on any problem.
// private.yaml may be omitted when HANDSHAKE_KEY is set.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil || os.Getenv("HANDSHAKE_KEY") == "" {
		mustLoadPath(privatePath, &private)
	}

	cfg, err := New(public, private)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
