package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName names the application's XDG directories.
const AppName = "casedesk"

// Config defines server configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Transport   TransportConfig   `yaml:"transport"`
	Auth        AuthConfig        `yaml:"auth"`
	DB          DBConfig          `yaml:"db"`
	Log         LogConfig         `yaml:"log"`
	HRM         HRMConfig         `yaml:"hrm"`
	Agent       AgentConfig       `yaml:"agent"`
	Definitions DefinitionsConfig `yaml:"definitions"`
	Directory   DirectoryConfig   `yaml:"directory"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// HRMConfig locates the HRM API. Token, when set, is sent as a bearer token
// instead of the basic secret.
type HRMConfig struct {
	BaseURL string        `yaml:"base_url"`
	Secret  string        `yaml:"secret"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// AgentConfig identifies the agent whose desktop the service backs.
type AgentConfig struct {
	WorkerSID         string `yaml:"worker_sid"`
	Helpline          string `yaml:"helpline"`
	DefaultDefinition string `yaml:"default_definition"`
}

type DefinitionsConfig struct {
	Dir string `yaml:"dir"`
}

type DirectoryConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 8080},
		Transport: TransportConfig{Mode: "http"},
		Auth:      AuthConfig{Enabled: true},
		DB:        DBConfig{Path: filepath.Join(xdg.DataHome, AppName, AppName+".db")},
		Log:       LogConfig{Level: "info"},
		HRM:       HRMConfig{Timeout: 30 * time.Second},
		Agent:     AgentConfig{DefaultDefinition: "v1"},
		Definitions: DefinitionsConfig{
			Dir: filepath.Join(xdg.ConfigHome, AppName, "definitions"),
		},
		Directory: DirectoryConfig{
			Path: filepath.Join(xdg.ConfigHome, AppName, "counselors.yaml"),
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and CASEDESK_* environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CASEDESK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	envFile := os.Getenv("CASEDESK_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("CASEDESK_SERVER_HOST", &cfg.Server.Host)
	if portStr := os.Getenv("CASEDESK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid CASEDESK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	setString("CASEDESK_TRANSPORT", &cfg.Transport.Mode)
	if enabled := os.Getenv("CASEDESK_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid CASEDESK_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	setString("CASEDESK_DB_PATH", &cfg.DB.Path)
	setString("CASEDESK_LOG_LEVEL", &cfg.Log.Level)
	setString("CASEDESK_LOG_PATH", &cfg.Log.Path)
	setString("CASEDESK_HRM_BASE_URL", &cfg.HRM.BaseURL)
	setString("CASEDESK_HRM_SECRET", &cfg.HRM.Secret)
	setString("CASEDESK_HRM_TOKEN", &cfg.HRM.Token)
	if timeout := os.Getenv("CASEDESK_HRM_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid CASEDESK_HRM_TIMEOUT: %w", err)
		}
		cfg.HRM.Timeout = d
	}
	setString("CASEDESK_WORKER_SID", &cfg.Agent.WorkerSID)
	setString("CASEDESK_HELPLINE", &cfg.Agent.Helpline)
	setString("CASEDESK_DEFAULT_DEFINITION", &cfg.Agent.DefaultDefinition)
	setString("CASEDESK_DEFINITIONS_DIR", &cfg.Definitions.Dir)
	setString("CASEDESK_DIRECTORY_PATH", &cfg.Directory.Path)
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
