package config

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// PortalConfig represents the portal core service configuration
	PortalConfig struct {
		Server  ServerConfig  `yaml:"server"`
		Logger  LoggerConfig  `yaml:"logger"`
		Storage StorageConfig `yaml:"storage"`
		Auth    AuthConfig    `yaml:"auth"`
	}

	// ProxyConfig represents the reference Cloud SQL proxy configuration
	ProxyConfig struct {
		Server    ServerConfig              `yaml:"server"`
		Logger    LoggerConfig              `yaml:"logger"`
		Providers map[string]ProviderConfig `yaml:"providers"` // keyed by provider name
	}

	// ServerConfig represents an HTTP listener configuration
	ServerConfig struct {
		Port int `yaml:"port"`
	}

	// AuthConfig holds the JWT signing configuration for the API surface
	AuthConfig struct {
		JWTSecret string `yaml:"jwt_secret"`
	}

	// StorageConfig represents the local store configuration
	StorageConfig struct {
		Type    string `yaml:"type"`     // disk, memory
		BaseDir string `yaml:"base_dir"` // data directory when type is disk
	}

	// ProviderConfig holds the connection credentials the proxy combines
	// with the per-request database name and user
	ProviderConfig struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		// Path is used by the sqlite provider instead of host credentials
		Path string `yaml:"path"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone"`   // time zone for log timestamps, default is local
		TimeFormat string `yaml:"time_format"` // time format for log timestamps
	}
)

type Type interface {
	PortalConfig | ProxyConfig
}

// LoadConfig loads configuration from a YAML file with environment variable support
func LoadConfig[T Type](path string) (*T, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Resolve environment variables
	data = resolveEnv(data)
	var cfg T
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	regex := regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

	return regex.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := regex.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}
