package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/blog-in-go/pkg/logger"
	"github.com/doodlesbykumbi/blog-in-go/pkg/token"
)

const (
	DefaultConfigPath = "/etc/blog"
	ConfigFileName    = "blog.yml"
	DefaultEnvFile    = ".env"

	// DefaultMaxUploadSize is 500MB.
	DefaultMaxUploadSize int64 = 500 * 1024 * 1024

	// DefaultUploadTimeout bounds the time one upload request may take.
	DefaultUploadTimeout = time.Hour
)

// Config holds all server configuration settings.
type Config struct {
	Port        string `json:"port"`
	BindAddress string `json:"bind_address"`
	DatabaseURL string `json:"-"`

	// JWTSecret signs session tokens. Never printed.
	JWTSecret string        `json:"-"`
	TokenTTL  time.Duration `json:"token_ttl"`

	UploadDir     string `json:"upload_dir"`
	MaxUploadSize int64  `json:"max_upload_size"`

	// UploadTimeout replaces the server read and write timeouts for upload
	// requests. Zero removes the deadline for them altogether.
	UploadTimeout time.Duration `json:"upload_timeout"`

	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	LogLevel    string `json:"log_level"`
	LogEncoding string `json:"log_encoding"`

	// RejectInactive makes the authentication middleware refuse tokens of
	// deactivated accounts.
	RejectInactive bool `json:"reject_inactive"`
	BcryptCost     int  `json:"bcrypt_cost"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors Config for YAML decoding. Pointers distinguish unset
// keys from zero values.
type fileConfig struct {
	Port               string   `yaml:"port"`
	BindAddress        string   `yaml:"bind_address"`
	DatabaseURL        string   `yaml:"database_url"`
	JWTSecret          string   `yaml:"jwt_secret"`
	TokenTTL           string   `yaml:"token_ttl"`
	UploadDir          string   `yaml:"upload_dir"`
	MaxUploadSize      int64    `yaml:"max_upload_size"`
	UploadTimeout      string   `yaml:"upload_timeout"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	LogLevel           string   `yaml:"log_level"`
	LogEncoding        string   `yaml:"log_encoding"`
	RejectInactive     *bool    `yaml:"reject_inactive"`
	BcryptCost         int      `yaml:"bcrypt_cost"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

func newDefault() *Config {
	return &Config{
		Port:               "3000",
		BindAddress:        "0.0.0.0",
		TokenTTL:           token.DefaultTTL,
		UploadDir:          "uploads",
		MaxUploadSize:      DefaultMaxUploadSize,
		UploadTimeout:      DefaultUploadTimeout,
		CORSAllowedOrigins: []string{"*"},
		LogLevel:           "info",
		LogEncoding:        "json",
		RejectInactive:     true,
		BcryptCost:         bcrypt.DefaultCost,
		sources:            make(map[string]string),
	}
}

// Load loads configuration from the config file, the .env file and the
// environment.
func Load() (*Config, error) {
	cfg := newDefault()

	for _, name := range attributeNames() {
		cfg.sources[name] = "default"
	}

	configPath := os.Getenv("BLOG_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(cfg.configFilePath); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", cfg.configFilePath, err)
		}
		if err := cfg.applyFileConfig(&fc); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", cfg.configFilePath, err)
		}
	}

	envFile := os.Getenv("BLOG_ENV_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv := map[string]string{}
	if _, err := os.Stat(envFile); err == nil {
		dotenv, err = godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse env file %s: %w", envFile, err)
		}
	}

	cfg.applyEnvConfig(newLookup(dotenv))

	return cfg, nil
}

func attributeNames() []string {
	return []string{
		"port", "bind_address", "database_url", "jwt_secret", "token_ttl",
		"upload_dir", "max_upload_size", "upload_timeout", "cors_allowed_origins",
		"log_level", "log_encoding", "reject_inactive", "bcrypt_cost",
	}
}

func (c *Config) applyFileConfig(file *fileConfig) error {
	if file.Port != "" {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.DatabaseURL != "" {
		c.DatabaseURL = file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.JWTSecret != "" {
		c.JWTSecret = file.JWTSecret
		c.sources["jwt_secret"] = "file"
	}
	if file.TokenTTL != "" {
		d, err := time.ParseDuration(file.TokenTTL)
		if err != nil {
			return fmt.Errorf("token_ttl: %w", err)
		}
		c.TokenTTL = d
		c.sources["token_ttl"] = "file"
	}
	if file.UploadDir != "" {
		c.UploadDir = file.UploadDir
		c.sources["upload_dir"] = "file"
	}
	if file.MaxUploadSize != 0 {
		c.MaxUploadSize = file.MaxUploadSize
		c.sources["max_upload_size"] = "file"
	}
	if file.UploadTimeout != "" {
		d, err := time.ParseDuration(file.UploadTimeout)
		if err != nil {
			return fmt.Errorf("upload_timeout: %w", err)
		}
		c.UploadTimeout = d
		c.sources["upload_timeout"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogEncoding != "" {
		c.LogEncoding = file.LogEncoding
		c.sources["log_encoding"] = "file"
	}
	if file.RejectInactive != nil {
		c.RejectInactive = *file.RejectInactive
		c.sources["reject_inactive"] = "file"
	}
	if file.BcryptCost != 0 {
		c.BcryptCost = file.BcryptCost
		c.sources["bcrypt_cost"] = "file"
	}
	return nil
}

// lookup resolves a key from the process environment first and the .env
// file second, reporting which one answered.
type lookup func(keys ...string) (value string, source string, ok bool)

func newLookup(dotenv map[string]string) lookup {
	return func(keys ...string) (string, string, bool) {
		for _, key := range keys {
			if val, ok := os.LookupEnv(key); ok && val != "" {
				return val, "environment", true
			}
		}
		for _, key := range keys {
			if val, ok := dotenv[key]; ok && val != "" {
				return val, "dotenv", true
			}
		}
		return "", "", false
	}
}

func (c *Config) applyEnvConfig(env lookup) {
	if val, src, ok := env("BLOG_PORT", "PORT"); ok {
		c.Port = val
		c.sources["port"] = src
	}
	if val, src, ok := env("BLOG_BIND_ADDRESS", "BIND_ADDRESS"); ok {
		c.BindAddress = val
		c.sources["bind_address"] = src
	}
	if val, src, ok := env("DATABASE_URL"); ok {
		c.DatabaseURL = val
		c.sources["database_url"] = src
	}
	if val, src, ok := env("BLOG_JWT_SECRET"); ok {
		c.JWTSecret = val
		c.sources["jwt_secret"] = src
	}
	if val, src, ok := env("BLOG_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.TokenTTL = d
			c.sources["token_ttl"] = src
		}
	}
	if val, src, ok := env("BLOG_UPLOAD_DIR"); ok {
		c.UploadDir = val
		c.sources["upload_dir"] = src
	}
	if val, src, ok := env("BLOG_MAX_UPLOAD_SIZE"); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.MaxUploadSize = i
			c.sources["max_upload_size"] = src
		}
	}
	if val, src, ok := env("BLOG_UPLOAD_TIMEOUT"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.UploadTimeout = d
			c.sources["upload_timeout"] = src
		}
	}
	if val, src, ok := env("BLOG_CORS_ALLOWED_ORIGINS"); ok {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = src
	}
	if val, src, ok := env("BLOG_LOG_LEVEL"); ok {
		c.LogLevel = val
		c.sources["log_level"] = src
	}
	if val, src, ok := env("BLOG_LOG_ENCODING"); ok {
		c.LogEncoding = val
		c.sources["log_encoding"] = src
	}
	if val, src, ok := env("BLOG_REJECT_INACTIVE"); ok {
		c.RejectInactive = val == "true" || val == "1"
		c.sources["reject_inactive"] = src
	}
	if val, src, ok := env("BLOG_BCRYPT_COST"); ok {
		if i, err := strconv.Atoi(val); err == nil {
			c.BcryptCost = i
			c.sources["bcrypt_cost"] = src
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.BindAddress + ":" + c.Port
}

// UploadLimitLabel renders MaxUploadSize the way the system info endpoint
// reports it, e.g. "500MB".
func (c *Config) UploadLimitLabel() string {
	const mb = 1024 * 1024
	if c.MaxUploadSize%mb == 0 {
		return fmt.Sprintf("%dMB", c.MaxUploadSize/mb)
	}
	return fmt.Sprintf("%.2fMB", float64(c.MaxUploadSize)/mb)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required (set BLOG_JWT_SECRET)"))
	} else if len(c.JWTSecret) < token.MinSecretLength {
		errs = append(errs, fmt.Errorf("jwt_secret must be at least %d bytes", token.MinSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_size must be positive, got %d", c.MaxUploadSize))
	}
	if c.UploadTimeout < 0 {
		errs = append(errs, fmt.Errorf("upload_timeout must not be negative, got %s", c.UploadTimeout))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("upload_dir is required"))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	return errors.Join(errs...)
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "port", Value: c.Port, Source: c.Source("port")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "database_url", Value: redact(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "jwt_secret", Value: redact(c.JWTSecret), Source: c.Source("jwt_secret")},
		{Name: "token_ttl", Value: c.TokenTTL.String(), Source: c.Source("token_ttl")},
		{Name: "upload_dir", Value: c.UploadDir, Source: c.Source("upload_dir")},
		{Name: "max_upload_size", Value: strconv.FormatInt(c.MaxUploadSize, 10), Source: c.Source("max_upload_size")},
		{Name: "upload_timeout", Value: c.UploadTimeout.String(), Source: c.Source("upload_timeout")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_encoding", Value: c.LogEncoding, Source: c.Source("log_encoding")},
		{Name: "reject_inactive", Value: strconv.FormatBool(c.RejectInactive), Source: c.Source("reject_inactive")},
		{Name: "bcrypt_cost", Value: strconv.Itoa(c.BcryptCost), Source: c.Source("bcrypt_cost")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "(redacted)"
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
