package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the workspace.
const FileName = "businesscase.yml"

// EnvPrefix prefixes every environment override, e.g. BC_SERVER_ADDR.
const EnvPrefix = "BC"

// Config models businesscase.yml.
type Config struct {
	Server struct {
		Addr        string        `yaml:"addr"`
		BasePath    string        `yaml:"base_path"`
		IdleTimeout time.Duration `yaml:"idle_timeout"`
		OpenBrowser bool          `yaml:"open_browser"`
	} `yaml:"server"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Branding struct {
		Title string `yaml:"title"`
		Logo  string `yaml:"logo"`
	} `yaml:"branding"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Auth struct {
		// JWTSecret is only taken from the environment.
		JWTSecret string `yaml:"-"`
	} `yaml:"-"`
}

// Keys that can be overridden through viper (flags or BC_* variables).
const (
	KeyServerAddr        = "server.addr"
	KeyServerBasePath    = "server.base_path"
	KeyServerIdleTimeout = "server.idle_timeout"
	KeyServerOpenBrowser = "server.open_browser"
	KeyOutputDir         = "output.dir"
	KeyBrandingTitle     = "branding.title"
	KeyBrandingLogo      = "branding.logo"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
	KeyAuthJWTSecret     = "auth.jwt_secret"
)

// Keys lists every overridable key.
func Keys() []string {
	return []string{
		KeyServerAddr, KeyServerBasePath, KeyServerIdleTimeout, KeyServerOpenBrowser,
		KeyOutputDir, KeyBrandingTitle, KeyBrandingLogo, KeyLogLevel, KeyLogFormat,
		KeyAuthJWTSecret,
	}
}

// Validate ensures the config is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config.server.addr is required")
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("config.server.addr %q: %w", c.Server.Addr, err)
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config.server.base_path must start with '/'")
	}
	if c.Server.BasePath == "/" {
		return fmt.Errorf("config.server.base_path must not be '/'")
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config.server.idle_timeout must not be negative")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("config.output.dir is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config.log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config.log.format must be console or json")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, FileName)
}

// GenerateDefault returns the default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// Load reads and validates the workspace config.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with bc config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults when the workspace has no config file.
func LoadOptional(workspace string) (*Config, error) {
	cfg, err := Load(workspace)
	if err == nil {
		return cfg, nil
	}
	if _, statErr := os.Stat(Path(workspace)); os.IsNotExist(statErr) {
		return Default(), nil
	}
	return nil, err
}

// FromYAML parses config YAML over the defaults and validates the result.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// YAML renders the config. The JWT secret is never written.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadEnvFiles loads the first existing .env file among paths into the
// process environment. Existing variables win. It returns the file used.
func LoadEnvFiles(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// NewViper returns a viper instance reading BC_* variables, e.g.
// BC_SERVER_IDLE_TIMEOUT for server.idle_timeout.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range Keys() {
		// AutomaticEnv only answers for keys viper knows about
		_ = v.BindEnv(k)
	}
	return v
}

// ApplyOverrides copies every key set in v (flag or environment) onto c.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v == nil {
		return
	}
	if v.IsSet(KeyServerAddr) {
		c.Server.Addr = v.GetString(KeyServerAddr)
	}
	if v.IsSet(KeyServerBasePath) {
		c.Server.BasePath = v.GetString(KeyServerBasePath)
	}
	if v.IsSet(KeyServerIdleTimeout) {
		c.Server.IdleTimeout = v.GetDuration(KeyServerIdleTimeout)
	}
	if v.IsSet(KeyServerOpenBrowser) {
		c.Server.OpenBrowser = v.GetBool(KeyServerOpenBrowser)
	}
	if v.IsSet(KeyOutputDir) {
		c.Output.Dir = v.GetString(KeyOutputDir)
	}
	if v.IsSet(KeyBrandingTitle) {
		c.Branding.Title = v.GetString(KeyBrandingTitle)
	}
	if v.IsSet(KeyBrandingLogo) {
		c.Branding.Logo = v.GetString(KeyBrandingLogo)
	}
	if v.IsSet(KeyLogLevel) {
		c.Log.Level = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogFormat) {
		c.Log.Format = v.GetString(KeyLogFormat)
	}
	if v.IsSet(KeyAuthJWTSecret) {
		c.Auth.JWTSecret = v.GetString(KeyAuthJWTSecret)
	}
}

// Resolve loads the workspace config (or defaults), applies overrides from v
// and validates the result.
func Resolve(workspace string, v *viper.Viper) (*Config, error) {
	cfg, err := LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const defaultTemplate = `server:
  addr: 127.0.0.1:5000
  base_path: /v0
  # stop after this long without requests; 0 disables
  idle_timeout: 3m
  open_browser: true

output:
  dir: output

branding:
  title: Kisbye Consulting – BusinessCaseGPT
  # PNG, JPEG or GIF; falls back to static/kisbye_logo.png, then kisbye_logo.png
  logo: ""

log:
  level: info
  format: console
`
