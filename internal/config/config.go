package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the search API configuration.
type Config struct {
	HTTP           HTTPConfig          `yaml:"http"`
	Elasticsearch  ElasticsearchConfig `yaml:"elasticsearch"`
	Workspace      WorkspaceConfig     `yaml:"workspace"`
	UserProfile    UserProfileConfig   `yaml:"user_profile"`
	Types          map[string]string   `yaml:"types"`
	SubObjectTypes map[string]string   `yaml:"sub_object_types"`
	Enrichment     EnrichmentConfig    `yaml:"enrichment"`
	Service        ServiceConfig       `yaml:"service"`
	Logging        LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// ElasticsearchConfig holds search engine connection and naming settings.
type ElasticsearchConfig struct {
	URL                 string `yaml:"url"`
	IndexPrefix         string `yaml:"index_prefix"`
	PrefixDelimiter     string `yaml:"prefix_delimiter"`
	SuffixDelimiter     string `yaml:"suffix_delimiter"`
	DefaultAlias        string `yaml:"default_alias"`
	NarrativeIndex      string `yaml:"narrative_index"`
	SearchTimeout       string `yaml:"search_timeout"` // engine-side, e.g. "3m"
	TerminateAfter      int    `yaml:"terminate_after"`
	IndexExclusion      bool   `yaml:"index_exclusion"`
	RequestTimeoutSec   int    `yaml:"request_timeout_sec"`
	ReadinessTimeoutSec int    `yaml:"readiness_timeout_sec"`
}

// WorkspaceConfig holds the workspace (authorization) service settings.
type WorkspaceConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// UserProfileConfig holds the user profile service settings.
type UserProfileConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	// Strict turns a missing owner profile into a request error instead of
	// falling back to the bare username.
	Strict bool `yaml:"strict"`
}

// EnrichmentConfig holds narrative/workspace enrichment settings.
type EnrichmentConfig struct {
	WorkspaceConcurrency int `yaml:"workspace_concurrency"`
}

// ServiceConfig holds values reported by the status method.
type ServiceConfig struct {
	GitURL string `yaml:"git_url"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes raw YAML, substituting env variables, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 240
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}

	es := &c.Elasticsearch
	es.URL = strings.TrimRight(es.URL, "/")
	if es.PrefixDelimiter == "" {
		es.PrefixDelimiter = "."
	}
	if es.SuffixDelimiter == "" {
		es.SuffixDelimiter = "_"
	}
	if es.DefaultAlias == "" {
		es.DefaultAlias = "default_search"
	}
	if es.NarrativeIndex == "" {
		es.NarrativeIndex = "narrative"
	}
	if es.SearchTimeout == "" {
		es.SearchTimeout = "3m"
	}
	if es.TerminateAfter <= 0 {
		es.TerminateAfter = 10000
	}
	if es.RequestTimeoutSec <= 0 {
		es.RequestTimeoutSec = 200
	}
	if es.ReadinessTimeoutSec <= 0 {
		es.ReadinessTimeoutSec = 60
	}

	c.Workspace.URL = strings.TrimRight(c.Workspace.URL, "/")
	if c.Workspace.TimeoutSec <= 0 {
		c.Workspace.TimeoutSec = 60
	}
	c.UserProfile.URL = strings.TrimRight(c.UserProfile.URL, "/")
	if c.UserProfile.TimeoutSec <= 0 {
		c.UserProfile.TimeoutSec = 60
	}
	if c.Enrichment.WorkspaceConcurrency <= 0 {
		c.Enrichment.WorkspaceConcurrency = 8
	}
	if c.Types == nil {
		c.Types = map[string]string{}
	}
	if c.SubObjectTypes == nil {
		c.SubObjectTypes = map[string]string{}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Elasticsearch.URL == "" {
		return fmt.Errorf("elasticsearch.url is required")
	}
	if c.Elasticsearch.IndexPrefix == "" {
		return fmt.Errorf("elasticsearch.index_prefix is required")
	}
	if c.Workspace.URL == "" {
		return fmt.Errorf("workspace.url is required")
	}
	if c.UserProfile.URL == "" {
		return fmt.Errorf("user_profile.url is required")
	}
	if _, err := time.ParseDuration(c.Elasticsearch.SearchTimeout); err != nil {
		return fmt.Errorf("elasticsearch.search_timeout: %w", err)
	}
	for _, alias := range []string{c.Elasticsearch.DefaultAlias, c.Elasticsearch.NarrativeIndex} {
		if !validAlias(alias) {
			return fmt.Errorf("invalid index alias %q", alias)
		}
	}
	for typ, alias := range c.Types {
		if !validAlias(alias) {
			return fmt.Errorf("types.%s: invalid index alias %q", typ, alias)
		}
	}
	for typ, alias := range c.SubObjectTypes {
		if !validAlias(alias) {
			return fmt.Errorf("sub_object_types.%s: invalid index alias %q", typ, alias)
		}
	}
	return nil
}

// TypeAliases returns the type → alias table keyed by bare type name.
// Both "Module.Type" and "Type" keys are accepted in the config file.
func (c *Config) TypeAliases() map[string]string {
	out := make(map[string]string, len(c.Types))
	for key, alias := range c.Types {
		name := key
		if i := strings.LastIndex(key, "."); i >= 0 {
			name = key[i+1:]
		}
		out[name] = alias
	}
	return out
}

var aliasRegex = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

func validAlias(alias string) bool {
	return aliasRegex.MatchString(alias)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

// Exposed returns the settings show_config may publish. Keys are listed
// explicitly so new settings stay private until added here.
func (c *Config) Exposed() map[string]any {
	return map[string]any{
		"elasticsearch_url":     c.Elasticsearch.URL,
		"index_prefix":          c.Elasticsearch.IndexPrefix,
		"prefix_delimiter":      c.Elasticsearch.PrefixDelimiter,
		"suffix_delimiter":      c.Elasticsearch.SuffixDelimiter,
		"default_alias":         c.Elasticsearch.DefaultAlias,
		"workspace_url":         c.Workspace.URL,
		"user_profile_url":      c.UserProfile.URL,
		"types":                 c.Types,
		"sub_object_types":      c.SubObjectTypes,
		"workspace_concurrency": c.Enrichment.WorkspaceConcurrency,
		"strict_user_profiles":  c.UserProfile.Strict,
	}
}
