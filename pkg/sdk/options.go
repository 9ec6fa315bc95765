package searchapi

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	esURL           string
	indexPrefix     string
	prefixDelimiter string
	workspaceURL    string
	userProfileURL  string
	types           map[string]string
	subObjectTypes  map[string]string
	timeout         time.Duration
	readiness       time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch sets the engine base URL. Required.
func WithElasticsearch(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esURL = url
	})
}

// WithIndexPrefix sets the index name prefix and the delimiter that joins it
// to aliases. Required. An empty delimiter defaults to ".".
func WithIndexPrefix(prefix, delimiter string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexPrefix = prefix
		c.prefixDelimiter = delimiter
	})
}

// WithWorkspace sets the workspace service URL used for access control.
func WithWorkspace(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.workspaceURL = url
	})
}

// WithUserProfile sets the user profile service URL used for narrative enrichment.
func WithUserProfile(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userProfileURL = url
	})
}

// WithTypes sets the object type → index alias tables for legacy searches.
func WithTypes(types, subObjectTypes map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.types = types
		c.subObjectTypes = subObjectTypes
	})
}

// WithTimeout bounds every upstream call. Defaults to the server defaults.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithReadinessTimeout bounds the initial engine readiness wait.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
