package config

import (
	"strings"
	"testing"
)

const minimalYAML = `
elasticsearch:
  url: http://es:9200/
  index_prefix: search2
workspace:
  url: http://ws/
user_profile:
  url: http://profile
types:
  KBaseGenomes.Genome: genome
  Narrative: narrative
`

func validConfig() Config {
	cfg := Config{
		HTTP:          HTTPConfig{Port: 5000},
		Elasticsearch: ElasticsearchConfig{URL: "http://es:9200", IndexPrefix: "search2"},
		Workspace:     WorkspaceConfig{URL: "http://ws"},
		UserProfile:   UserProfileConfig{URL: "http://profile"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.HTTP.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.HTTP.Port)
	}
	if cfg.Elasticsearch.URL != "http://es:9200" {
		t.Errorf("url = %q, trailing slash should be trimmed", cfg.Elasticsearch.URL)
	}
	if cfg.Workspace.URL != "http://ws" {
		t.Errorf("workspace url = %q", cfg.Workspace.URL)
	}
	if cfg.Elasticsearch.PrefixDelimiter != "." || cfg.Elasticsearch.SuffixDelimiter != "_" {
		t.Errorf("delimiters = %q/%q", cfg.Elasticsearch.PrefixDelimiter, cfg.Elasticsearch.SuffixDelimiter)
	}
	if cfg.Elasticsearch.DefaultAlias != "default_search" {
		t.Errorf("default alias = %q", cfg.Elasticsearch.DefaultAlias)
	}
	if cfg.Elasticsearch.TerminateAfter != 10000 {
		t.Errorf("terminate_after = %d", cfg.Elasticsearch.TerminateAfter)
	}
	if cfg.Elasticsearch.SearchTimeout != "3m" {
		t.Errorf("search_timeout = %q", cfg.Elasticsearch.SearchTimeout)
	}
	if cfg.UserProfile.Strict {
		t.Error("strict profile policy should default to false")
	}
	if cfg.Enrichment.WorkspaceConcurrency != 8 {
		t.Errorf("workspace_concurrency = %d", cfg.Enrichment.WorkspaceConcurrency)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_INDEX_PREFIX", "custom")

	data := strings.Replace(minimalYAML, "index_prefix: search2", "index_prefix: ${TEST_INDEX_PREFIX}", 1)
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Elasticsearch.IndexPrefix != "custom" {
		t.Errorf("index_prefix = %q, want custom", cfg.Elasticsearch.IndexPrefix)
	}
}

func TestExpandEnvVars_Default(t *testing.T) {
	got := string(expandEnvVars([]byte("url: ${SEARCHAPI_UNSET_VAR:-http://fallback}")))
	if got != "url: http://fallback" {
		t.Errorf("got %q", got)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"no engine url", func(c *Config) { c.Elasticsearch.URL = "" }, "elasticsearch.url"},
		{"no prefix", func(c *Config) { c.Elasticsearch.IndexPrefix = "" }, "index_prefix"},
		{"no workspace", func(c *Config) { c.Workspace.URL = "" }, "workspace.url"},
		{"no profile", func(c *Config) { c.UserProfile.URL = "" }, "user_profile.url"},
		{"bad timeout", func(c *Config) { c.Elasticsearch.SearchTimeout = "soon" }, "search_timeout"},
		{"bad alias", func(c *Config) { c.Types["KBaseGenomes.Genome"] = "genome,*" }, "invalid index alias"},
		{"bad sub-object alias", func(c *Config) { c.SubObjectTypes["GenomeFeature"] = "-x" }, "invalid index alias"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTypeAliases_StripsModule(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	aliases := cfg.TypeAliases()
	if aliases["Genome"] != "genome" {
		t.Errorf("Genome alias = %q", aliases["Genome"])
	}
	if aliases["Narrative"] != "narrative" {
		t.Errorf("Narrative alias = %q", aliases["Narrative"])
	}
	if _, ok := aliases["KBaseGenomes.Genome"]; ok {
		t.Error("module-qualified key should not be kept")
	}
}

func TestGetEnv_Default(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
}

func TestExposed_Whitelist(t *testing.T) {
	cfg := validConfig()
	cfg.Types = map[string]string{"Genome": "genome"}
	exposed := cfg.Exposed()

	if exposed["elasticsearch_url"] != "http://es:9200" {
		t.Errorf("elasticsearch_url = %v", exposed["elasticsearch_url"])
	}
	if exposed["index_prefix"] != "search2" {
		t.Errorf("index_prefix = %v", exposed["index_prefix"])
	}
	for _, hidden := range []string{"http", "logging", "service", "search_timeout"} {
		if _, ok := exposed[hidden]; ok {
			t.Errorf("%s must not be exposed", hidden)
		}
	}
}
