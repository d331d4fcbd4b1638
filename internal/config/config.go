package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SourcesConfig configures the paper search platforms.
type SourcesConfig struct {
	Enabled      []string `yaml:"enabled" mapstructure:"enabled"`
	MaxPerSource int      `yaml:"max_per_source" mapstructure:"max_per_source"`

	ArxivBaseURL    string `yaml:"arxiv_base_url" mapstructure:"arxiv_base_url"`
	OpenAlexBaseURL string `yaml:"openalex_base_url" mapstructure:"openalex_base_url"`
	PwcBaseURL      string `yaml:"pwc_base_url" mapstructure:"pwc_base_url"`
	HfBaseURL       string `yaml:"hf_base_url" mapstructure:"hf_base_url"`
	PubmedBaseURL   string `yaml:"pubmed_base_url" mapstructure:"pubmed_base_url"`
	BiorxivBaseURL  string `yaml:"biorxiv_base_url" mapstructure:"biorxiv_base_url"`
}

// PipelineConfig configures the insight pipeline.
type PipelineConfig struct {
	NumPapers    int  `yaml:"num_papers" mapstructure:"num_papers"`
	Intelligence bool `yaml:"intelligence" mapstructure:"intelligence"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AIRESEARCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "airesearcher.db")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("sources.enabled", []string{"arxiv", "pwc", "hf"})
	v.SetDefault("sources.max_per_source", 10)
	v.SetDefault("sources.arxiv_base_url", "http://export.arxiv.org/api/query")
	v.SetDefault("sources.openalex_base_url", "https://api.openalex.org")
	v.SetDefault("sources.pwc_base_url", "https://paperswithcode.com/api/v1")
	v.SetDefault("sources.hf_base_url", "https://huggingface.co")
	v.SetDefault("sources.pubmed_base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	v.SetDefault("sources.biorxiv_base_url", "https://api.biorxiv.org")
	v.SetDefault("pipeline.num_papers", 5)
	v.SetDefault("pipeline.intelligence", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for the given mode
// ("run" or "serve"). Errors name every missing or out-of-range field.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "run":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if len(c.Sources.Enabled) == 0 {
			problems = append(problems, "sources.enabled must name at least one source")
		}
	case "serve":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}
	if c.Pipeline.NumPapers < 1 || c.Pipeline.NumPapers > 100 {
		problems = append(problems, "pipeline.num_papers must be between 1 and 100")
	}
	if c.Sources.MaxPerSource < 1 {
		problems = append(problems, "sources.max_per_source must be >= 1")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
