// Package config resolves sitevec settings from defaults, a YAML file,
// .env files and the environment. Command-line flags are applied last by
// the caller.
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
	"github.com/fwojciec/sitevec"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName names the configuration and data directories.
const AppName = "sitevec"

// FileName is the configuration file name inside the config directory.
const FileName = "config.yaml"

// Extraction strategies.
const (
	ExtractorBody        = "body"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Output formats of staged files.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Environment variables read by Load.
const (
	EnvAPIKey        = "OPENAI_API_KEY"
	EnvVectorStoreID = "OPENAI_VECTORSTORE_ID"
	EnvBaseURL       = "OPENAI_BASE_URL"
	EnvDBPath        = "SITEVEC_DB"
	EnvStagingRoot   = "SITEVEC_STAGING_DIR"
	EnvBatchLimit    = "SITEVEC_BATCH_LIMIT"
)

// Config holds every tunable of a crawl.
type Config struct {
	APIKey        string `yaml:"api_key"`
	VectorStoreID string `yaml:"vector_store_id"`
	BaseURL       string `yaml:"base_url"`

	BatchLimit        int           `yaml:"batch_limit"`
	StagingRoot       string        `yaml:"staging_root"`
	DBPath            string        `yaml:"db_path"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"rps"`
	UploadConcurrency int           `yaml:"upload_concurrency"`
	PollInterval      time.Duration `yaml:"poll_interval"`

	Extractor     string `yaml:"extractor"`
	Format        string `yaml:"format"`
	Browser       bool   `yaml:"browser"`
	RespectRobots bool   `yaml:"respect_robots"`
	Sitemap       bool   `yaml:"sitemap"`
	Dedupe        bool   `yaml:"dedupe"`
	MaxPages      int    `yaml:"max_pages"`
	CountTokens   bool   `yaml:"count_tokens"`

	Addr string `yaml:"addr"`
}

// Default returns the configuration used when nothing else is set. It
// reproduces a plain crawl: body text, no politeness, no seeding.
func Default() Config {
	return Config{
		BaseURL:           "https://api.openai.com/v1",
		BatchLimit:        500,
		DBPath:            DefaultDBPath(),
		FetchTimeout:      30 * time.Second,
		UploadConcurrency: 5,
		PollInterval:      time.Second,
		Extractor:         ExtractorBody,
		Format:            FormatText,
		Addr:              ":8080",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/sitevec/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, FileName)
}

// DefaultDBPath returns $XDG_DATA_HOME/sitevec/sitevec.db.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, AppName+".db")
}

// Env looks up an environment variable.
type Env func(key string) (string, bool)

// DotEnv returns an Env that consults the process environment first and
// then the given .env files. Missing files are ignored.
func DotEnv(paths ...string) (Env, error) {
	values := make(map[string]string)
	for _, path := range paths {
		m, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, sitevec.Errorf(sitevec.EINVALID, "reading %s: %v", path, err)
		}
		for k, v := range m {
			if _, ok := values[k]; !ok {
				values[k] = v
			}
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// Load builds a Config from defaults, the YAML file at path and env.
// An empty path reads DefaultPath and tolerates its absence; an explicit
// path must exist. A nil env skips the environment.
func Load(path string, env Env) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if env != nil {
		if err := cfg.applyEnv(env); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return sitevec.Errorf(sitevec.EINVALID, "parsing %s: %v", path, err)
	}
	return nil
}

func (c *Config) applyEnv(env Env) error {
	strs := map[string]*string{
		EnvAPIKey:        &c.APIKey,
		EnvVectorStoreID: &c.VectorStoreID,
		EnvBaseURL:       &c.BaseURL,
		EnvDBPath:        &c.DBPath,
		EnvStagingRoot:   &c.StagingRoot,
	}
	for key, dst := range strs {
		if v, ok := env(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := env(EnvBatchLimit); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return sitevec.Errorf(sitevec.EINVALID, "%s must be an integer, got %q", EnvBatchLimit, v)
		}
		c.BatchLimit = n
	}
	return nil
}

// Validate reports the first setting that cannot drive a crawl.
// Credentials are checked separately by the crawl itself.
func (c Config) Validate() error {
	switch c.Extractor {
	case ExtractorBody, ExtractorTrafilatura, ExtractorReadability:
	default:
		return sitevec.Errorf(sitevec.EINVALID, "unknown extractor %q", c.Extractor)
	}
	switch c.Format {
	case FormatText, FormatMarkdown:
	default:
		return sitevec.Errorf(sitevec.EINVALID, "unknown format %q", c.Format)
	}
	if c.BatchLimit < 1 {
		return sitevec.Errorf(sitevec.EINVALID, "batch limit must be positive, got %d", c.BatchLimit)
	}
	if c.MaxPages < 0 {
		return sitevec.Errorf(sitevec.EINVALID, "max pages must not be negative, got %d", c.MaxPages)
	}
	if c.RequestsPerSecond < 0 {
		return sitevec.Errorf(sitevec.EINVALID, "requests per second must not be negative, got %v", c.RequestsPerSecond)
	}
	if c.UploadConcurrency < 1 {
		return sitevec.Errorf(sitevec.EINVALID, "upload concurrency must be positive, got %d", c.UploadConcurrency)
	}
	return nil
}

// String renders the config with the API key masked.
func (c Config) String() string {
	masked := c
	if masked.APIKey != "" {
		masked.APIKey = "****"
	}
	out, err := yaml.Marshal(masked)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(out)
}
