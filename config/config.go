// Package config holds settings for the jconv tool. Values come from
// defaults, an optional YAML file and finally command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gbv/jconv"
	"gopkg.in/yaml.v3"
)

// configPathEnv points to a config file, overriding the default location.
const configPathEnv = "JCONV_CONFIG"

// Config for conversions and harvesting.
type Config struct {
	// OutputDir receives one JSON file per accepted record.
	OutputDir string `yaml:"outdir"`
	// Format is one of jats, oai or marc.
	Format string `yaml:"format"`
	// Validate runs records through the schema validation gate.
	Validate bool `yaml:"validate"`
	// DryRun converts, but does not write any output.
	DryRun bool `yaml:"dry_run"`
	// Publisher overrides the publisher name when deriving primary ids.
	Publisher string `yaml:"publisher"`
	// Compress writes zstd compressed output files.
	Compress bool `yaml:"zstd"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
	OAI      OAI    `yaml:"oai"`
}

// OAI holds harvesting settings.
type OAI struct {
	Endpoint       string        `yaml:"endpoint"`
	MetadataPrefix string        `yaml:"metadata_prefix"`
	Set            string        `yaml:"set"`
	ArticleType    string        `yaml:"article_type"`
	From           string        `yaml:"from"`
	Until          string        `yaml:"until"`
	Timeout        time.Duration `yaml:"timeout"`
	// CacheDir keeps harvested daily slices.
	CacheDir string `yaml:"cache_dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		OutputDir: ".",
		Format:    "jats",
		LogLevel:  "warning",
		OAI: OAI{
			MetadataPrefix: "oai_dc",
			Timeout:        60 * time.Second,
			CacheDir:       filepath.Join(xdg.CacheHome, jconv.AppName, "oai"),
		},
	}
}

// DefaultPath is the config file location under the XDG config home, unless
// overridden by the environment.
func DefaultPath() string {
	if v := os.Getenv(configPathEnv); v != "" {
		return v
	}
	return filepath.Join(xdg.ConfigHome, jconv.AppName, "config.yaml")
}

// Load reads a YAML file on top of the defaults. A missing file is not an
// error, defaults are returned then.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: cannot parse %s: %w", path, err)
	}
	return cfg, nil
}

// Check validates settings which would otherwise fail late.
func (c *Config) Check() error {
	switch c.Format {
	case "jats", "oai", "marc":
	default:
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	if c.Format == "oai" && c.OAI.ArticleType == "" {
		return errors.New("config: oai format requires an article type")
	}
	return nil
}
