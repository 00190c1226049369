package config

import (
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/aquasecurity/cvrf2csaf/utils"
)

const (
	defaultRetry       = 5
	defaultConcurrency = 10
	defaultLogLevel    = "info"
)

type Config struct {
	OutputDir   string `yaml:"output_dir"`
	Retry       int    `yaml:"retry"`
	Concurrency int    `yaml:"concurrency"`
	LogLevel    string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		OutputDir:   utils.OutputDir(),
		Retry:       defaultRetry,
		Concurrency: defaultConcurrency,
		LogLevel:    defaultLogLevel,
	}
}

// Load reads a YAML config file on top of the defaults. An empty path skips
// the file. Environment variables override both.
func Load(fs afero.Fs, path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := afero.ReadFile(fs, path)
		if err != nil {
			return Config{}, xerrors.Errorf("failed to read config file: %w", err)
		}
		if err = yaml.UnmarshalStrict(b, &c); err != nil {
			return Config{}, xerrors.Errorf("failed to decode config file (%s): %w", path, err)
		}
	}

	c.OutputDir = utils.LookupEnv("CVRF2CSAF_OUTPUT_DIR", c.OutputDir)
	c.LogLevel = utils.LookupEnv("CVRF2CSAF_LOG_LEVEL", c.LogLevel)

	if c.Retry < 0 {
		return Config{}, xerrors.Errorf("retry must not be negative: %d", c.Retry)
	}
	if c.Concurrency < 1 {
		return Config{}, xerrors.Errorf("concurrency must be positive: %d", c.Concurrency)
	}
	return c, nil
}
