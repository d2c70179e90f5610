// Package config reads and writes the regrade settings file.
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/regrade/pkg/process"
	"github.com/mchmarny/regrade/pkg/score"
	"github.com/mchmarny/regrade/pkg/table"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	StrategyDefault = "pattern"
	ParallelDefault = 1
)

// Config holds the settings a run starts from. Command line flags override
// them.
type Config struct {
	Strategy   string         `yaml:"strategy"`
	Exhaustive bool           `yaml:"exhaustive"`
	Seed       int64          `yaml:"seed"`
	Suffix     string         `yaml:"suffix"`
	Parallel   int            `yaml:"parallel"`
	DB         string         `yaml:"db,omitempty"`
	Layout     process.Layout `yaml:"layout"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		Strategy: StrategyDefault,
		Suffix:   table.DefaultSuffix,
		Parallel: ParallelDefault,
		Layout:   process.DefaultLayout(),
	}
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	if !contains(score.StrategyNames, strings.ToLower(c.Strategy)) {
		return errors.Errorf("unknown strategy %q, want one of [%s]", c.Strategy, strings.Join(score.StrategyNames, ", "))
	}
	if c.Parallel < 1 {
		return errors.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(err, "invalid layout")
	}
	return nil
}

// Save writes c into dirPath.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads the config in dirPath, writing the defaults first when
// the file does not exist yet. Fields missing from the file keep their
// default values.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(dirPath, dirMode)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	return Read(path)
}

// Read loads the config file at path over the defaults.
func Read(path string) (*Config, error) {
	j, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer j.Close()

	b, err := io.ReadAll(j)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file %s", path)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return c, nil
}

// GetOrCreateHomeDir returns the named directory under the user's home.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		err := os.Mkdir(dir, dirMode)
		if err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
