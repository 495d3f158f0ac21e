// Package config loads and persists the project configuration file and
// scaffolds new projects.
package config

import (
	"fmt"
	"os"

	"github.com/anatolykoptev/go-kit/env"
	"gopkg.in/yaml.v3"
)

const (
	// File is the config filename looked up in the working directory.
	File = "ytce.yaml"
	// ChannelsFile is the default channel-list filename.
	ChannelsFile = "channels.txt"
)

const channelsTemplate = `# List of YouTube channels to scrape
# One channel per line
# Supported formats:
#   - @handle
#   - https://www.youtube.com/@handle
#   - https://www.youtube.com/channel/UC...
#   - /channel/UC...
#   - UC... (channel ID)
#
# Lines starting with # are comments and will be ignored
# Empty lines are ignored

@skryp
@errornil
`

// Config is the project configuration. Zero values are filled from Defaults
// on load, then YTCE_* environment variables override file values.
type Config struct {
	OutputDir   string `yaml:"output_dir"`
	Language    string `yaml:"language"`
	CommentSort string `yaml:"comment_sort"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		OutputDir:   "data",
		Language:    "en",
		CommentSort: "recent",
	}
}

// Load reads the config at path (or File when empty). A missing file is not
// an error: defaults apply. Environment overrides are applied last.
func Load(path string) (Config, error) {
	if path == "" {
		path = File
	}
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		applyDefaults(&cfg)
	}

	cfg.OutputDir = env.Str("YTCE_OUTPUT_DIR", cfg.OutputDir)
	cfg.Language = env.Str("YTCE_LANGUAGE", cfg.Language)
	cfg.CommentSort = env.Str("YTCE_COMMENT_SORT", cfg.CommentSort)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.CommentSort == "" {
		cfg.CommentSort = def.CommentSort
	}
}

// Save writes the config as YAML.
func Save(cfg Config, path string) error {
	if path == "" {
		path = File
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// InitProject scaffolds a new project in the working directory: output
// directory, ytce.yaml and a channels.txt template. Existing files are left
// untouched and reported through the returned summary.
func InitProject(outputDir string) ([]string, error) {
	cfg := Defaults()
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	var steps []string
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if _, err := os.Stat(File); os.IsNotExist(err) {
		if err := Save(cfg, File); err != nil {
			return nil, err
		}
		steps = append(steps, "Config file: ./"+File)
	} else {
		steps = append(steps, "Config file already exists: ./"+File)
	}

	if _, err := os.Stat(ChannelsFile); os.IsNotExist(err) {
		if err := os.WriteFile(ChannelsFile, []byte(channelsTemplate), 0o644); err != nil {
			return nil, fmt.Errorf("write channels template: %w", err)
		}
		steps = append(steps, "Channels file: ./"+ChannelsFile)
	} else {
		steps = append(steps, "Channels file already exists: ./"+ChannelsFile)
	}

	steps = append(steps, "Output directory: ./"+cfg.OutputDir)
	return steps, nil
}
