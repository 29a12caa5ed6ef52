package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/dendrascience/sortdir/category"
)

//go:embed sample_config.toml
var sampleConfig string

// Environment variables read by Load.
const (
	EnvConfig    = "SORTDIR_CONFIG"
	EnvLogLevel  = "SORTDIR_LOG_LEVEL"
	EnvLogFormat = "SORTDIR_LOG_FORMAT"
	EnvWorkers   = "SORTDIR_WORKERS"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Sort       Sort          `toml:"sort"`
	Logging    Logging       `toml:"logging"`
	Paths      Paths         `toml:"paths"`
	Categories []CategoryDef `toml:"categories"`
}

type Sort struct {
	Workers              int    `toml:"workers"`
	JoinPasses           bool   `toml:"join_passes"`
	ExtractArchives      bool   `toml:"extract_archives"`
	PruneEmpty           bool   `toml:"prune_empty"`
	RemoveUnusedSortDirs bool   `toml:"remove_unused_sort_dirs"`
	Collision            string `toml:"collision"`
	FoldDiacritics       bool   `toml:"fold_diacritics"`
	NormalizerCacheSize  int    `toml:"normalizer_cache_size"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Paths struct {
	LockDir string `toml:"lock_dir"`
}

// CategoryDef is one [[categories]] entry.
type CategoryDef struct {
	Name       string   `toml:"name"`
	Extensions []string `toml:"extensions"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Sort: Sort{
			JoinPasses:          true,
			ExtractArchives:     true,
			PruneEmpty:          true,
			Collision:           "overwrite",
			NormalizerCacheSize: 4096,
		},
		Logging: Logging{Level: "info", Format: "console"},
	}
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/sortdir/config.toml")
}

// Load locates, parses and validates a configuration file, then applies
// environment overrides. A .env file in the working directory is loaded
// first when present. It returns the config, the path that was resolved and
// whether that file exists.
func Load(path string) (*Config, string, bool, error) {
	_ = godotenv.Load()

	cfg := Default()
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}
	if cfg.Paths.LockDir != "" {
		if cfg.Paths.LockDir, err = ExpandPath(cfg.Paths.LockDir); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, EnvWorkers, v)
		}
		c.Sort.Workers = n
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path, _ = lookupEnv(EnvConfig)
	}
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("sortdir.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// Validate reports the first invalid setting, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	if c.Sort.Workers < 0 {
		return fmt.Errorf("%w: sort.workers must not be negative, got %d", ErrInvalid, c.Sort.Workers)
	}
	switch strings.ToLower(strings.TrimSpace(c.Sort.Collision)) {
	case "overwrite", "rename":
	default:
		return fmt.Errorf("%w: sort.collision must be overwrite or rename, got %q", ErrInvalid, c.Sort.Collision)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json", "":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", ErrInvalid, c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("%w: logging.level %q is unknown", ErrInvalid, c.Logging.Level)
	}
	for i, def := range c.Categories {
		if strings.TrimSpace(def.Name) == "" || strings.ContainsAny(def.Name, `/\`) || def.Name == "." || def.Name == ".." {
			return fmt.Errorf("%w: categories[%d] has an unusable name %q", ErrInvalid, i, def.Name)
		}
		if len(def.Extensions) == 0 {
			return fmt.Errorf("%w: category %q lists no extensions", ErrInvalid, def.Name)
		}
	}
	return nil
}

// Table builds the category table, falling back to the built-in one when
// the file defines no categories.
func (c *Config) Table() *category.Table {
	if len(c.Categories) == 0 {
		return category.Default()
	}
	defs := make([]category.Definition, 0, len(c.Categories))
	for _, def := range c.Categories {
		defs = append(defs, category.Definition{
			Category:   category.Category(strings.TrimSpace(def.Name)),
			Extensions: def.Extensions,
		})
	}
	return category.New(defs)
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	return filepath.Abs(filepath.Clean(pathValue))
}

// Sample returns the commented sample configuration.
func Sample() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
