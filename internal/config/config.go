// Package config loads shuffle's layered JSONC configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/shuffle/internal/tracker"
)

// FileName is the project config file looked up in the target directory.
// It is always reserved, so shuffle never renames its own config.
const FileName = ".shuffle.json"

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	TrackerFile string   `json:"tracker_file"`
	Template    string   `json:"template,omitempty"`
	Reserved    []string `json:"reserved,omitempty"`
	DebugLog    string   `json:"debug_log,omitempty"`

	// Resolved values (computed, not serialized)
	Dir         string  `json:"-"` // Absolute directory being shuffled
	TrackerPath string  `json:"-"` // Absolute path of the tracker file
	Sources     Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		TrackerFile: tracker.DefaultFileName,
	}
}

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/shuffle/config.json if set, otherwise
// ~/.config/shuffle/config.json. Empty if neither is known.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "shuffle", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "shuffle", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Overrides       Overrides         // CLI flag values
	Env             map[string]string // environment variables
}

// Overrides are CLI flag values. Pointers distinguish "not given" from "".
type Overrides struct {
	TrackerFile *string
	Template    *string
	DebugLog    *string
	Reserved    []string
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Project config file (.shuffle.json in the work dir, if it exists)
// 4. Explicit config file via ConfigPath (replaces 3)
// 5. CLI overrides.
//
// Reserved names accumulate across all layers.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrWorkDir, err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrWorkDir, err)
	}

	info, err := os.Stat(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrWorkDir, err)
	}

	if !info.IsDir() {
		return Config{}, fmt.Errorf("%w: %s is not a directory", ErrWorkDir, workDir)
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		globalCfg, loaded, loadErr := loadFile(path, false)
		if loadErr != nil {
			return Config{}, loadErr
		}

		if loaded {
			cfg = merge(cfg, globalCfg)
			cfg.Sources.Global = path
		}
	}

	projectCfg, projectPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	if projectPath != "" {
		cfg = merge(cfg, projectCfg)
		cfg.Sources.Project = projectPath
	}

	cfg = applyOverrides(cfg, input.Overrides)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.Dir = workDir
	cfg.TrackerPath = filepath.Join(workDir, cfg.TrackerFile)

	if cfg.Template != "" && !filepath.IsAbs(cfg.Template) {
		cfg.Template = filepath.Join(workDir, cfg.Template)
	}

	if cfg.DebugLog != "" && !filepath.IsAbs(cfg.DebugLog) {
		cfg.DebugLog = filepath.Join(workDir, cfg.DebugLog)
	}

	return cfg, nil
}

// ReservedNames returns every name that must never be tracked in cfg.Dir:
// the tracker file, the project config file, the configured names, any
// loaded config file, template or debug log that lives in the directory,
// and extra (e.g. the running binary).
func (c Config) ReservedNames(extra ...string) []string {
	names := []string{c.TrackerFile, FileName}
	names = append(names, c.Reserved...)

	for _, path := range []string{c.Sources.Project, c.Template, c.DebugLog} {
		if name, ok := c.inDir(path); ok {
			names = append(names, name)
		}
	}

	names = append(names, extra...)

	return names
}

// inDir reports the base name of path when path is a direct child of c.Dir.
func (c Config) inDir(path string) (string, bool) {
	if path == "" || c.Dir == "" {
		return "", false
	}

	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(c.Dir) {
		return "", false
	}

	return filepath.Base(path), true
}

// loadProject loads the project config file (.shuffle.json) or an explicit
// config file. Returns the config and its path if loaded.
func loadProject(workDir, configPath string) (Config, string, error) {
	if configPath == "" {
		path := filepath.Join(workDir, FileName)

		cfg, loaded, err := loadFile(path, false)
		if err != nil || !loaded {
			return Config{}, "", err
		}

		return cfg, path, nil
	}

	path := configPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	if _, statErr := os.Stat(path); statErr != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	cfg, _, err := loadFile(path, true)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile loads a config file. If mustExist is false, a missing file returns
// (zero config, false, nil).
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicitly empty tracker_file is an error, not "use the default".
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if val, exists := raw["tracker_file"]; exists {
		if str, ok := val.(string); ok && str == "" {
			return Config{}, ErrTrackerFileEmpty
		}
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.TrackerFile != "" {
		base.TrackerFile = overlay.TrackerFile
	}

	if overlay.Template != "" {
		base.Template = overlay.Template
	}

	if overlay.DebugLog != "" {
		base.DebugLog = overlay.DebugLog
	}

	base.Reserved = appendUnique(base.Reserved, overlay.Reserved...)

	return base
}

func applyOverrides(cfg Config, o Overrides) Config {
	if o.TrackerFile != nil {
		cfg.TrackerFile = *o.TrackerFile
	}

	if o.Template != nil {
		cfg.Template = *o.Template
	}

	if o.DebugLog != nil {
		cfg.DebugLog = *o.DebugLog
	}

	cfg.Reserved = appendUnique(cfg.Reserved, o.Reserved...)

	return cfg
}

func appendUnique(dst []string, names ...string) []string {
	for _, name := range names {
		if name != "" && !slices.Contains(dst, name) {
			dst = append(dst, name)
		}
	}

	return dst
}

func validate(cfg Config) error {
	if cfg.TrackerFile == "" {
		return ErrTrackerFileEmpty
	}

	if strings.ContainsRune(cfg.TrackerFile, os.PathSeparator) || strings.Contains(cfg.TrackerFile, "/") ||
		cfg.TrackerFile == "." || cfg.TrackerFile == ".." {
		return fmt.Errorf("%w: %q", ErrTrackerFileIsPath, cfg.TrackerFile)
	}

	return nil
}
