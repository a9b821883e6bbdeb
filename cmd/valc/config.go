package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const manifestName = "valc.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Lower   lowerConfig   `toml:"lower"`
	Trace   traceConfig   `toml:"trace"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type lowerConfig struct {
	Jobs   int    `toml:"jobs"`
	Output string `toml:"output"`
	Emit   string `toml:"emit"`
}

type traceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

func findValcToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest reads explicit when given, otherwise the nearest
// valc.toml above startDir. Having no manifest at all is fine.
func loadProjectManifest(startDir, explicit string) (*projectManifest, bool, error) {
	manifestPath := explicit
	if manifestPath == "" {
		var ok bool
		var err error
		manifestPath, ok, err = findValcToml(startDir)
		if err != nil || !ok {
			return nil, ok, err
		}
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("package") && strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Lower.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [lower].jobs must not be negative", path)
	}
	if meta.IsDefined("lower", "emit") {
		if _, err := readEmitMode(cfg.Lower.Emit); err != nil {
			return projectConfig{}, fmt.Errorf("%s: [lower].emit: %w", path, err)
		}
	}
	return cfg, nil
}

// outputDir resolves [lower].output against the manifest's directory.
func (m *projectManifest) outputDir() string {
	if m == nil || m.Config.Lower.Output == "" {
		return ""
	}
	if filepath.IsAbs(m.Config.Lower.Output) {
		return m.Config.Lower.Output
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Lower.Output))
}

// stringSetting returns the flag's value when it was set on the command
// line or fallback is empty, and fallback otherwise.
func stringSetting(flags interface {
	GetString(string) (string, error)
	Changed(string) bool
}, name, fallback string) (string, error) {
	value, err := flags.GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if flags.Changed(name) || fallback == "" {
		return value, nil
	}
	return fallback, nil
}

func jobsSetting(cmd *cobra.Command) (int, error) {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return 0, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !cmd.Flags().Changed("jobs") && manifest != nil && manifest.Config.Lower.Jobs > 0 {
		jobs = manifest.Config.Lower.Jobs
	}
	if jobs < 0 {
		return 0, fmt.Errorf("invalid --jobs value %d", jobs)
	}
	return jobs, nil
}
