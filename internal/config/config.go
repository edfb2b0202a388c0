// Package config handles the .classkit directory every project using the
// classkit binaries gets in its root.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClasskitDir is the name of the directory created in each project.
const ClasskitDir = ".classkit"

const defaultTargetName = "Main"

const defaultProjectConfigYAML = `# classkit project configuration
version: 1

# Name of the target class the runners supplement by default.
target: Main

classes:
  # Directory scanned for source classes, relative to the project root.
  # The four supported kinds are .go, .yaml, .yml and .json.
  dir: .classkit/classes
`

// ClassesConfig locates the source-class directory.
type ClassesConfig struct {
	Dir string `yaml:"dir"`
}

// ProjectConfig models .classkit/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Target  string        `yaml:"target"`
	Classes ClassesConfig `yaml:"classes"`
}

// Config holds the runtime configuration for the classkit binaries.
type Config struct {
	// ProjectDir is the directory the user ran the binary from.
	ProjectDir string

	// ClasskitProjectDir is ProjectDir/.classkit.
	ClasskitProjectDir string

	Project ProjectConfig
}

// InitClasskitDir creates the .classkit directory structure:
//
//	.classkit/
//	├── classes/   <- source classes picked up by the runners
//	└── logs/      <- supplementation logbook
func InitClasskitDir(projectDir string) error {
	classkitDir := filepath.Join(projectDir, ClasskitDir)
	dirs := []string{
		filepath.Join(classkitDir, "classes"),
		filepath.Join(classkitDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(classkitDir, "config.yaml"))
}

// NewConfig loads the project configuration, applying defaults when the
// config file is absent.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		ClasskitProjectDir: filepath.Join(projectDir, ClasskitDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ClassesDir returns the absolute source-class directory.
func (c *Config) ClassesDir() string {
	dir := strings.TrimSpace(c.Project.Classes.Dir)
	if dir == "" {
		return filepath.Join(c.ClasskitProjectDir, "classes")
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Clean(filepath.Join(c.ProjectDir, dir))
}

// LogsDir returns the logbook directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.ClasskitProjectDir, "logs")
}

// LogbookPath returns the file the runners log to.
func (c *Config) LogbookPath() string {
	return filepath.Join(c.LogsDir(), "classkit.log")
}

// TargetName returns the configured target class name.
func (c *Config) TargetName() string {
	if name := strings.TrimSpace(c.Project.Target); name != "" {
		return name
	}
	return defaultTargetName
}

// ProjectConfigPath returns the on-disk location of the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ClasskitProjectDir, "config.yaml")
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Target:  defaultTargetName,
		Classes: ClassesConfig{Dir: filepath.Join(ClasskitDir, "classes")},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	pc.Target = strings.TrimSpace(pc.Target)
	if pc.Target == "" {
		pc.Target = defaultTargetName
	}
	pc.Classes.Dir = strings.TrimSpace(pc.Classes.Dir)
	if pc.Classes.Dir == "" {
		pc.Classes.Dir = filepath.Join(ClasskitDir, "classes")
	}
}

func (pc ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
