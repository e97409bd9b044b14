package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	FileName = "lexgen.yaml"

	currentVersion = 1
)

type Config struct {
	Version     int         `yaml:"version"`
	Schemas     []Schema    `yaml:"schemas"`
	Output      Output      `yaml:"output"`
	Identifiers Identifiers `yaml:"identifiers"`
}

// Schema is a doublestar glob of lexicon files, relative to the working
// directory unless absolute.
type Schema struct {
	Path string `yaml:"path"`
}

type Output struct {
	Dir     string `yaml:"dir"`
	Package string `yaml:"package"`
}

type Identifiers struct {
	// Concat joins non-main definition names to the document identifier
	// without a separator.
	Concat bool `yaml:"concat"`
}

func Default() Config {
	return Config{
		Version: currentVersion,
		Schemas: []Schema{{Path: SchemaGlob("lexicons")}},
		Output: Output{
			Dir: "gen",
		},
	}
}

// Read reads the config file at `configPath`. Settings missing from the file
// keep their default values.
func Read(configPath string) (*Config, error) {
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf(`failed to read config file "%s": %w`, configPath, err)
	}

	config := Default()
	if err := yaml.Unmarshal(fileData, &config); err != nil {
		return nil, fmt.Errorf(`failed to unmarshal config file "%s": %w`, configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf(`invalid config file "%s": %w`, configPath, err)
	}

	return &config, nil
}

func (c Config) Validate() error {
	if c.Version != currentVersion {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}

	if len(c.Schemas) == 0 {
		return errors.New("no schemas configured")
	}

	for i, s := range c.Schemas {
		if s.Path == "" {
			return fmt.Errorf("schema %d has no path", i)
		}
	}

	if c.Output.Dir == "" {
		return errors.New("no output directory configured")
	}

	if pkg := c.PackageName(); !token.IsIdentifier(pkg) {
		return fmt.Errorf(`"%s" is not a valid package name`, pkg)
	}

	return nil
}

// PackageName returns the name of the generated package. It defaults to the
// base name of the output directory.
func (c Config) PackageName() string {
	if c.Output.Package != "" {
		return c.Output.Package
	}

	return filepath.Base(c.Output.Dir)
}

func (c Config) OutputDir(workingDir string) string {
	return Resolve(workingDir, c.Output.Dir)
}

// SchemaGlob returns a glob matching every lexicon file under `dir`.
func SchemaGlob(dir string) string {
	return filepath.Join(dir, "**", "*.json")
}

func Resolve(workingDir string, p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(workingDir, p)
}
