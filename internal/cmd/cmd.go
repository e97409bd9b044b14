package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/koskimas/lexgen/internal/config"
	"github.com/koskimas/lexgen/internal/gen"
	"github.com/koskimas/lexgen/internal/model"
	"github.com/koskimas/lexgen/internal/model/lexicon"
)

type Settings struct {
	WorkingDir string
	// ConfigFile defaults to `config.FileName` in the working directory. The
	// default file is optional, an explicitly given one is not.
	ConfigFile string
	// SchemaDir, OutputDir and Package override the config file.
	SchemaDir string
	OutputDir string
	Package   string
	Logger    *slog.Logger
}

func Run(s Settings) error {
	log := logger(s)

	cfg, schemas, err := load(s)
	if err != nil {
		return err
	}

	if err := gen.GenerateCode(*cfg, s.WorkingDir, schemas); err != nil {
		return err
	}

	log.Info("generated lexicon bindings",
		"schemas", len(schemas),
		"dir", cfg.OutputDir(s.WorkingDir),
		"package", cfg.PackageName(),
	)

	return nil
}

// load reads the config and every lexicon file it matches. All files are
// loaded before anything is generated.
func load(s Settings) (*config.Config, []model.Schema, error) {
	cfg, err := readConfig(s)
	if err != nil {
		return nil, nil, err
	}

	files, err := findSchemaFiles(s, *cfg)
	if err != nil {
		return nil, nil, err
	}

	schemas, err := readSchemas(s, *cfg, files)
	if err != nil {
		return nil, nil, err
	}

	return cfg, schemas, nil
}

func readConfig(s Settings) (*config.Config, error) {
	var cfg *config.Config

	if s.ConfigFile != "" {
		c, err := config.Read(config.Resolve(s.WorkingDir, s.ConfigFile))
		if err != nil {
			return nil, err
		}

		cfg = c
	} else {
		c, err := config.Read(filepath.Join(s.WorkingDir, config.FileName))
		if errors.Is(err, fs.ErrNotExist) {
			c = new(config.Config)
			*c = config.Default()
		} else if err != nil {
			return nil, err
		}

		cfg = c
	}

	if s.SchemaDir != "" {
		cfg.Schemas = []config.Schema{{Path: config.SchemaGlob(s.SchemaDir)}}
	}

	if s.OutputDir != "" {
		cfg.Output.Dir = s.OutputDir
	}

	if s.Package != "" {
		cfg.Output.Package = s.Package
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return cfg, nil
}

// findSchemaFiles resolves the schema globs of the config into a sorted list
// of unique file paths.
func findSchemaFiles(s Settings, cfg config.Config) ([]string, error) {
	paths := make([]string, 0)

	for _, sc := range cfg.Schemas {
		pattern := config.Resolve(s.WorkingDir, sc.Path)

		files, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf(`failed to resolve lexicon files using glob "%s": %w`, sc.Path, err)
		}

		paths = append(paths, files...)
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no lexicon files found in %s", s.WorkingDir)
	}

	return paths, nil
}

func readSchemas(s Settings, cfg config.Config, files []string) ([]model.Schema, error) {
	log := logger(s)

	naming := lexicon.NamingDotted
	if cfg.Identifiers.Concat {
		naming = lexicon.NamingConcat
	}

	schemas := make([]model.Schema, 0, len(files))
	for _, f := range files {
		schema, err := lexicon.ReadSchema(f, naming)
		if err != nil {
			return nil, err
		}

		log.Debug("loaded lexicon file", "path", f, "id", schema.ID, "defs", len(schema.Lexicons))
		schemas = append(schemas, *schema)
	}

	return schemas, nil
}

func logger(s Settings) *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
