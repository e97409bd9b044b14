package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/koskimas/lexgen/internal/casing"
	"github.com/koskimas/lexgen/internal/config"
	"github.com/koskimas/lexgen/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	generatedHeader = "Code generated by lexgen. DO NOT EDIT."
	fileSuffix      = "_gen.go"
)

// GenerateCode writes one Go file per schema into the configured output
// directory and removes files left there by earlier runs for schemas that
// no longer exist. Nothing is written if any lexicon fails to generate.
func GenerateCode(cfg config.Config, workingDir string, schemas []model.Schema) error {
	if err := checkNames(schemas); err != nil {
		return err
	}

	pkg := cfg.PackageName()
	sources := make([][]byte, len(schemas))

	var eg errgroup.Group
	for i, s := range schemas {
		eg.Go(func() error {
			src, err := Render(pkg, s.Lexicons)
			if err != nil {
				return fmt.Errorf(`failed to generate code for "%s": %w`, s.Path, err)
			}

			sources[i] = src
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	outDir := cfg.OutputDir(workingDir)
	if err := os.MkdirAll(outDir, 0700); err != nil {
		return fmt.Errorf(`failed to create output directory "%s": %w`, outDir, err)
	}

	keep := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		keep[FileName(s.ID)] = true
	}

	if err := removeStale(outDir, keep); err != nil {
		return err
	}

	for i, s := range schemas {
		eg.Go(func() error {
			filePath := filepath.Join(outDir, FileName(s.ID))
			if err := os.WriteFile(filePath, sources[i], 0600); err != nil {
				return fmt.Errorf(`failed to write file "%s": %w`, filePath, err)
			}

			return nil
		})
	}

	return eg.Wait()
}

// removeStale deletes the files in `dir` that were generated by lexgen but
// are not in `keep`. Files without the generated header are never touched.
func removeStale(dir string, keep map[string]bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf(`failed to read output directory "%s": %w`, dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || keep[name] || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		filePath := filepath.Join(dir, name)
		src, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf(`failed to read file "%s": %w`, filePath, err)
		}

		if !bytes.HasPrefix(src, []byte("// "+generatedHeader)) {
			continue
		}

		if err := os.Remove(filePath); err != nil {
			return fmt.Errorf(`failed to remove stale file "%s": %w`, filePath, err)
		}
	}

	return nil
}

// Render renders the declarations of `lexicons` as a formatted Go file of
// package `pkg`.
func Render(pkg string, lexicons []model.Lexicon) ([]byte, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment(generatedHeader)

	for _, l := range lexicons {
		if err := Lexicon(f, l); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render generated code: %w", err)
	}

	return buf.Bytes(), nil
}

// Lexicon adds the declarations generated from `l` to `f`. On error `f` is
// left untouched.
func Lexicon(f *jen.File, l model.Lexicon) error {
	decls, err := lexiconDecls(l)
	if err != nil {
		return err
	}

	for _, d := range decls {
		d.addTo(f)
	}

	return nil
}

// FileName returns the name of the file generated for the schema `id`.
func FileName(id string) string {
	return casing.ToSnake(id) + fileSuffix
}

// checkNames makes sure no two lexicons generate the same package level name
// and no two schemas are written to the same file.
func checkNames(schemas []model.Schema) error {
	owners := make(map[string]string)
	files := make(map[string]string)

	for _, s := range schemas {
		fileName := FileName(s.ID)
		if other, ok := files[fileName]; ok {
			return model.Errorf(model.ErrSchemaMismatch, s.ID, "", `generated file "%s" is also generated for "%s"`, fileName, other)
		}

		files[fileName] = s.ID

		for _, l := range s.Lexicons {
			decls, err := lexiconDecls(l)
			if err != nil {
				return fmt.Errorf(`failed to generate code for "%s": %w`, s.Path, err)
			}

			for _, d := range decls {
				for _, n := range d.names {
					if other, ok := owners[n]; ok {
						return model.Errorf(model.ErrSchemaMismatch, l.ID, l.Type.Tag(), `name "%s" is also generated by "%s"`, n, other)
					}

					owners[n] = l.ID
				}
			}
		}
	}

	return nil
}
