package config

import (
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	cfg, err := Read(filepath.Join("testdata", "lexgen.yaml"))
	assert.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, []Schema{{Path: "schemas/com/**/*.json"}, {Path: "schemas/app/**/*.json"}}, cfg.Schemas)
	assert.Equal(t, "internal/xrpc", cfg.Output.Dir)
	assert.Equal(t, "xrpc", cfg.PackageName())
	assert.True(t, cfg.Identifiers.Concat)
}

func TestReadKeepsDefaults(t *testing.T) {
	cfg, err := Read(filepath.Join("testdata", "partial.yaml"))
	assert.NoError(t, err)

	assert.Equal(t, Default().Schemas, cfg.Schemas)
	assert.Equal(t, "gen", cfg.Output.Dir)
	assert.Equal(t, "bindings", cfg.PackageName())
	assert.False(t, cfg.Identifiers.Concat)
}

func TestReadInvalid(t *testing.T) {
	_, err := Read(filepath.Join("testdata", "bad_version.yaml"))
	assert.ErrorContains(t, err, "unsupported config version 7")

	_, err = Read(filepath.Join("testdata", "bad_package.yaml"))
	assert.ErrorContains(t, err, `"my-package" is not a valid package name`)

	_, err = Read(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Schemas = nil
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Schemas = []Schema{{}}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Output.Dir = ""
	assert.Error(t, cfg.Validate())
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/work", "gen"), Resolve("/work", "gen"))
	assert.Equal(t, "/abs/gen", Resolve("/work", "/abs/gen"))
	assert.Equal(t, filepath.Join("lexicons", "**", "*.json"), SchemaGlob("lexicons"))
}
