package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const calcSource = `package calc

type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

//measure::measured
func (c *Calculator) Add(a, b int) int { return a + b }
`

const genericSource = `package box

type Box[T any] struct{ v T }

//measure::measured
func (b *Box[T]) Get() T { return b.v }
`

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["go.mod"] = "module example.com/calc\n\ngo 1.22\n"
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHelp(t *testing.T) {
	code, stdout, _ := execute("--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "measuregen [directories...]")
	assert.Contains(t, stdout, "--exclude")
	assert.Contains(t, stdout, "--dry-run")
	assert.Contains(t, stdout, "clean")
	assert.Contains(t, stdout, "watch")
}

func TestGenerate(t *testing.T) {
	root := newProject(t, map[string]string{"calc.go": calcSource})
	wrapper := filepath.Join(root, "autogen_measured_calculator.go")

	t.Run("dry run writes nothing", func(t *testing.T) {
		code, stdout, stderr := execute("generate", "--dry-run", root+"/...")
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "dry run")
		assert.NoFileExists(t, wrapper)
	})

	t.Run("default command generates", func(t *testing.T) {
		code, stdout, stderr := execute(root + "/...")
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "Wrappers generated: 1")
		assert.Contains(t, stdout, "Generation complete!")
		assert.FileExists(t, wrapper)
	})

	t.Run("clean dry run keeps files", func(t *testing.T) {
		code, stdout, _ := execute("clean", "--dry-run", root+"/...")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "would remove "+wrapper)
		assert.FileExists(t, wrapper)
	})

	t.Run("clean removes files", func(t *testing.T) {
		code, stdout, _ := execute("clean", root+"/...")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "Removed 1 generated files")
		assert.NoFileExists(t, wrapper)
	})
}

func TestGenerateErrorReturningConstructor(t *testing.T) {
	root := newProject(t, map[string]string{"store/store.go": `package store

import "errors"

type Store struct{ dsn string }

func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("empty dsn")
	}
	return &Store{dsn: dsn}, nil
}

//measure::measured
func (s *Store) DSN() string { return s.dsn }
`})

	code, _, stderr := execute("--quiet", root+"/...")
	assert.Equal(t, 0, code, stderr)

	wrapper, err := os.ReadFile(filepath.Join(root, "store", "autogen_measured_store.go"))
	require.NoError(t, err)
	assert.Contains(t, string(wrapper), "func NewMeasuredStore(dsn string) (*MeasuredStore, error) {")
	assert.NotContains(t, string(wrapper), "new(Store)")
}

func TestGenerateReportsFailures(t *testing.T) {
	root := newProject(t, map[string]string{
		"calc.go":    calcSource,
		"box/box.go": genericSource,
	})

	code, _, stderr := execute("--quiet", root+"/...")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Unsupported Declaration")
	assert.Contains(t, stderr, "example.com/calc/box.Box")
	assert.FileExists(t, filepath.Join(root, "autogen_measured_calculator.go"))
}

func TestGenerateWithConfigFile(t *testing.T) {
	root := newProject(t, map[string]string{
		"calc.go":    calcSource,
		"box/box.go": genericSource,
	})

	config := filepath.Join(root, "measuregen.yaml")
	content := "directories:\n  - " + root + "/...\nexclude:\n  - box\nmodule: example.com/other\n"
	require.NoError(t, os.WriteFile(config, []byte(content), 0o644))

	code, _, stderr := execute("--config", config)
	assert.Equal(t, 0, code, stderr)

	wrapper, err := os.ReadFile(filepath.Join(root, "autogen_measured_calculator.go"))
	require.NoError(t, err)
	assert.Contains(t, string(wrapper), "MeasuredCalculator")

	t.Run("flags override the file", func(t *testing.T) {
		code, _, stderr := execute("--config", config, "--exclude", "none", "--quiet")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Box")
	})
}

func TestInvalidFlags(t *testing.T) {
	code, _, stderr := execute("--verbose", "--quiet", ".")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "verbose and quiet cannot both be set")

	code, _, stderr = execute("--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to read config file")
}
