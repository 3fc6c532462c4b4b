package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleResolver_ResolveModule(t *testing.T) {
	root := copyFixture(t)
	resolver := NewModuleResolver()

	t.Run("read from go.mod file", func(t *testing.T) {
		module, err := resolver.ResolveModule("", filepath.Join(root, "inventory"))
		require.NoError(t, err)
		assert.Equal(t, Module{Path: "example.com/shop", Root: root}, module)
	})

	t.Run("custom module name keeps the go.mod root", func(t *testing.T) {
		module, err := resolver.ResolveModule("github.com/custom/module", filepath.Join(root, "inventory"))
		require.NoError(t, err)
		assert.Equal(t, Module{Path: "github.com/custom/module", Root: root}, module)
	})

	t.Run("invalid go.mod", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("go 1.22\n"), 0o644))

		_, err := resolver.ResolveModule("", dir)
		assert.ErrorContains(t, err, "--module")
	})
}

func TestModuleResolver_BuildPackagePath(t *testing.T) {
	resolver := NewModuleResolver()
	module := Module{Path: "example.com/app", Root: filepath.FromSlash("/src/app")}

	tests := []struct {
		name    string
		dir     string
		want    string
		wantErr bool
	}{
		{"module root", "/src/app", "example.com/app", false},
		{"nested package", "/src/app/internal/svc", "example.com/app/internal/svc", false},
		{"outside module", "/src/other", "", true},
		{"parent directory", "/src", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.BuildPackagePath(module, filepath.FromSlash(tt.dir))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkingDir(t *testing.T) {
	root := copyFixture(t)
	assert.Equal(t, root, workingDir([]string{root + "/..."}))
	assert.Equal(t, filepath.Join(root, "inventory"), workingDir([]string{filepath.Join(root, "inventory")}))
	assert.Equal(t, ".", workingDir([]string{filepath.Join(root, "missing")}))
	assert.Equal(t, ".", workingDir(nil))
}
