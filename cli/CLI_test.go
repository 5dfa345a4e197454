package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexcrichton/futures-await/internal/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expand.yaml")
	writeFile(t, path, `path: src
diff: out/changes.diff
print: true
annotate: true
runtime:
  crate: my_rt
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Path)
	assert.Equal(t, filepath.Join(dir, "out", "changes.diff"), cfg.DiffFile)
	assert.True(t, cfg.Print)
	assert.True(t, cfg.Annotate)
	assert.False(t, cfg.Debug)
	assert.Equal(t, codegen.Runtime{Crate: "my_rt", TypeCrate: codegen.DefaultTypeCrate}, cfg.RuntimePaths())
}

func TestLoadConfigEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.yaml")
	writeFile(t, unknown, "agent: x\n")
	_, err := LoadConfig(unknown)
	assert.ErrorContains(t, err, "agent")

	malformed := filepath.Join(dir, "bad.yaml")
	writeFile(t, malformed, "print: [\n")
	_, err = LoadConfig(malformed)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "src", "lib.rs")
	writeFile(t, file, "fn f() {}")

	tests := []struct {
		name     string
		cfg      func() *Config
		wantErr  string
		wantDiff string
	}{
		{
			name:    "missing path",
			cfg:     NewConfig,
			wantErr: "path is required",
		},
		{
			name: "path does not exist",
			cfg: func() *Config {
				c := NewConfig()
				c.Path = filepath.Join(dir, "nope")
				return c
			},
			wantErr: "is invalid",
		},
		{
			name: "default diff next to a directory",
			cfg: func() *Config {
				c := NewConfig()
				c.Path = dir
				return c
			},
			wantDiff: filepath.Join(dir, defaultDiffFileName),
		},
		{
			name: "default diff next to a file",
			cfg: func() *Config {
				c := NewConfig()
				c.Path = file
				return c
			},
			wantDiff: filepath.Join(dir, "src", defaultDiffFileName),
		},
		{
			name: "diff extension",
			cfg: func() *Config {
				c := NewConfig()
				c.Path = dir
				c.DiffFile = filepath.Join(dir, "out.patch")
				return c
			},
			wantErr: ".diff extension",
		},
		{
			name: "diff directory",
			cfg: func() *Config {
				c := NewConfig()
				c.Path = dir
				c.DiffFile = filepath.Join(dir, "missing", "out.diff")
				return c
			},
			wantErr: "directory does not exist",
		},
		{
			name: "bad crate name",
			cfg: func() *Config {
				c := NewConfig()
				c.Path = dir
				c.Runtime.Crate = "futures-await"
				return c
			},
			wantErr: "not a valid crate name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg()
			err := cfg.Validate()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDiff, cfg.DiffFile)
		})
	}
}
