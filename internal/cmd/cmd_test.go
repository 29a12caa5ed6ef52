package cmd

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendrascience/sortdir/category"
	"github.com/dendrascience/sortdir/internal/config"
	"github.com/dendrascience/sortdir/sorter"
	"github.com/dendrascience/sortdir/util"
	"github.com/dendrascience/sortdir/version"
)

// execute runs the root command with args and a config path that does not
// exist, so the user's own config never leaks into a test.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, key := range []string{config.EnvConfig, config.EnvLogLevel, config.EnvLogFormat, config.EnvWorkers} {
		t.Setenv(key, "")
	}

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.toml")))
	err := root.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func messyTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Фото", "пляж.jpg"), "jpg")
	writeFile(t, filepath.Join(root, "Фото", "2024", "notes.txt"), "txt")
	writeFile(t, filepath.Join(root, "unknown.xyz"), "xyz")
	return root
}

func TestRootRequiresRoot(t *testing.T) {
	_, _, err := execute(t)
	require.Error(t, err)
}

func TestRootSortsTree(t *testing.T) {
	root := messyTree(t)

	stdout, _, err := execute(t, root, "--log-format", "json")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)

	assert.FileExists(t, filepath.Join(root, "images", "plyaj.jpg"))
	assert.FileExists(t, filepath.Join(root, "documents", "notes.txt"))
	assert.FileExists(t, filepath.Join(root, "unknown.xyz"))
	assert.NoDirExists(t, filepath.Join(root, "Фото", "2024"))
}

func TestSortWritesReport(t *testing.T) {
	root := messyTree(t)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	_, _, err := execute(t, "sort", root, "--report", reportPath, "--no-prune")
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep sorter.Report
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, 2, rep.FilesMoved)
	assert.Equal(t, 1, rep.Moved[category.Images])
	assert.Equal(t, 1, rep.Moved[category.Documents])
	assert.Zero(t, rep.Pruned)
	assert.NotEmpty(t, rep.RunID)

	assert.DirExists(t, filepath.Join(root, "Фото", "2024"))
}

func TestSortRejectsBadCollisionPolicy(t *testing.T) {
	root := messyTree(t)

	_, _, err := execute(t, "sort", root, "--collision", "merge")
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.FileExists(t, filepath.Join(root, "Фото", "пляж.jpg"))
}

func TestPlanLeavesTreeUntouched(t *testing.T) {
	root := messyTree(t)
	planPath := filepath.Join(t.TempDir(), "plan.json")

	stdout, _, err := execute(t, "plan", root, "-v", "--report", planPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "plyaj.jpg")

	assert.FileExists(t, filepath.Join(root, "Фото", "пляж.jpg"))
	assert.FileExists(t, filepath.Join(root, "Фото", "2024", "notes.txt"))
	assert.NoDirExists(t, filepath.Join(root, "images"))

	data, err := os.ReadFile(planPath)
	require.NoError(t, err)
	var plan sorter.Plan
	require.NoError(t, json.Unmarshal(data, &plan))
	assert.Len(t, plan.Moves, 2)
	assert.Equal(t, 1, plan.Counts[category.Images])
}

func TestInspect(t *testing.T) {
	t.Run("valid archives", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, util.ZipFiles(filepath.Join(root, "ok.zip"), map[string][]byte{"a.txt": []byte("a")}))

		stdout, _, err := execute(t, "inspect", root)
		require.NoError(t, err)
		assert.Contains(t, stdout, "ok.zip")
		assert.FileExists(t, filepath.Join(root, "ok.zip"))
	})

	t.Run("corrupt archive", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, util.ZipFiles(filepath.Join(root, "ok.zip"), map[string][]byte{"a.txt": []byte("a")}))
		writeFile(t, filepath.Join(root, "nested", "broken.zip"), "PK\x03\x04 truncated")

		stdout, _, err := execute(t, "inspect", root)
		require.ErrorIs(t, err, errBadArchives)
		assert.Contains(t, stdout, "broken.zip")
	})
}

func TestSeed(t *testing.T) {
	out := filepath.Join(t.TempDir(), "seeded")

	stats, err := runSeed(out, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, stats.files)
	assert.Equal(t, 2, stats.archives)
	assert.Equal(t, 3, stats.emptyDirs)

	files := 0
	require.NoError(t, filepath.WalkDir(out, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files++
		}
		return nil
	}))
	assert.Equal(t, stats.files+stats.archives, files)
	assert.FileExists(t, filepath.Join(out, "Загрузки", "Архив фото.zip"))

	_, err = runSeed(out, -1)
	require.Error(t, err)
}

func TestSeedCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "seeded")

	stdout, _, err := execute(t, "seed", "-o", out, "-c", "5", "-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created 5 files and 2 archives")

	_, _, err = execute(t, "seed")
	require.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	stdout, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Equal(t, config.Sample(), stdout)

	path := filepath.Join(t.TempDir(), "conf", "sortdir.toml")
	stdout, _, err = execute(t, "config", "init", "--write", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)
	assert.FileExists(t, path)
}

func TestSortFlagsApply(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}{
		{
			name: "no flags keeps config",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.Default(), *cfg)
			},
		},
		{
			name: "negated switches",
			args: []string{"--no-join", "--no-extract", "--no-prune"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.False(t, cfg.Sort.JoinPasses)
				assert.False(t, cfg.Sort.ExtractArchives)
				assert.False(t, cfg.Sort.PruneEmpty)
			},
		},
		{
			name: "values",
			args: []string{"-w", "3", "--collision", "rename", "--fold-diacritics", "--remove-unused-sort-dirs"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 3, cfg.Sort.Workers)
				assert.Equal(t, "rename", cfg.Sort.Collision)
				assert.True(t, cfg.Sort.FoldDiacritics)
				assert.True(t, cfg.Sort.RemoveUnusedSortDirs)
				assert.True(t, cfg.Sort.PruneEmpty)
			},
		},
		{
			name:    "negative workers",
			args:    []string{"--workers", "-2"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags sortFlags
			c := &cobra.Command{Use: "test"}
			flags.register(c)
			require.NoError(t, c.ParseFlags(tt.args))

			cfg := config.Default()
			err := flags.apply(c, &cfg)
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrInvalid)
				return
			}
			require.NoError(t, err)
			tt.check(t, &cfg)
		})
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "sortdir", info.Package)
}
