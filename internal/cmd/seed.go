package cmd

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dendrascience/sortdir/util"
)

var (
	seedDirNames = []string{"Фото", "docs", "Музыка", "misc", "2024", "new folder", "Робота", "backup"}

	seedBaseNames = []string{
		"звіт", "Отчёт за май", "my file (1)", "IMG 2041", "резюме", "track-07", "Ёлка",
		"café menu", "notes", "ПРИВЕТ", "data export", "шрифт",
	}

	seedExtensions = []string{
		".jpg", ".JPG", ".png", ".svg", ".mp4", ".mkv", ".txt", ".pdf", ".docx",
		".mp3", ".ogg", ".json", ".csv", ".ttf", ".epub", ".gpx",
		".xyz", ".bak", "",
	}
)

type seedStats struct {
	files     int
	dirs      int
	emptyDirs int
	archives  int
}

// NewSeedCmd creates and returns the seed subcommand for the sortdir CLI.
// It generates a messy directory tree to try a sort on.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a messy test tree",
		Long: `Generate a directory tree for trying out sortdir.

Files are spread over nested directories with Cyrillic, accented and
space-separated names and a mix of known and unknown extensions. The tree
also gets a valid zip archive, a corrupt one and a few empty directories.
Each file contains a single UUID line.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := runSeed(outputPath, fileCount)
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d files and %d archives in %d directories (%d empty)\n",
					stats.files, stats.archives, stats.dirs, stats.emptyDirs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 200, "Number of plain files to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func pick(values []string) string {
	return values[randInt(len(values))]
}

func runSeed(outputPath string, fileCount int) (seedStats, error) {
	var stats seedStats
	if fileCount < 0 {
		return stats, fmt.Errorf("count must not be negative, got %d", fileCount)
	}
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}

	dirs := map[string]struct{}{outputPath: {}}
	for stats.files < fileCount {
		dir := outputPath
		for depth := randInt(4); depth > 0; depth-- {
			dir = filepath.Join(dir, pick(seedDirNames))
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stats, err
		}
		dirs[dir] = struct{}{}

		name := pick(seedBaseNames)
		if randInt(4) == 0 {
			name = uuid.NewString()
		}
		path := filepath.Join(dir, name+pick(seedExtensions))
		if _, err := os.Lstat(path); err == nil {
			path = filepath.Join(dir, name+" "+uuid.NewString()[:8]+pick(seedExtensions))
		}
		if err := os.WriteFile(path, []byte(uuid.NewString()+"\n"), 0o644); err != nil {
			return stats, err
		}
		stats.files++
	}

	archiveDir := filepath.Join(outputPath, "Загрузки")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return stats, err
	}
	dirs[archiveDir] = struct{}{}
	if err := util.ZipFiles(filepath.Join(archiveDir, "Архив фото.zip"), map[string][]byte{
		"readme.txt":       []byte(uuid.NewString() + "\n"),
		"photos/beach.jpg": []byte(uuid.NewString() + "\n"),
	}); err != nil {
		return stats, err
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "broken.zip"), []byte("PK\x03\x04 truncated"), 0o644); err != nil {
		return stats, err
	}
	stats.archives = 2

	for i := 0; i < 3; i++ {
		empty := filepath.Join(outputPath, "empty "+uuid.NewString()[:8])
		if err := os.Mkdir(empty, 0o755); err != nil {
			return stats, err
		}
		stats.emptyDirs++
	}
	stats.dirs = len(dirs) + stats.emptyDirs
	return stats, nil
}
