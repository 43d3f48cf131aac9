package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// createOutputDir creates the per-scene directory under root. Scene files
// are grouped by their base name without extension.
func createOutputDir(root, sceneName string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("cannot derive an output directory from scene %q", sceneName)
	}

	dir := filepath.Join(root, base)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	return dir, nil
}

// outputFilename returns a timestamped render path inside dir
func outputFilename(dir, kind string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", kind, at.Format("20060102_150405")))
}
