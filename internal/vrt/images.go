package vrt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/autodeviq/autodev/internal/models"
)

// SaveImages writes the result's snapshots to dir as base.png, test.png and
// diff.png, skipping any the backend did not send. It returns the paths
// written.
func SaveImages(result models.VrtResult, dir string) ([]string, error) {
	snaps, err := result.DecodeImages()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	paths := make([]string, 0, len(snaps))
	for _, s := range snaps {
		p := filepath.Join(dir, s.Name+".png")
		if err := os.WriteFile(p, s.Data, 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
