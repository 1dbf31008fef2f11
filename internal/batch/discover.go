// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/p12pem/pkg/types"
)

const bundleExt = ".p12"

// Discover lists the .p12 files directly inside dir, sorted by name, paired
// with their expected PDF. Subdirectories are not searched.
func Discover(dir string) ([]types.Pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var pairs []types.Pair
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != bundleExt {
			continue
		}
		pairs = append(pairs, types.NewPair(filepath.Join(dir, entry.Name())))
	}
	return pairs, nil
}
