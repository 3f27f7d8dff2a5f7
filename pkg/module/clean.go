package module

import (
	"os"
	"path/filepath"
)

// CleanOther removes every mod/<model>/ target directory other than
// keep, so a localized module only carries the target it was actually
// built for (spec.md §4.6).
func CleanOther(root string, keep Model) error {
	modRoot := filepath.Join(root, "mod")
	entries, err := os.ReadDir(modRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	keepName := keep.String()
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == keepName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(modRoot, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
