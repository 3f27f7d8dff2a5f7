package conf

import (
	"os"
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// SaveConf persists v to path in the format implied by path's
// extension, creating parent directories as needed. Writes are
// non-atomic, per spec.md §4.3.
func SaveConf(path string, v interface{}) error {
	data, err := Marshal(v, FormatFromExt(path))
	if err != nil {
		return galaxyerr.New(galaxyerr.KindLogic, "save_conf", err, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return galaxyerr.New(galaxyerr.KindLogic, "save_conf", err, path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return galaxyerr.New(galaxyerr.KindLogic, "save_conf", err, path)
	}
	return nil
}

// FromConf loads path into v, in the format implied by path's
// extension.
func FromConf(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return galaxyerr.New(galaxyerr.KindResourceMissing, "from_conf", err, path)
		}
		return galaxyerr.New(galaxyerr.KindLogic, "from_conf", err, path)
	}
	format := FormatFromExt(path)
	if err := Unmarshal(data, v, format); err != nil {
		return WrapParseError(path, format, err)
	}
	return nil
}

// Exists reports whether path is present on disk, used by callers that
// treat a missing optional file (e.g. a per-module user value file) as
// absent rather than fatal.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
