package download

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// downloadLocal implements the Local address semantics: a file source
// produces a single destination file preserving its name; a directory
// source is recursively copied, overwrite-by-default, mirroring
// fs_extra::dir::copy's algorithm (spec.md §4.1).
func (d *Downloader) downloadLocal(path, destDir string) (string, error) {
	info, err := d.fs.Stat(path)
	if err != nil {
		return "", galaxyerr.New(galaxyerr.KindResourceMissing, "download(local)", err, path)
	}
	if err := d.fs.MkdirAll(destDir, 0o755); err != nil {
		return "", galaxyerr.New(galaxyerr.KindLogic, "download(local)", err, destDir)
	}
	if !info.IsDir() {
		dest := filepath.Join(destDir, filepath.Base(path))
		if err := copyFile(d.fs, path, dest); err != nil {
			return "", galaxyerr.New(galaxyerr.KindLogic, "download(local)", err, path, dest)
		}
		return dest, nil
	}

	dest := filepath.Join(destDir, filepath.Base(path))
	if err := copyDir(d.fs, path, dest); err != nil {
		return "", galaxyerr.New(galaxyerr.KindLogic, "download(local)", err, path, dest)
	}
	return dest, nil
}

func copyFile(fs afero.Fs, src, dest string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := fs.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	if info, err := fs.Stat(src); err == nil {
		_ = fs.Chmod(dest, info.Mode())
	}
	return nil
}

func copyDir(fs afero.Fs, src, dest string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0o755)
		}
		return copyFile(fs, path, target)
	})
}
