package project

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
	"github.com/galaxy-sec/galaxy-ops/pkg/tpl"
)

// ImportSystem unpacks a pre-built system package (a tar.gz produced
// by an external archiver — producing one is out of scope, only
// consuming it is in-core) into <project-root>/<name>, so an operator
// can use a system package that was never fetched through an address.
func ImportSystem(projectRoot, archivePath, name string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return galaxyerr.New(galaxyerr.KindResourceMissing, "project.import", err, archivePath)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return galaxyerr.New(galaxyerr.KindParseFailed, "project.import", err, archivePath)
	}
	defer gz.Close()

	destRoot := filepath.Join(projectRoot, name)
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return galaxyerr.New(galaxyerr.KindLogic, "project.import", err, destRoot)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return galaxyerr.New(galaxyerr.KindParseFailed, "project.import", err, archivePath)
		}
		target := filepath.Join(destRoot, hdr.Name)
		if err := tpl.EnsureUnderRoot(destRoot, target); err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return galaxyerr.New(galaxyerr.KindLogic, "project.import", err, target)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return galaxyerr.New(galaxyerr.KindLogic, "project.import", err, target)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				return galaxyerr.New(galaxyerr.KindLogic, "project.import", err, target)
			}
			_, copyErr := io.Copy(out, tr)
			closeErr := out.Close()
			if copyErr != nil {
				return galaxyerr.New(galaxyerr.KindLogic, "project.import", copyErr, target)
			}
			if closeErr != nil {
				return galaxyerr.New(galaxyerr.KindLogic, "project.import", closeErr, target)
			}
		}
	}
}
