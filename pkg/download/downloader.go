package download

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/galaxy-sec/galaxy-ops/pkg/addr"
	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// Downloader is the composed accessor with redirect and auth state:
// acquired once per process and shared with callers as a *Downloader
// (spec.md glossary "Accessor"). It is the sole entry point for C1.
type Downloader struct {
	fs       afero.Fs
	cache    *Cache
	redirect *Table
	home     string
}

// New builds a Downloader rooted at home, loading the redirect table
// from home/.galaxy/redirect.yml if present. The redirect table is read
// once here and treated as immutable thereafter (spec.md §5).
func New(home string) (*Downloader, error) {
	table, err := LoadRedirectTable(DefaultRedirectPath(home))
	if err != nil {
		return nil, err
	}
	return &Downloader{
		fs:       afero.NewOsFs(),
		cache:    NewCache(home),
		redirect: table,
		home:     home,
	}, nil
}

// NewWithFs builds a Downloader over an explicit afero.Fs, for tests
// that want an in-memory tree instead of touching the real filesystem.
func NewWithFs(home string, fs afero.Fs) (*Downloader, error) {
	d, err := New(home)
	if err != nil {
		return nil, err
	}
	d.fs = fs
	return d, nil
}

// Download places address under destDir, returning the final path: a
// file for HTTP, a directory for Git/Local (spec.md §4.1).
func (d *Downloader) Download(ctx context.Context, address addr.Address, destDir string, opts Options) (UpdateUnit, error) {
	pos, err := d.place(ctx, address, destDir, opts)
	if err != nil {
		return UpdateUnit{}, err
	}
	return UpdateUnit{Position: pos}, nil
}

// DownloadRename places address under destDir and then renames the
// resulting entry to newName.
func (d *Downloader) DownloadRename(ctx context.Context, address addr.Address, destDir, newName string, opts Options) (UpdateUnit, error) {
	pos, err := d.place(ctx, address, destDir, opts)
	if err != nil {
		return UpdateUnit{}, err
	}
	renamed, err := d.Rename(pos, newName)
	if err != nil {
		return UpdateUnit{}, err
	}
	return UpdateUnit{Position: renamed}, nil
}

// Upload is the sink-only counterpart used by import packaging,
// outside the hot fetch path (spec.md §4.1).
func (d *Downloader) Upload(ctx context.Context, url, localPath, method string, creds *Credentials) error {
	return uploadHTTP(ctx, url, localPath, method, creds)
}

func (d *Downloader) place(ctx context.Context, address addr.Address, destDir string, opts Options) (string, error) {
	switch address.Kind {
	case addr.KindGit:
		g := *address.Git
		raw, creds := d.redirect.Rewrite(g.Repo)
		g.Repo = raw
		if creds != nil {
			if opts.AuthOverrides == nil {
				opts.AuthOverrides = map[string]Credentials{}
			}
			opts.AuthOverrides[g.Repo] = *creds
		}
		return d.downloadGit(ctx, g, destDir, opts)
	case addr.KindHTTP:
		h := *address.Http
		raw, creds := d.redirect.Rewrite(h.URL)
		h.URL = raw
		name := filepath.Base(raw)
		var useCreds *Credentials
		if creds != nil {
			useCreds = creds
		} else if h.Username != "" {
			useCreds = &Credentials{Username: h.Username, Password: h.Password}
		}
		return d.downloadHTTP(ctx, h.URL, destDir, name, useCreds, opts)
	case addr.KindLocal:
		l := *address.Local
		raw, _ := d.redirect.Rewrite(l.Path)
		return d.downloadLocal(raw, destDir)
	default:
		return "", galaxyerr.New(galaxyerr.KindLogic, "download", nil)
	}
}

// Rename renames the just-placed entry at path to newName, in-place
// (same parent directory). If the destination already exists and
// equals the source, this is a no-op; if it exists and differs, it is
// removed first (spec.md §4.1).
func (d *Downloader) Rename(path, newName string) (string, error) {
	return d.RenameTo(path, filepath.Join(filepath.Dir(path), newName))
}

// RenameTo moves the entry at path to an arbitrary destination path,
// not necessarily a sibling. System refs use this to stage a fetch
// under sys_root/__mod and then land it at sys_root/<name> (spec.md
// §4.7's update_local).
func (d *Downloader) RenameTo(path, dest string) (string, error) {
	if dest == path {
		return dest, nil
	}
	if exists, _ := afero.Exists(d.fs, dest); exists {
		if err := d.fs.RemoveAll(dest); err != nil {
			return "", galaxyerr.New(galaxyerr.KindLogic, "rename", err, dest)
		}
	}
	if err := d.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", galaxyerr.New(galaxyerr.KindResourceMissing, "rename", err, filepath.Dir(dest))
	}
	if err := d.fs.Rename(path, dest); err != nil {
		return "", galaxyerr.New(galaxyerr.KindLogic, "rename", err, path, dest)
	}
	return dest, nil
}

// CleanCacheSlot removes a repo's cache slot entirely; the core never
// does this automatically (spec.md §3 cache entry lifecycle), it is
// exposed for callers recovering from an FS-broken clone.
func (d *Downloader) CleanCacheSlot(repoName string) error {
	return os.RemoveAll(d.cache.Slot(repoName))
}
