package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/galaxy-sec/galaxy-ops/pkg/addr"
	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// downloadGit implements the Git address semantics of spec.md §4.1:
//  1. compute the cache slot from the repo's last path segment;
//  2. fast-forward an existing slot, or clone a fresh one;
//  3. checkout tag -> branch -> rev, in that precedence;
//  4. copy (never symlink) the slot, or its subpath, into destDir.
func (d *Downloader) downloadGit(ctx context.Context, g addr.Git, destDir string, opts Options) (string, error) {
	slotName := addr.NewGit(g).LastPathSegment()
	auth := d.authFor(g.Repo, opts)

	slotPath, err := d.cache.WithSlotLock(slotName, func() (string, error) {
		return d.syncCacheSlot(ctx, g, slotName, auth, opts)
	})
	if err != nil {
		return "", err
	}

	src := slotPath
	if g.Subpath != "" {
		src = filepath.Join(slotPath, g.Subpath)
	}
	if err := d.fs.MkdirAll(destDir, 0o755); err != nil {
		return "", galaxyerr.New(galaxyerr.KindLogic, "download(git)", err, destDir)
	}
	dest := filepath.Join(destDir, filepath.Base(src))
	if err := copyDir(d.fs, src, dest); err != nil {
		return "", galaxyerr.New(galaxyerr.KindLogic, "download(git)", err, src, dest)
	}
	return dest, nil
}

func (d *Downloader) syncCacheSlot(ctx context.Context, g addr.Git, slotName string, auth *http.BasicAuth, opts Options) (string, error) {
	slot := d.cache.Slot(slotName)

	if opts.CleanCache {
		_ = os.RemoveAll(slot)
	}

	exists := d.cache.Exists(slotName)
	if !exists && opts.Offline {
		return "", galaxyerr.New(galaxyerr.KindResourceMissing, "download(git)", fmt.Errorf("offline and no cache for %s", slotName), slot)
	}

	var repo *gogit.Repository
	var err error
	if exists {
		repo, err = gogit.PlainOpen(slot)
		if err != nil {
			return "", galaxyerr.New(galaxyerr.KindLogic, "download(git)", err, slot)
		}
		wt, werr := repo.Worktree()
		if werr != nil {
			return "", galaxyerr.New(galaxyerr.KindLogic, "download(git)", werr, slot)
		}
		pullErr := wt.PullContext(ctx, &gogit.PullOptions{RemoteName: "origin", Auth: authIface(auth)})
		if pullErr != nil && !errors.Is(pullErr, gogit.NoErrAlreadyUpToDate) {
			if isNonFastForward(pullErr) {
				return "", galaxyerr.New(galaxyerr.KindNeedsManualMerge, "download(git)", pullErr, slot)
			}
			return "", galaxyerr.New(galaxyerr.KindDownloadFailed, "download(git)", pullErr, g.Repo)
		}
	} else {
		repo, err = gogit.PlainCloneContext(ctx, slot, false, &gogit.CloneOptions{
			URL:  g.Repo,
			Auth: authIface(auth),
		})
		if err != nil {
			return "", galaxyerr.New(galaxyerr.KindDownloadFailed, "download(git)", err, g.Repo)
		}
	}

	if ref, selector := g.RefPrecedence(); ref != "" {
		if err := checkout(repo, ref, selector); err != nil {
			return "", galaxyerr.New(galaxyerr.KindDownloadFailed, "download(git)", err, ref)
		}
	}

	return slot, nil
}

func checkout(repo *gogit.Repository, ref, selector string) error {
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	switch selector {
	case "tag":
		return wt.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewTagReferenceName(ref)})
	case "branch":
		return wt.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(ref)})
	default: // rev: detached checkout
		hash, err := repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return err
		}
		return wt.Checkout(&gogit.CheckoutOptions{Hash: *hash})
	}
}

func isNonFastForward(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "non-fast-forward") || strings.Contains(msg, "not possible to fast-forward")
}

func (d *Downloader) authFor(repo string, opts Options) *http.BasicAuth {
	if override, ok := opts.AuthOverrides[repo]; ok {
		return &http.BasicAuth{Username: override.Username, Password: override.Password}
	}
	return nil
}

// authIface converts a possibly-nil *http.BasicAuth into a true nil
// transport.AuthMethod interface value when unset, avoiding the classic
// Go footgun of a non-nil interface wrapping a nil pointer.
func authIface(a *http.BasicAuth) transport.AuthMethod {
	if a == nil {
		return nil
	}
	return a
}
