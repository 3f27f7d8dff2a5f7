package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// downloadHTTP streams url to destDir/name, applying Basic auth if
// creds is non-nil, and reports chunked progress unless opts.Quiet.
func (d *Downloader) downloadHTTP(ctx context.Context, url, destDir, name string, creds *Credentials, opts Options) (string, error) {
	if err := d.fs.MkdirAll(destDir, 0o755); err != nil {
		return "", galaxyerr.New(galaxyerr.KindLogic, "download(http)", err, destDir)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", galaxyerr.New(galaxyerr.KindDownloadFailed, "download(http)", err, url)
	}
	if creds != nil && creds.Username != "" {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", galaxyerr.New(galaxyerr.KindDownloadFailed, "download(http)", err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", galaxyerr.New(galaxyerr.KindDownloadFailed, "download(http)",
			fmt.Errorf("status %d", resp.StatusCode), url)
	}

	dest := filepath.Join(destDir, name)
	out, err := d.fs.Create(dest)
	if err != nil {
		return "", galaxyerr.New(galaxyerr.KindLogic, "download(http)", err, dest)
	}
	defer out.Close()

	var reader io.Reader = resp.Body
	var progress *mpb.Progress
	if !opts.Quiet {
		progress = mpb.New()
		bar := progress.AddBar(resp.ContentLength,
			mpb.PrependDecorators(decor.Name(name)),
			mpb.AppendDecorators(decor.CountersKiBToMB("% .2f / % .2f")),
		)
		reader = bar.ProxyReader(resp.Body)
		defer func() {
			bar.SetTotal(bar.Current(), true)
			progress.Wait()
		}()
	}

	if _, err := io.Copy(out, reader); err != nil {
		return "", galaxyerr.New(galaxyerr.KindDownloadFailed, "download(http)", err, dest)
	}
	return dest, nil
}

// uploadHTTP is the sink-only counterpart used by import packaging; it
// is outside the hot fetch path (spec.md §4.1).
func uploadHTTP(ctx context.Context, url, localPath, method string, creds *Credentials) error {
	client := retryablehttp.NewClient()
	client.Logger = nil

	f, err := os.Open(localPath)
	if err != nil {
		return galaxyerr.New(galaxyerr.KindResourceMissing, "upload", err, localPath)
	}
	defer f.Close()

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, f)
	if err != nil {
		return galaxyerr.New(galaxyerr.KindDownloadFailed, "upload", err, url)
	}
	if creds != nil && creds.Username != "" {
		req.SetBasicAuth(creds.Username, creds.Password)
	}
	resp, err := client.Do(req)
	if err != nil {
		return galaxyerr.New(galaxyerr.KindDownloadFailed, "upload", err, url)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return galaxyerr.New(galaxyerr.KindDownloadFailed, "upload", fmt.Errorf("status %d", resp.StatusCode), url)
	}
	return nil
}
