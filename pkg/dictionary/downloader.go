package dictionary

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LatestReleaseURL is the GitHub API endpoint of the jmdict-simplified releases.
const LatestReleaseURL = "https://api.github.com/repos/scriptin/jmdict-simplified/releases/latest"

// Downloader fetches the English common jmdict-simplified dictionary.
type Downloader struct {
	Client     *http.Client
	ReleaseURL string
	Logger     *slog.Logger
}

// NewDownloader returns a Downloader for the public release feed.
func NewDownloader() *Downloader {
	return &Downloader{
		Client:     &http.Client{Timeout: 5 * time.Minute},
		ReleaseURL: LatestReleaseURL,
	}
}

// EnsureDictionary makes sure a dictionary file exists at path, downloading
// the latest release when it does not.
func EnsureDictionary(ctx context.Context, path string) error {
	return NewDownloader().Ensure(ctx, path)
}

// Ensure makes sure a dictionary file exists at path.
func (d *Downloader) Ensure(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("dictionary missing, downloading", slog.String("path", path))

	assetURL, err := d.latestAssetURL(ctx)
	if err != nil {
		return fmt.Errorf("failed to find latest dictionary release: %w", err)
	}
	log.Info("downloading dictionary", slog.String("url", assetURL))
	return d.downloadAndExtract(ctx, assetURL, path)
}

func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// GitHub requires a User-Agent.
	req.Header.Set("User-Agent", "wordbook-cli")
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp, nil
}

func (d *Downloader) latestAssetURL(ctx context.Context) (string, error) {
	resp, err := d.get(ctx, d.ReleaseURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var release struct {
		Assets []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	// Pattern: jmdict-eng-common-*.json.tgz
	for _, asset := range release.Assets {
		if strings.Contains(asset.Name, "jmdict-eng-common") && (strings.HasSuffix(asset.Name, ".json.tgz") || strings.HasSuffix(asset.Name, ".json.gz")) {
			return asset.BrowserDownloadURL, nil
		}
	}
	return "", errors.New("no suitable dictionary asset found in latest release")
}

// downloadAndExtract writes the first .json member of the tar.gz at url to
// destPath, going through a temporary file so a failed download leaves
// nothing behind.
func (d *Downloader) downloadAndExtract(ctx context.Context, url, destPath string) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	gzReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return errors.New("no json file found in downloaded archive")
		}
		if err != nil {
			return fmt.Errorf("error reading tar archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !strings.HasSuffix(header.Name, ".json") {
			continue
		}
		return writeAtomically(destPath, tarReader)
	}
}

func writeAtomically(destPath string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".jmdict-*.json")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}
