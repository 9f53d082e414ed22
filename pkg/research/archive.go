package research

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"browseroskb/pkg/config"
	"browseroskb/pkg/logx"
	"browseroskb/pkg/resilience"
)

// archiveMaxAge is how long an archived source stays fresh before the
// archiver re-fetches it.
const archiveMaxAge = 7 * 24 * time.Hour

// Archiver fetches web sources and keeps a local copy under the raw
// directory, keyed by URL hash. Recently archived sources are served from
// disk unless force is set.
type Archiver struct {
	rawDir string
	force  bool
	client *http.Client
	log    *logx.Logger
}

// NewArchiver creates an archiver storing fetched sources under rawDir.
func NewArchiver(rawDir string, force bool) *Archiver {
	return &Archiver{
		rawDir: rawDir,
		force:  force,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logx.NewLogger("archiver"),
	}
}

// Fetch returns the content of url, from the archive when fresh, otherwise
// fetched and archived. Failures degrade to an empty string.
func (a *Archiver) Fetch(ctx context.Context, url string) string {
	if !resilience.ValidateURL(url) {
		a.log.Warn("skipping invalid source URL %q", url)
		return ""
	}

	path := a.archivePath(url)
	if !a.force {
		if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) < archiveMaxAge {
			a.log.Debug("using archived copy of %s", url)
			return resilience.SafeFileRead(path, "")
		}
	}

	headers := map[string]string{
		"User-Agent": "BrowserOS-KB-Bot/1.0",
		"Accept":     "text/html,application/xhtml+xml",
	}
	if token := os.Getenv(config.EnvGitHubToken); token != "" && strings.Contains(url, "github.com") {
		headers["Authorization"] = "token " + token
	}

	resp, err := resilience.ResilientRequest(ctx, a.client, http.MethodGet, url, headers, nil, resilience.DefaultRetryConfig())
	if err != nil {
		a.log.Warn("failed to fetch %s: %v", url, err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		a.log.Warn("fetch of %s returned status %d", url, resp.StatusCode)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		a.log.Warn("failed to read %s: %v", url, err)
		return ""
	}

	content := string(body)
	if err := resilience.SafeFileWrite(path, content, true); err != nil {
		a.log.Warn("failed to archive %s: %v", url, err)
	} else {
		a.log.Info("archived %s", url)
	}
	return content
}

func (a *Archiver) archivePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(a.rawDir, hex.EncodeToString(sum[:])+".html")
}
