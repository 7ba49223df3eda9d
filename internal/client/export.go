package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// Export report names accepted by the daemon.
const (
	ExportReport      = "report"
	ExportNotUploaded = "not-uploaded"
)

// ExportURL constructs the download URL for a report. The client never
// parses export payloads; it only builds the URL and streams bytes.
func (c *Client) ExportURL(report, format string) string {
	endpoint := c.endpoint("api", "export", report)
	params := url.Values{}
	params.Set("format", format)
	endpoint.RawQuery = params.Encode()
	return endpoint.String()
}

// DownloadExport streams a report into destDir and returns the written
// file's path.
func (c *Client) DownloadExport(ctx context.Context, report, format, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ExportURL(report, format), nil)
	if err != nil {
		return "", &FetchError{Message: err.Error(), Err: err}
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &FetchError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp)}
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	target := filepath.Join(destDir, fmt.Sprintf("matchdeck-%s.%s", report, format))
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return target, nil
}
