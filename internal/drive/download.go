package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/avuppal/driveRAG/internal/customHttpClient"
	"github.com/avuppal/driveRAG/internal/rag/extract"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Downloader supplies raw file bytes from a shared folder link. The rest of
// the pipeline never sees URLs, only named byte payloads.
type Downloader interface {
	FetchFolder(ctx context.Context, folderURL string) ([]extract.SourceFile, error)
}

type Client struct {
	http   *http.Client
	logger *logger_i.Logger
}

func NewClient() *Client {
	return &Client{
		http:   customHttpClient.NewPooledClient(),
		logger: logger_i.NewLogger("Drive"),
	}
}

// FetchFolder scrapes the shared folder page for file entries and downloads
// each one into memory. A file that fails to download is skipped, not fatal.
func (c *Client) FetchFolder(ctx context.Context, folderURL string) ([]extract.SourceFile, error) {
	if ExtractFolderID(folderURL) == "" {
		return nil, fmt.Errorf("not a shared folder link: %s", folderURL)
	}

	page, err := c.get(ctx, folderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder listing: %w", err)
	}

	refs := parseFolderListing(string(page))
	if len(refs) == 0 {
		return nil, fmt.Errorf("no files found in folder")
	}

	files := make([]extract.SourceFile, 0, len(refs))
	for _, ref := range refs {
		data, err := c.DownloadFile(ctx, ref.Id)
		if err != nil {
			c.logger.Warn("skipping file", "name", ref.Name, "error", err)
			continue
		}
		files = append(files, extract.SourceFile{Id: ref.Id, Name: ref.Name, Data: data})
	}
	return files, nil
}

var confirmTokenPattern = regexp.MustCompile(`name="confirm" value="([^"]+)"`)

// DownloadFile fetches one file by id, following the interstitial page Drive
// serves for files it could not virus-scan.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url := fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", fileID)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if strings.Contains(strings.ToLower(string(body)), "virus scan warning") {
		m := confirmTokenPattern.FindSubmatch(body)
		if m == nil {
			return nil, fmt.Errorf("scan warning page without a confirm token for file %s", fileID)
		}
		url = fmt.Sprintf("https://drive.google.com/uc?export=download&confirm=%s&id=%s", m[1], fileID)
		body, err = c.get(ctx, url)
		if err != nil {
			return nil, err
		}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
