package awin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ProgressFunc receives download progress as data arrives. total is 0 when
// the server does not announce a content length.
type ProgressFunc func(downloaded, total int64)

// requiredFeedColumns is the fixed column set every product feed download
// must include, independent of any configured extra columns.
var requiredFeedColumns = []string{
	"product_name",
	"description",
	"aw_product_id",
	"merchant_image_url",
	"search_price",
	"currency",
	"merchant_deep_link",
	"data_feed_id",
	"last_updated",
}

// DownloadFeedList streams the full feed list export to path, reporting
// progress as data arrives. The response body is never buffered in memory.
func (c *Client) DownloadFeedList(ctx context.Context, path string, progress ProgressFunc) error {
	url := fmt.Sprintf("%s/datafeed/list/apikey/%s", c.feedBaseURL, c.feedAPIKey)
	return c.downloadToFile(ctx, url, path, progress)
}

// DownloadFeedProducts streams one feed's zipped CSV product export to path.
// The download URL pins the CSV format, "any" language, comma delimiter and
// zip compression, and requests extraColumns plus the fixed required set.
func (c *Client) DownloadFeedProducts(ctx context.Context, feedID string, extraColumns []string, path string, progress ProgressFunc) error {
	columns := append(append([]string{}, extraColumns...), requiredFeedColumns...)

	url := fmt.Sprintf(
		"%s/datafeed/download/apikey/%s/fid/%s/format/csv/language/any/delimiter/%%2C/compression/zip/columns/%s",
		c.feedBaseURL,
		c.feedAPIKey,
		feedID,
		strings.Join(columns, "%2C"),
	)
	return c.downloadToFile(ctx, url, path, progress)
}

// downloadToFile GETs url and copies the body straight into a file sink so
// feed files of any size can be fetched with bounded memory. A non-2xx
// status is returned as a *StatusError.
func (c *Client) downloadToFile(ctx context.Context, url, path string, progress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.debug {
		log.Debug().Str("url", url).Str("path", path).Msg("[AWIN] Downloading feed file")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: url, StatusCode: resp.StatusCode}
	}

	sink, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sink file: %w", err)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	var dst io.Writer = sink
	if progress != nil {
		dst = &progressWriter{w: sink, total: total, progress: progress}
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		_ = sink.Close()
		return fmt.Errorf("failed to write feed file: %w", err)
	}
	return sink.Close()
}

// progressWriter counts bytes through to the underlying writer and invokes
// the progress callback on every write.
type progressWriter struct {
	w          io.Writer
	downloaded int64
	total      int64
	progress   ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.downloaded += int64(n)
	p.progress(p.downloaded, p.total)
	return n, err
}
