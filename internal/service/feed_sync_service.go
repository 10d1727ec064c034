package service

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/affinet/awin-gateway/internal/models"
	"github.com/affinet/awin-gateway/internal/repository"
	"github.com/affinet/awin-gateway/internal/utils"
	"github.com/affinet/awin-gateway/pkg/awin"
)

// FeedSyncService ingests the network's product feeds: it refreshes the feed
// list and replaces the product catalog of every joined feed from its zipped
// CSV export. One sync runs at a time; a failed feed aborts only that feed
// and never touches previously imported data.
type FeedSyncService struct {
	client       *awin.Client
	mapper       *FeedMapper
	feedRepo     *repository.FeedRepository
	productRepo  *repository.ProductRepository
	extraColumns []string
	downloadDir  string

	running atomic.Bool
}

// NewFeedSyncService constructs a FeedSyncService.
func NewFeedSyncService(
	client *awin.Client,
	mapper *FeedMapper,
	feedRepo *repository.FeedRepository,
	productRepo *repository.ProductRepository,
	extraColumns []string,
	downloadDir string,
) *FeedSyncService {
	return &FeedSyncService{
		client:       client,
		mapper:       mapper,
		feedRepo:     feedRepo,
		productRepo:  productRepo,
		extraColumns: extraColumns,
		downloadDir:  downloadDir,
	}
}

// Running reports whether a sync is currently in flight.
func (s *FeedSyncService) Running() bool {
	return s.running.Load()
}

// SyncAll refreshes the feed list, then re-imports the products of every
// joined feed. Per-feed failures are logged and skipped so one bad feed
// cannot abort the batch.
func (s *FeedSyncService) SyncAll(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return utils.ErrSyncInProgress
	}
	defer s.running.Store(false)

	if err := s.syncFeedList(ctx); err != nil {
		return err
	}

	feeds, err := s.feedRepo.GetJoined()
	if err != nil {
		return err
	}

	for i := range feeds {
		feed := &feeds[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.syncFeedProducts(ctx, feed); err != nil {
			log.Error().Err(err).Str("feed_id", feed.FeedID).Msg("feed product import failed; skipping feed")
		}
	}
	return nil
}

// syncFeedList downloads the feed list export and upserts every mappable
// row. Rows that fail mapping (e.g. an unresolvable language name) are
// logged with their feed id and skipped.
func (s *FeedSyncService) syncFeedList(ctx context.Context) error {
	path := filepath.Join(s.downloadDir, fmt.Sprintf("awin-feeds-%s.csv", uuid.New().String()[:8]))
	defer os.Remove(path)

	if err := s.client.DownloadFeedList(ctx, path, downloadProgressLogger("feed list")); err != nil {
		return fmt.Errorf("feed list download failed: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var imported, skipped int
	err = forEachCSVRow(file, func(row map[string]string) {
		feed, err := s.mapper.MapFeedRow(row)
		if err != nil {
			skipped++
			log.Warn().Err(err).Msg("skipping unmappable feed row")
			return
		}
		if err := s.feedRepo.Upsert(feed); err != nil {
			skipped++
			log.Error().Err(err).Str("feed_id", feed.FeedID).Msg("failed to upsert feed")
			return
		}
		imported++
	})
	if err != nil {
		return fmt.Errorf("feed list parse failed: %w", err)
	}

	log.Info().Int("imported", imported).Int("skipped", skipped).Msg("feed list synced")
	return nil
}

// syncFeedProducts downloads one feed's zipped CSV export and atomically
// replaces the feed's catalog rows with the mapped products.
func (s *FeedSyncService) syncFeedProducts(ctx context.Context, feed *models.Feed) error {
	path := filepath.Join(s.downloadDir, fmt.Sprintf("awin-feed-%s-%s.zip", feed.FeedID, uuid.New().String()[:8]))
	defer os.Remove(path)

	if err := s.client.DownloadFeedProducts(ctx, feed.FeedID, s.extraColumns, path, downloadProgressLogger("feed "+feed.FeedID)); err != nil {
		return fmt.Errorf("product feed download failed: %w", err)
	}

	reader, err := openZippedCSV(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	var records []models.ProductRecord
	err = forEachCSVRow(reader, func(row map[string]string) {
		records = append(records, s.mapper.ProductRecordFromRow(row))
	})
	if err != nil {
		return fmt.Errorf("product feed parse failed: %w", err)
	}

	if err := s.productRepo.ReplaceForFeed(feed.ID, records); err != nil {
		return fmt.Errorf("catalog replace failed: %w", err)
	}

	log.Info().Str("feed_id", feed.FeedID).Int("products", len(records)).Msg("feed products imported")
	return nil
}

// zipCSVReader keeps the archive handle open for the lifetime of the CSV
// entry reader.
type zipCSVReader struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (r *zipCSVReader) Close() error {
	_ = r.ReadCloser.Close()
	return r.archive.Close()
}

// openZippedCSV opens the first CSV entry of a downloaded feed archive.
func openZippedCSV(path string) (io.ReadCloser, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed archive: %w", err)
	}

	for _, entry := range archive.File {
		if strings.HasSuffix(strings.ToLower(entry.Name), ".csv") {
			rc, err := entry.Open()
			if err != nil {
				_ = archive.Close()
				return nil, err
			}
			return &zipCSVReader{ReadCloser: rc, archive: archive}, nil
		}
	}

	_ = archive.Close()
	return nil, fmt.Errorf("feed archive contains no CSV entry")
}

// forEachCSVRow reads a header-prefixed CSV stream and invokes fn with each
// data row as a column-name -> value map.
func forEachCSVRow(r io.Reader, fn func(row map[string]string)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		fn(row)
	}
}

// downloadProgressLogger reports progress at debug level roughly every 10MB
// so large feed downloads stay observable without flooding the log.
func downloadProgressLogger(name string) awin.ProgressFunc {
	const step = 10 << 20
	var lastLogged int64
	return func(downloaded, total int64) {
		if downloaded-lastLogged < step && !(total > 0 && downloaded == total) {
			return
		}
		lastLogged = downloaded
		log.Debug().
			Str("download", name).
			Int64("bytes", downloaded).
			Int64("total", total).
			Msg("download progress")
	}
}
