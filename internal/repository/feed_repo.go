package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/affinet/awin-gateway/internal/models"
)

// FeedRepository handles data access for advertiser product feeds.
type FeedRepository struct {
	db *sqlx.DB
}

// NewFeedRepository creates a new FeedRepository.
func NewFeedRepository(db *sqlx.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// Upsert inserts or refreshes a feed by its network feed_id.
func (r *FeedRepository) Upsert(feed *models.Feed) error {
	const q = `
        INSERT INTO feeds (feed_id, advertiser_id, advertiser_name, joined, products_count, imported_at, region, language)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (feed_id) DO UPDATE SET
            advertiser_id = EXCLUDED.advertiser_id,
            advertiser_name = EXCLUDED.advertiser_name,
            joined = EXCLUDED.joined,
            products_count = EXCLUDED.products_count,
            imported_at = EXCLUDED.imported_at,
            region = EXCLUDED.region,
            language = EXCLUDED.language,
            updated_at = NOW()
        RETURNING id`

	return r.db.QueryRowx(q,
		feed.FeedID,
		feed.AdvertiserID,
		feed.AdvertiserName,
		feed.Joined,
		feed.ProductsCount,
		feed.ImportedAt,
		feed.Region,
		feed.Language,
	).Scan(&feed.ID)
}

// GetAll returns all known feeds ordered by advertiser name.
func (r *FeedRepository) GetAll() ([]models.Feed, error) {
	const q = `SELECT * FROM feeds ORDER BY advertiser_name, feed_id`

	var feeds []models.Feed
	if err := r.db.Select(&feeds, q); err != nil {
		return nil, err
	}
	return feeds, nil
}

// GetJoined returns the feeds of programs the publisher has joined; only
// these are eligible for product imports.
func (r *FeedRepository) GetJoined() ([]models.Feed, error) {
	const q = `SELECT * FROM feeds WHERE joined = true ORDER BY advertiser_name, feed_id`

	var feeds []models.Feed
	if err := r.db.Select(&feeds, q); err != nil {
		return nil, err
	}
	return feeds, nil
}
