package models

import "time"

// Program identifies a merchant/advertiser relationship on the network.
// Immutable value object.
type Program struct {
	AdvertiserID   string `json:"advertiserId"`
	AdvertiserName string `json:"advertiserName"`
}

// Feed represents one advertiser's product catalog snapshot as listed by the
// Awin feed list export. A row is created or refreshed on every feed-list
// sync.
type Feed struct {
	ID             int       `db:"id" json:"-"`
	FeedID         string    `db:"feed_id" json:"feedId"`
	AdvertiserID   string    `db:"advertiser_id" json:"advertiserId"`
	AdvertiserName string    `db:"advertiser_name" json:"advertiserName"`
	Joined         bool      `db:"joined" json:"joined"`
	ProductsCount  int       `db:"products_count" json:"productsCount"`
	// ImportedAt is carried verbatim from the feed list export; the source
	// API does not document its timezone, so no conversion is applied.
	ImportedAt string `db:"imported_at" json:"importedAt"`
	Region     string `db:"region" json:"region"`
	// Language is an ISO 639-1 two-letter code resolved from the
	// human-readable name in the export.
	Language  string    `db:"language" json:"language"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Program returns the advertiser identity of the feed.
func (f *Feed) Program() Program {
	return Program{AdvertiserID: f.AdvertiserID, AdvertiserName: f.AdvertiserName}
}
