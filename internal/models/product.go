package models

import "time"

// ProductRecord is a product row as persisted in the catalog. Rows are
// re-created wholesale on each feed re-import; product_id uniqueness is per
// feed, not global.
type ProductRecord struct {
	ID            int        `db:"id" json:"-"`
	FeedRef       int        `db:"feed_ref" json:"-"`
	ProductID     string     `db:"product_id" json:"productId"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	ImageURL      string     `db:"image_url" json:"imageUrl"`
	Price         string     `db:"price" json:"price"`
	Currency      string     `db:"currency" json:"currency"`
	DetailsLink   string     `db:"details_link" json:"detailsLink"`
	Extra         JSONMap    `db:"extra" json:"extra,omitempty"`
	LastUpdatedAt *string    `db:"last_updated_at" json:"lastUpdatedAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"-"`

	// Owning feed, eager-loaded on every catalog query because the domain
	// product's tracking URL and program need the advertiser identity.
	Feed Feed `db:"feed" json:"-"`
}

// Product is the domain object served to API consumers: a catalog row joined
// with its program and the outbound tracking URL for the requesting
// publisher.
type Product struct {
	Program     Program `json:"program"`
	ProductID   string  `json:"productId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	DetailsURL  string  `json:"detailsUrl"`
	TrackingURL string  `json:"trackingUrl"`
	Extra       JSONMap `json:"extra,omitempty"`
}
