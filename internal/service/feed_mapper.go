package service

import (
	"strconv"

	"github.com/affinet/awin-gateway/internal/iso639"
	"github.com/affinet/awin-gateway/internal/models"
	"github.com/affinet/awin-gateway/internal/utils"
)

// fixedProductColumns are the canonical product keys every mapped row carries.
// On a name collision with a configured extra column, the fixed key wins.
var fixedProductColumns = map[string]bool{
	"product_id":      true,
	"title":           true,
	"description":     true,
	"image_url":       true,
	"details_link":    true,
	"price":           true,
	"currency":        true,
	"last_updated_at": true,
}

// FeedMapper transforms raw feed-list rows and product CSV rows into the
// canonical catalog schema. It is stateless apart from the configured extra
// column list.
type FeedMapper struct {
	extraColumns []string
}

// NewFeedMapper constructs a FeedMapper for the configured extra columns.
func NewFeedMapper(extraColumns []string) *FeedMapper {
	return &FeedMapper{extraColumns: extraColumns}
}

// MapProductRow maps one raw product CSV row into the canonical key set:
// the configured extra columns (missing key -> nil, not an error) followed
// by the fixed columns, with fixed columns winning on collision.
func (m *FeedMapper) MapProductRow(row map[string]string) map[string]any {
	mapped := make(map[string]any, len(m.extraColumns)+len(fixedProductColumns))

	for _, col := range m.extraColumns {
		if v, ok := row[col]; ok {
			mapped[col] = v
		} else {
			mapped[col] = nil
		}
	}

	mapped["product_id"] = row["aw_product_id"]
	mapped["title"] = row["product_name"]
	mapped["description"] = row["description"]
	mapped["image_url"] = row["merchant_image_url"]
	mapped["details_link"] = row["merchant_deep_link"]
	mapped["price"] = row["search_price"]
	mapped["currency"] = row["currency"]
	if v := row["last_updated"]; v != "" {
		mapped["last_updated_at"] = v
	} else {
		mapped["last_updated_at"] = nil
	}

	return mapped
}

// ProductRecordFromRow builds the persistable catalog record for one raw
// product CSV row. Extra columns colliding with fixed column names are
// dropped from the extra bag, mirroring MapProductRow precedence.
func (m *FeedMapper) ProductRecordFromRow(row map[string]string) models.ProductRecord {
	var extra models.JSONMap
	for _, col := range m.extraColumns {
		if fixedProductColumns[col] {
			continue
		}
		if extra == nil {
			extra = models.JSONMap{}
		}
		if v, ok := row[col]; ok {
			extra[col] = v
		} else {
			extra[col] = nil
		}
	}

	var lastUpdated *string
	if v := row["last_updated"]; v != "" {
		lastUpdated = &v
	}

	return models.ProductRecord{
		ProductID:     row["aw_product_id"],
		Title:         row["product_name"],
		Description:   row["description"],
		ImageURL:      row["merchant_image_url"],
		DetailsLink:   row["merchant_deep_link"],
		Price:         row["search_price"],
		Currency:      row["currency"],
		Extra:         extra,
		LastUpdatedAt: lastUpdated,
	}
}

// MapFeedRow maps one raw feed-list row into a Feed. The human-readable
// language name is resolved to its ISO 639-1 code; an unresolvable name is a
// mapping error tagged with the offending feed id so callers can skip the
// row and keep importing.
func (m *FeedMapper) MapFeedRow(row map[string]string) (*models.Feed, error) {
	feedID := row["feed_id"]

	language, ok := iso639.CodeByName(row["language"])
	if !ok {
		return nil, &utils.DataMappingError{
			Source: "feed",
			ID:     feedID,
			Field:  "language",
			Value:  row["language"],
		}
	}

	productsCount, err := strconv.Atoi(row["no_of_products"])
	if err != nil {
		return nil, &utils.DataMappingError{
			Source: "feed",
			ID:     feedID,
			Field:  "no_of_products",
			Value:  row["no_of_products"],
		}
	}

	return &models.Feed{
		FeedID:         feedID,
		AdvertiserID:   row["advertiser_id"],
		AdvertiserName: row["advertiser_name"],
		Joined:         row["membership_status"] == "active",
		ProductsCount:  productsCount,
		// Carried verbatim; the source API leaves the timezone unspecified.
		ImportedAt: row["last_imported"],
		Region:     row["primary_region"],
		Language:   language,
	}, nil
}
