package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/affinet/awin-gateway/internal/utils"
)

func sampleProductRow() map[string]string {
	return map[string]string{
		"aw_product_id":      "SKU-1",
		"product_name":       "Trail Shoe",
		"description":        "A sturdy trail shoe",
		"merchant_image_url": "https://img.example/shoe.jpg",
		"merchant_deep_link": "https://shop.example/shoe",
		"search_price":       "79.95",
		"currency":           "EUR",
		"last_updated":       "2024-05-01 10:00:00",
		"ean":                "4006381333931",
	}
}

func TestMapProductRow(t *testing.T) {
	m := NewFeedMapper([]string{"ean", "brand_name"})

	got := m.MapProductRow(sampleProductRow())

	want := map[string]any{
		"ean":             "4006381333931",
		"brand_name":      nil, // configured but absent from the row
		"product_id":      "SKU-1",
		"title":           "Trail Shoe",
		"description":     "A sturdy trail shoe",
		"image_url":       "https://img.example/shoe.jpg",
		"details_link":    "https://shop.example/shoe",
		"price":           "79.95",
		"currency":        "EUR",
		"last_updated_at": "2024-05-01 10:00:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MapProductRow = %#v, want %#v", got, want)
	}
}

func TestMapProductRowFixedColumnsWinOnCollision(t *testing.T) {
	// "price" is both a configured extra column and a fixed column.
	m := NewFeedMapper([]string{"price"})

	row := sampleProductRow()
	row["price"] = "raw-feed-price"
	got := m.MapProductRow(row)

	if got["price"] != "79.95" {
		t.Fatalf("price = %v, want the canonical search_price value", got["price"])
	}
}

func TestMapProductRowEmptyLastUpdated(t *testing.T) {
	m := NewFeedMapper(nil)

	row := sampleProductRow()
	row["last_updated"] = ""
	got := m.MapProductRow(row)

	if got["last_updated_at"] != nil {
		t.Fatalf("last_updated_at = %v, want nil", got["last_updated_at"])
	}
}

func TestProductRecordFromRow(t *testing.T) {
	m := NewFeedMapper([]string{"ean", "price"})

	rec := m.ProductRecordFromRow(sampleProductRow())

	if rec.ProductID != "SKU-1" || rec.Title != "Trail Shoe" || rec.Price != "79.95" {
		t.Errorf("record = %+v", rec)
	}
	if rec.LastUpdatedAt == nil || *rec.LastUpdatedAt != "2024-05-01 10:00:00" {
		t.Errorf("lastUpdatedAt = %v", rec.LastUpdatedAt)
	}
	if _, ok := rec.Extra["price"]; ok {
		t.Error("extra bag contains a fixed column name")
	}
	if rec.Extra["ean"] != "4006381333931" {
		t.Errorf("extra = %v", rec.Extra)
	}
}

func sampleFeedRow() map[string]string {
	return map[string]string{
		"advertiser_id":     "7052",
		"advertiser_name":   "Example Store",
		"feed_id":           "1337",
		"language":          "German",
		"last_imported":     "2024-05-01 03:12:44",
		"membership_status": "active",
		"no_of_products":    "125000",
		"primary_region":    "DE",
	}
}

func TestMapFeedRow(t *testing.T) {
	m := NewFeedMapper(nil)

	feed, err := m.MapFeedRow(sampleFeedRow())
	if err != nil {
		t.Fatalf("MapFeedRow: %v", err)
	}

	if feed.FeedID != "1337" || feed.AdvertiserID != "7052" {
		t.Errorf("feed ids = %s/%s", feed.FeedID, feed.AdvertiserID)
	}
	if feed.Language != "de" {
		t.Errorf("language = %q, want %q", feed.Language, "de")
	}
	if !feed.Joined {
		t.Error("membership_status=active should map to joined")
	}
	if feed.ProductsCount != 125000 {
		t.Errorf("productsCount = %d", feed.ProductsCount)
	}
	if feed.ImportedAt != "2024-05-01 03:12:44" {
		t.Errorf("importedAt = %q, want the verbatim value", feed.ImportedAt)
	}
}

func TestMapFeedRowIdempotent(t *testing.T) {
	m := NewFeedMapper(nil)

	row := sampleFeedRow()
	first, err := m.MapFeedRow(row)
	if err != nil {
		t.Fatalf("MapFeedRow: %v", err)
	}
	second, err := m.MapFeedRow(row)
	if err != nil {
		t.Fatalf("MapFeedRow: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-mapping diverged: %+v vs %+v", first, second)
	}
}

func TestMapFeedRowNotJoined(t *testing.T) {
	m := NewFeedMapper(nil)

	row := sampleFeedRow()
	row["membership_status"] = "notJoined"
	feed, err := m.MapFeedRow(row)
	if err != nil {
		t.Fatalf("MapFeedRow: %v", err)
	}
	if feed.Joined {
		t.Error("non-active membership should not map to joined")
	}
}

func TestMapFeedRowUnknownLanguage(t *testing.T) {
	m := NewFeedMapper(nil)

	row := sampleFeedRow()
	row["language"] = "Klingon"
	_, err := m.MapFeedRow(row)

	var mapErr *utils.DataMappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("expected *DataMappingError, got %v", err)
	}
	if mapErr.ID != "1337" || mapErr.Field != "language" {
		t.Errorf("error = %+v", mapErr)
	}
}

func TestMapFeedRowBadProductCount(t *testing.T) {
	m := NewFeedMapper(nil)

	row := sampleFeedRow()
	row["no_of_products"] = "n/a"
	_, err := m.MapFeedRow(row)

	var mapErr *utils.DataMappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("expected *DataMappingError, got %v", err)
	}
	if mapErr.Field != "no_of_products" {
		t.Errorf("field = %q", mapErr.Field)
	}
}
