package service

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/affinet/awin-gateway/internal/models"
	"github.com/affinet/awin-gateway/internal/repository"
	"github.com/affinet/awin-gateway/pkg/awin"
)

// CatalogService serves read queries over the ingested product catalog and
// converts rows to domain products. Every returned product carries its
// program and an outbound tracking URL derived from the owning feed's
// advertiser id plus the configured publisher identity; no other state is
// consulted.
type CatalogService struct {
	productRepo *repository.ProductRepository
	feedRepo    *repository.FeedRepository
	tracking    awin.Tracking
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(productRepo *repository.ProductRepository, feedRepo *repository.FeedRepository, tracking awin.Tracking) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		feedRepo:    feedRepo,
		tracking:    tracking,
	}
}

// CountProducts returns the number of catalog products matching the filter.
func (s *CatalogService) CountProducts(filter *repository.ProductFilter) (int, error) {
	return s.productRepo.Count(filter)
}

// QueryProducts returns one page of matching products as domain objects.
// page is 1-indexed; nil perPage returns the full matching set; a page
// beyond the data yields an empty slice.
func (s *CatalogService) QueryProducts(filter *repository.ProductFilter, trackingCode string, page int, perPage *int) ([]models.Product, error) {
	records, err := s.productRepo.Query(filter, page, perPage)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(records))
	for i := range records {
		products = append(products, s.productFromRecord(&records[i], trackingCode))
	}
	return products, nil
}

// GetProduct is an exact-match lookup on the network product id. Absence is
// a nil result, not an error.
func (s *CatalogService) GetProduct(productID, trackingCode string) (*models.Product, error) {
	record, err := s.productRepo.GetByProductID(productID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	product := s.productFromRecord(record, trackingCode)
	return &product, nil
}

// ListFeeds returns all known feeds.
func (s *CatalogService) ListFeeds() ([]models.Feed, error) {
	return s.feedRepo.GetAll()
}

// productFromRecord converts a catalog row (with its eager-loaded feed) to
// the domain product.
func (s *CatalogService) productFromRecord(rec *models.ProductRecord, trackingCode string) models.Product {
	price, err := strconv.ParseFloat(rec.Price, 64)
	if err != nil && rec.Price != "" {
		log.Warn().Str("product_id", rec.ProductID).Str("price", rec.Price).Msg("unparseable price on catalog row")
	}

	return models.Product{
		Program:     rec.Feed.Program(),
		ProductID:   rec.ProductID,
		Title:       rec.Title,
		Description: rec.Description,
		ImageURL:    rec.ImageURL,
		Price:       price,
		Currency:    rec.Currency,
		DetailsURL:  rec.DetailsLink,
		TrackingURL: s.tracking.ProductURL(rec.Feed.AdvertiserID, rec.ProductID, trackingCode),
		Extra:       rec.Extra,
	}
}
