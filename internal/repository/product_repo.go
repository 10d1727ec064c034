package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/affinet/awin-gateway/internal/models"
)

// searchResultCap is the hard upper bound on the number of full-text matches
// fed into the id restriction, keeping the subquery below the backing
// store's IN-clause cardinality limit. A storage constraint, not a business
// rule.
const searchResultCap = 65533

// ProductFilter narrows catalog queries. Nil/empty slices and the empty
// keyword mean "no restriction" for their dimension.
type ProductFilter struct {
	Programs  []string // advertiser ids
	Keyword   string
	Languages []string // ISO 639-1 codes
}

// ProductRepository handles data access for the product catalog.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// selectColumns eager-loads the owning feed on every row: the domain
// product's tracking URL and program are derived from the feed's advertiser
// identity.
const selectColumns = `
        p.id, p.feed_ref, p.product_id, p.title, p.description, p.image_url,
        p.price, p.currency, p.details_link, p.extra, p.last_updated_at, p.created_at,
        f.id AS "feed.id",
        f.feed_id AS "feed.feed_id",
        f.advertiser_id AS "feed.advertiser_id",
        f.advertiser_name AS "feed.advertiser_name",
        f.joined AS "feed.joined",
        f.products_count AS "feed.products_count",
        f.imported_at AS "feed.imported_at",
        f.region AS "feed.region",
        f.language AS "feed.language",
        f.created_at AS "feed.created_at",
        f.updated_at AS "feed.updated_at"`

// buildWhere translates a filter into a WHERE clause with numbered args.
// Program and language restrictions are correlated existence checks against
// the feeds table rather than joins, so a feed can never multiply product
// rows.
func buildWhere(filter *ProductFilter) (string, []interface{}) {
	where := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Keyword != "" {
		where += fmt.Sprintf(` AND p.id IN (
            SELECT id FROM products
            WHERE search_vector @@ plainto_tsquery('simple', $%d)
            LIMIT %d)`, argIdx, searchResultCap)
		args = append(args, filter.Keyword)
		argIdx++
	}
	if filter.Programs != nil {
		where += fmt.Sprintf(` AND EXISTS (
            SELECT 1 FROM feeds
            WHERE feeds.id = p.feed_ref AND feeds.advertiser_id = ANY($%d))`, argIdx)
		args = append(args, pq.Array(filter.Programs))
		argIdx++
	}
	if filter.Languages != nil {
		where += fmt.Sprintf(` AND EXISTS (
            SELECT 1 FROM feeds
            WHERE feeds.id = p.feed_ref AND feeds.language = ANY($%d))`, argIdx)
		args = append(args, pq.Array(filter.Languages))
		argIdx++
	}

	return where, args
}

// Count returns the number of catalog rows matching the filter.
func (r *ProductRepository) Count(filter *ProductFilter) (int, error) {
	where, args := buildWhere(filter)

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM products p `+where, args...); err != nil {
		return 0, err
	}
	return total, nil
}

// buildSelectQuery assembles the eager-join select for a filter. page is
// 1-indexed; a nil perPage emits no LIMIT/OFFSET clause, returning the full
// matching set.
func buildSelectQuery(filter *ProductFilter, page int, perPage *int) (string, []interface{}) {
	where, args := buildWhere(filter)

	q := `SELECT ` + selectColumns + `
        FROM products p
        JOIN feeds f ON f.id = p.feed_ref
        ` + where + `
        ORDER BY p.id`

	if perPage != nil {
		offset := (page - 1) * *perPage
		q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, *perPage, offset)
	}
	return q, args
}

// Query returns catalog rows matching the filter, each joined with its
// owning feed. page is 1-indexed; a nil perPage returns the full matching
// set. A page beyond the available data yields an empty slice, never an
// error.
func (r *ProductRepository) Query(filter *ProductFilter, page int, perPage *int) ([]models.ProductRecord, error) {
	if page <= 0 {
		page = 1
	}

	q, args := buildSelectQuery(filter, page, perPage)

	products := []models.ProductRecord{}
	if err := r.db.Select(&products, q, args...); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByProductID returns a single catalog row by its network product_id
// joined with its feed, or nil when absent.
func (r *ProductRepository) GetByProductID(productID string) (*models.ProductRecord, error) {
	q := `SELECT ` + selectColumns + `
        FROM products p
        JOIN feeds f ON f.id = p.feed_ref
        WHERE p.product_id = $1
        LIMIT 1`

	var p models.ProductRecord
	if err := r.db.Get(&p, q, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ReplaceForFeed atomically swaps a feed's products for a freshly imported
// set. Either the whole import lands or the previously imported catalog
// stays untouched.
func (r *ProductRepository) ReplaceForFeed(feedRef int, products []models.ProductRecord) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM products WHERE feed_ref = $1`, feedRef); err != nil {
		return err
	}

	const insert = `
        INSERT INTO products (feed_ref, product_id, title, description, image_url,
                              price, currency, details_link, extra, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	stmt, err := tx.Preparex(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range products {
		p := &products[i]
		if _, err := stmt.Exec(
			feedRef,
			p.ProductID,
			p.Title,
			p.Description,
			p.ImageURL,
			p.Price,
			p.Currency,
			p.DetailsLink,
			p.Extra,
			p.LastUpdatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
