package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/affinet/awin-gateway/internal/repository"
	"github.com/affinet/awin-gateway/internal/service"
	"github.com/affinet/awin-gateway/internal/utils"
)

// ProductHandler serves catalog queries.
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// GetProducts returns a filtered, paginated slice of the catalog.
// per_page=0 requests the full unpaginated result set.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := &repository.ProductFilter{
		Programs:  csvParam(c.Query("advertisers")),
		Keyword:   c.Query("keyword"),
		Languages: csvParam(c.Query("languages")),
	}
	trackingCode := c.Query("tracking_code")

	page := intParam(c.Query("page"), 1)
	perPage := perPageParam(c.Query("per_page"), 50)

	total, err := h.catalogService.CountProducts(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to count products")
		return
	}

	products, err := h.catalogService.QueryProducts(filter, trackingCode, page, perPage)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to query products")
		return
	}

	if perPage == nil {
		utils.Success(c, 200, "Products retrieved successfully", gin.H{"products": products, "total": total})
		return
	}
	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, page, *perPage, total)
}

// GetProduct returns one product by its network product id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Param("productId"), c.Query("tracking_code"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to get product")
		return
	}
	if product == nil {
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", product)
}

// GetFeeds returns all known feeds.
func (h *ProductHandler) GetFeeds(c *gin.Context) {
	feeds, err := h.catalogService.ListFeeds()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list feeds")
		return
	}
	utils.Success(c, 200, "Feeds retrieved successfully", gin.H{"feeds": feeds})
}

// csvParam splits a comma-separated query value; empty input yields nil,
// which downstream means "no restriction".
func csvParam(v string) []string {
	if v == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func intParam(v string, def int) int {
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return def
}

// perPageParam parses per_page: absent -> the default, "0" -> nil
// (unpaginated), anything else -> the parsed positive value.
func perPageParam(v string, def int) *int {
	if v == "" {
		return &def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return &def
	}
	if n == 0 {
		return nil
	}
	return &n
}
