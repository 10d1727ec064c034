package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/affinet/awin-gateway/internal/service"
	"github.com/affinet/awin-gateway/internal/utils"
)

// TransactionHandler serves transaction and commission-rate reconciliation
// queries against the live network API.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler constructs a TransactionHandler.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// GetTransactions returns the transaction report for a window. from/to use
// RFC 3339 or `2006-01-02T15:04:05`; both omitted degenerates to a
// zero-width window at "now" (documented source behavior). per_page omitted
// returns the full set.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	programs := csvParam(c.Query("advertisers"))

	from, err := timeParam(c.Query("from"))
	if err != nil {
		utils.Error(c, 400, "INVALID_PARAMETER", "Invalid 'from' timestamp")
		return
	}
	to, err := timeParam(c.Query("to"))
	if err != nil {
		utils.Error(c, 400, "INVALID_PARAMETER", "Invalid 'to' timestamp")
		return
	}

	page := intParam(c.Query("page"), 1)
	var perPage *int
	if v := c.Query("per_page"); v != "" {
		perPage = perPageParam(v, 50)
	}

	transactions, total, err := h.transactionService.ListTransactions(c.Request.Context(), programs, from, to, page, perPage)
	if err != nil {
		writeUpstreamError(c, err, "Failed to fetch transactions")
		return
	}

	if perPage == nil {
		utils.Success(c, 200, "Transactions retrieved successfully", gin.H{"transactions": transactions, "total": total})
		return
	}
	utils.SuccessWithPagination(c, 200, "Transactions retrieved successfully", gin.H{
		"transactions": transactions,
	}, page, *perPage, total)
}

// GetCommissionRates returns the commission tiers for one program.
func (h *TransactionHandler) GetCommissionRates(c *gin.Context) {
	programID := c.Param("advertiserId")

	page := intParam(c.Query("page"), 1)
	perPage := perPageParam(c.Query("per_page"), 100)

	rates, err := h.transactionService.ListCommissionRates(c.Request.Context(), programID, page, perPage)
	if err != nil {
		writeUpstreamError(c, err, "Failed to fetch commission rates")
		return
	}

	total, err := h.transactionService.CountCommissionRates(c.Request.Context(), programID)
	if err != nil {
		writeUpstreamError(c, err, "Failed to count commission rates")
		return
	}

	if perPage == nil {
		utils.Success(c, 200, "Commission rates retrieved successfully", gin.H{"rates": rates, "total": total})
		return
	}
	utils.SuccessWithPagination(c, 200, "Commission rates retrieved successfully", gin.H{
		"rates": rates,
	}, page, *perPage, total)
}

// writeUpstreamError distinguishes transport failures and mapping failures
// from internal ones for API consumers.
func writeUpstreamError(c *gin.Context, err error, message string) {
	var te *utils.TransportError
	if errors.As(err, &te) {
		utils.Error(c, 502, "UPSTREAM_ERROR", message)
		return
	}
	if utils.IsMappingError(err) {
		utils.Error(c, 502, "UPSTREAM_DATA_ERROR", err.Error())
		return
	}
	utils.Error(c, 500, "INTERNAL_ERROR", message)
}

// timeParam parses an optional timestamp query value.
func timeParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unrecognized timestamp format")
}
