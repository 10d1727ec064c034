package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/affinet/awin-gateway/internal/cache"
	"github.com/affinet/awin-gateway/internal/models"
	"github.com/affinet/awin-gateway/internal/utils"
	"github.com/affinet/awin-gateway/pkg/awin"
)

// transactionStatusMapping normalizes the network's commissionStatus values.
// "declined" and "deleted" both collapse to declined; anything outside this
// table is a mapping error, never a silent default.
var transactionStatusMapping = map[string]models.TransactionStatus{
	"approved": models.StatusConfirmed,
	"declined": models.StatusDeclined,
	"deleted":  models.StatusDeclined,
	"pending":  models.StatusPending,
}

// transactionDateLayouts are tried in order when parsing transactionDate.
var transactionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// TransactionService reconciles transaction and commission-rate data from
// the network API into typed domain records. Nothing here is persisted; the
// API is queried on demand.
type TransactionService struct {
	client        *awin.Client
	rateCache     *cache.RateCache
	trackingParam string
}

// NewTransactionService constructs a TransactionService. rateCache may be
// nil to disable commission-rate caching.
func NewTransactionService(client *awin.Client, rateCache *cache.RateCache, trackingParam string) *TransactionService {
	return &TransactionService{
		client:        client,
		rateCache:     rateCache,
		trackingParam: trackingParam,
	}
}

// ListTransactions fetches the full (unpaginated) transaction report for the
// window and chunks it client-side. page is 1-indexed; a nil perPage returns
// the whole set; a page beyond the available chunks yields an empty slice.
// The second return value is the size of the full listing before chunking;
// the network offers no server-side count endpoint, so the total comes from
// the same single fetch.
//
// An omitted bound defaults to "now", so omitting both degenerates to a
// zero-width window. That sharp edge comes from the source network driver
// and is kept as documented behavior; a warning is logged instead of
// silently widening the window.
func (s *TransactionService) ListTransactions(ctx context.Context, programs []string, from, to *time.Time, page int, perPage *int) ([]models.Transaction, int, error) {
	raws, err := s.fetchTransactions(ctx, programs, from, to)
	if err != nil {
		return nil, 0, err
	}

	total := len(raws)
	raws = chunkTransactions(raws, page, perPage)

	transactions := make([]models.Transaction, 0, len(raws))
	for i := range raws {
		trx, err := s.mapTransaction(&raws[i])
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, trx)
	}
	return transactions, total, nil
}

func (s *TransactionService) fetchTransactions(ctx context.Context, programs []string, from, to *time.Time) ([]awin.RawTransaction, error) {
	now := time.Now().UTC()
	if from == nil && to == nil {
		log.Warn().Msg("transaction window omitted on both ends; defaulting to a zero-width window at now")
	}
	fromVal := now
	if from != nil {
		fromVal = *from
	}
	toVal := now
	if to != nil {
		toVal = *to
	}

	raws, err := s.client.ListTransactions(ctx, programs, fromVal, toVal)
	if err != nil {
		return nil, wrapTransport(err)
	}
	return raws, nil
}

// mapTransaction normalizes one raw transaction into the domain record.
func (s *TransactionService) mapTransaction(raw *awin.RawTransaction) (models.Transaction, error) {
	status, ok := transactionStatusMapping[raw.CommissionStatus]
	if !ok {
		return models.Transaction{}, &utils.DataMappingError{
			Source: "transaction",
			ID:     raw.ID.String(),
			Field:  "commissionStatus",
			Value:  raw.CommissionStatus,
		}
	}

	date, err := parseTransactionDate(raw.TransactionDate)
	if err != nil {
		return models.Transaction{}, &utils.DataMappingError{
			Source: "transaction",
			ID:     raw.ID.String(),
			Field:  "transactionDate",
			Value:  raw.TransactionDate,
		}
	}

	// Tracking code extraction: the configured click-ref key. Absent -> nil;
	// a present value is forwarded as-is, even when empty.
	var trackingCode *string
	if code, ok := raw.ClickRefs[s.trackingParam]; ok {
		trackingCode = &code
	}

	return models.Transaction{
		AdvertiserID:     raw.AdvertiserID.String(),
		ID:               raw.ID.String(),
		Status:           status,
		PaidToPublisher:  raw.PaidToPublisher,
		CommissionAmount: raw.CommissionAmount.Amount,
		Currency:         raw.CommissionAmount.Currency,
		TransactionDate:  date,
		TrackingCode:     trackingCode,
		Raw:              raw.Raw,
	}, nil
}

// ListCommissionRates fetches the commission groups for a program, serving
// repeated lookups from the cache, and chunks them client-side.
func (s *TransactionService) ListCommissionRates(ctx context.Context, programID string, page int, perPage *int) ([]models.CommissionRate, error) {
	rates, err := s.fetchCommissionRates(ctx, programID)
	if err != nil {
		return nil, err
	}
	return chunkRates(rates, page, perPage), nil
}

// CountCommissionRates consumes the full group listing and counts it.
func (s *TransactionService) CountCommissionRates(ctx context.Context, programID string) (int, error) {
	rates, err := s.fetchCommissionRates(ctx, programID)
	if err != nil {
		return 0, err
	}
	return len(rates), nil
}

func (s *TransactionService) fetchCommissionRates(ctx context.Context, programID string) ([]models.CommissionRate, error) {
	if s.rateCache != nil {
		if rates, ok := s.rateCache.Get(ctx, programID); ok {
			return rates, nil
		}
	}

	groups, err := s.client.ListCommissionGroups(ctx, programID)
	if err != nil {
		return nil, wrapTransport(err)
	}

	rates := make([]models.CommissionRate, 0, len(groups))
	for i := range groups {
		rates = append(rates, mapCommissionRate(programID, &groups[i]))
	}

	if s.rateCache != nil {
		if err := s.rateCache.Set(ctx, programID, rates); err != nil {
			log.Warn().Err(err).Str("program_id", programID).Msg("failed to cache commission rates")
		}
	}
	return rates, nil
}

// mapCommissionRate maps one commission group. Type "fix" becomes the fixed
// value type with the flat amount; any other type string is forwarded
// verbatim with the percentage value. The permissiveness is deliberate and
// contrasts with transaction status handling.
func mapCommissionRate(programID string, raw *awin.RawCommissionGroup) models.CommissionRate {
	var valueType models.ValueType
	var value float64
	if raw.Type == "fix" {
		valueType = models.ValueTypeFixed
		value = raw.Amount
	} else {
		valueType = models.ValueType(raw.Type)
		value = raw.Percentage
	}

	return models.CommissionRate{
		ProgramID: programID,
		GroupID:   raw.GroupID.String(),
		GroupName: raw.GroupName,
		Type:      valueType,
		Value:     value,
		Raw:       raw.Raw,
	}
}

// chunkTransactions applies 1-indexed in-memory pagination.
func chunkTransactions(items []awin.RawTransaction, page int, perPage *int) []awin.RawTransaction {
	if perPage == nil {
		return items
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * *perPage
	if start >= len(items) {
		return nil
	}
	end := start + *perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func chunkRates(items []models.CommissionRate, page int, perPage *int) []models.CommissionRate {
	if perPage == nil {
		return items
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * *perPage
	if start >= len(items) {
		return []models.CommissionRate{}
	}
	end := start + *perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// parseTransactionDate tries the layouts the report is known to use.
func parseTransactionDate(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range transactionDateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// wrapTransport converts client status errors into the application transport
// error type; other errors pass through unchanged.
func wrapTransport(err error) error {
	if se, ok := err.(*awin.StatusError); ok {
		return &utils.TransportError{Endpoint: se.Endpoint, StatusCode: se.StatusCode}
	}
	return err
}
