package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/affinet/awin-gateway/internal/service"
	"github.com/affinet/awin-gateway/internal/utils"
	"github.com/affinet/awin-gateway/pkg/awin"
)

// newTransactionTestRouter builds a gin router whose transaction routes are
// backed by a stub network API.
func newTransactionTestRouter(t *testing.T, upstream http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := awin.NewClient("token", "45628", "feed-key")
	client.SetBaseURLs(srv.URL, srv.URL)
	h := NewTransactionHandler(service.NewTransactionService(client, nil, "clickRef"))

	router := gin.New()
	router.GET("/v1/transactions", h.GetTransactions)
	router.GET("/v1/programs/:advertiserId/commission-rates", h.GetCommissionRates)
	return router
}

func TestGetTransactions(t *testing.T) {
	var query map[string][]string
	router := newTransactionTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`[
			{
				"id": 1, "advertiserId": 7052, "commissionStatus": "approved",
				"commissionAmount": {"amount": 5.59, "currency": "GBP"},
				"paidToPublisher": true,
				"transactionDate": "2017-02-20T22:04:00",
				"clickRefs": {"clickRef": "campaign-a"}
			}
		]`))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/v1/transactions?advertisers=7052,7053&from=2017-02-20&to=2017-02-21", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := query["advertiserId"]; len(got) != 1 || got[0] != "7052,7053" {
		t.Errorf("advertiserId = %v", got)
	}
	if got := query["startDate"]; len(got) != 1 || got[0] != "2017-02-20T00:00:00" {
		t.Errorf("startDate = %v", got)
	}

	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Errorf("success = false: %s", w.Body.String())
	}
	// per_page omitted: full set, no pagination metadata.
	if resp.Meta.Pagination != nil {
		t.Errorf("pagination = %+v, want none", resp.Meta.Pagination)
	}
}

func TestGetTransactionsPaginationMeta(t *testing.T) {
	router := newTransactionTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		items := make([]string, 0, 25)
		for i := 1; i <= 25; i++ {
			items = append(items, fmt.Sprintf(`{
				"id": %d, "advertiserId": 7052, "commissionStatus": "pending",
				"commissionAmount": {"amount": 1, "currency": "GBP"},
				"transactionDate": "2017-02-20T22:04:00",
				"clickRefs": {}
			}`, i))
		}
		fmt.Fprintf(w, "[%s]", strings.Join(items, ","))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/v1/transactions?from=2017-02-20&to=2017-02-21&page=1&per_page=10", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Transactions []struct {
				ID string `json:"id"`
			} `json:"transactions"`
		} `json:"data"`
		Meta utils.Meta `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Transactions) != 10 {
		t.Errorf("page length = %d, want 10", len(resp.Data.Transactions))
	}
	if resp.Meta.Pagination == nil {
		t.Fatal("pagination metadata missing")
	}
	// The total counts the full window, not the returned page.
	if resp.Meta.Pagination.TotalItems != 25 {
		t.Errorf("totalItems = %d, want 25", resp.Meta.Pagination.TotalItems)
	}
	if resp.Meta.Pagination.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", resp.Meta.Pagination.TotalPages)
	}
}

func TestGetTransactionsInvalidTimestamp(t *testing.T) {
	router := newTransactionTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/transactions?from=yesterday", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "INVALID_PARAMETER" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestGetTransactionsUpstreamFailure(t *testing.T) {
	router := newTransactionTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/transactions?from=2017-02-20&to=2017-02-21", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "UPSTREAM_ERROR" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestGetTransactionsUnmappableStatus(t *testing.T) {
	router := newTransactionTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{
				"id": 1, "advertiserId": 7052, "commissionStatus": "bonus",
				"commissionAmount": {"amount": 1, "currency": "GBP"},
				"transactionDate": "2017-02-20T22:04:00",
				"clickRefs": {}
			}
		]`))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/transactions?from=2017-02-20&to=2017-02-21", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "UPSTREAM_DATA_ERROR" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestGetCommissionRates(t *testing.T) {
	router := newTransactionTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"advertiser": 7052,
			"commissionGroups": [
				{"groupId": 147, "groupName": "Flights", "type": "fix", "amount": 5},
				{"groupId": 148, "groupName": "Hotels", "type": "percentage", "percentage": 7.5}
			]
		}`))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/programs/7052/commission-rates?per_page=1&page=2", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Rates []struct {
				GroupID string `json:"groupId"`
			} `json:"rates"`
		} `json:"data"`
		Meta utils.Meta `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Rates) != 1 || resp.Data.Rates[0].GroupID != "148" {
		t.Errorf("rates = %+v", resp.Data.Rates)
	}
	if resp.Meta.Pagination == nil {
		t.Fatal("pagination metadata missing")
	}
	if resp.Meta.Pagination.TotalItems != 2 || resp.Meta.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v", resp.Meta.Pagination)
	}
}
