package awin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListTransactions(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": 259630312,
				"advertiserId": 7052,
				"commissionStatus": "pending",
				"commissionAmount": {"amount": 5.59, "currency": "GBP"},
				"saleAmount": {"amount": 55.96, "currency": "GBP"},
				"paidToPublisher": false,
				"transactionDate": "2017-02-20T22:04:00",
				"clickRefs": {"clickRef": "campaign-a"}
			}
		]`))
	}))
	defer srv.Close()

	c := NewClient("secret-token", "45628", "feed-key")
	c.SetBaseURLs(srv.URL, srv.URL)

	from := time.Date(2017, 2, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2017, 2, 21, 0, 0, 0, 0, time.UTC)
	trx, err := c.ListTransactions(context.Background(), []string{"7052", "7053"}, from, to)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}

	if gotPath != "/publishers/45628/transactions/" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	wantQuery := map[string]string{
		"timezone":     "UTC",
		"startDate":    "2017-02-20T00:00:00",
		"endDate":      "2017-02-21T00:00:00",
		"advertiserId": "7052,7053",
	}
	for k, want := range wantQuery {
		if got := gotQuery[k]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s = %v, want %q", k, got, want)
		}
	}

	if len(trx) != 1 {
		t.Fatalf("got %d transactions, want 1", len(trx))
	}
	got := trx[0]
	if got.ID.String() != "259630312" || got.AdvertiserID.String() != "7052" {
		t.Errorf("ids = %s/%s", got.ID, got.AdvertiserID)
	}
	if got.CommissionStatus != "pending" {
		t.Errorf("commissionStatus = %q", got.CommissionStatus)
	}
	if got.CommissionAmount.Amount != 5.59 || got.CommissionAmount.Currency != "GBP" {
		t.Errorf("commissionAmount = %+v", got.CommissionAmount)
	}
	if got.ClickRefs["clickRef"] != "campaign-a" {
		t.Errorf("clickRefs = %v", got.ClickRefs)
	}
	if len(got.Raw) == 0 {
		t.Error("raw payload was not preserved")
	}
}

func TestListTransactionsOmitsAdvertiserFilterWhenNil(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("k", "1", "fk")
	c.SetBaseURLs(srv.URL, srv.URL)

	now := time.Now().UTC()
	if _, err := c.ListTransactions(context.Background(), nil, now, now); err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if _, ok := query["advertiserId"]; ok {
		t.Errorf("advertiserId sent for nil filter: %v", query["advertiserId"])
	}
}

func TestListTransactionsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("k", "1", "fk")
	c.SetBaseURLs(srv.URL, srv.URL)

	now := time.Now().UTC()
	_, err := c.ListTransactions(context.Background(), nil, now, now)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	// Even a 2xx other than 200 is rejected.
	if se.StatusCode != http.StatusCreated {
		t.Errorf("status = %d", se.StatusCode)
	}
}

func TestListCommissionGroups(t *testing.T) {
	var gotPath string
	var gotAdvertiser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAdvertiser = r.URL.Query().Get("advertiserId")
		w.Write([]byte(`{
			"advertiser": 7052,
			"commissionGroups": [
				{"groupId": 147, "groupName": "Flights", "type": "fix", "amount": 5, "currency": "GBP"},
				{"groupId": 148, "groupName": "Hotels", "type": "percentage", "percentage": 7.5}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("k", "45628", "fk")
	c.SetBaseURLs(srv.URL, srv.URL)

	groups, err := c.ListCommissionGroups(context.Background(), "7052")
	if err != nil {
		t.Fatalf("ListCommissionGroups: %v", err)
	}
	if gotPath != "/publishers/45628/commissiongroups" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAdvertiser != "7052" {
		t.Errorf("advertiserId = %q", gotAdvertiser)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].GroupID.String() != "147" || groups[0].Type != "fix" || groups[0].Amount != 5 {
		t.Errorf("groups[0] = %+v", groups[0])
	}
	if groups[1].Type != "percentage" || groups[1].Percentage != 7.5 {
		t.Errorf("groups[1] = %+v", groups[1])
	}
	if len(groups[0].Raw) == 0 {
		t.Error("raw payload was not preserved")
	}
}
