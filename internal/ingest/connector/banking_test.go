package connector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aura-backend/internal/ingest/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankingConnectorFetchSince(t *testing.T) {
	var gotRequest map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions/get", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode(bankingResponse{
			TotalTransactions: 3,
			Transactions: []bankingTransaction{
				{
					TransactionID: "tx-1",
					AccountID:     "acc-1",
					Amount:        1500,
					ISOCurrency:   "USD",
					Date:          "2024-03-01",
					Name:          "Rent payment",
					MerchantName:  "Springfield Rentals",
					Category:      []string{"Rent"},
				},
				{
					TransactionID: "tx-2",
					Amount:        89.5,
					Date:          "2024-03-02",
					Name:          "Electric bill",
				},
				{TransactionID: "", Date: "bogus"}, // malformed, skipped
			},
		})
	}))
	defer server.Close()

	conn := NewBankingConnector(server.URL, "client", "secret", 30*24*time.Hour, 100)
	page, err := conn.FetchSince(context.Background(), "user-1", "access-token", "")
	require.NoError(t, err)

	assert.Equal(t, "access-token", gotRequest["access_token"])
	assert.Equal(t, "client", gotRequest["client_id"])

	require.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.EstimatedTotal)
	assert.False(t, page.HasMore)

	first := page.Items[0]
	assert.Equal(t, domain.SourceBanking, first.SourceType)
	assert.Equal(t, "tx-1", first.ExternalID)
	assert.Equal(t, "Rent payment Springfield Rentals", first.RawText)
	require.NotNil(t, first.Metadata.Banking)
	assert.InDelta(t, 1500.0, first.Metadata.Banking.Amount, 0.001)
	assert.Equal(t, "USD", first.Metadata.Banking.Currency)
	assert.Equal(t, "2024-03-01", first.OccurredAt.Format("2006-01-02"))
}

func TestBankingConnectorOffsetPaging(t *testing.T) {
	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		offset := int(req["options"].(map[string]interface{})["offset"].(float64))

		resp := bankingResponse{TotalTransactions: 2}
		if offset == 0 {
			resp.Transactions = []bankingTransaction{{TransactionID: "tx-1", Date: "2024-03-01", Name: "one"}}
		} else {
			resp.Transactions = []bankingTransaction{{TransactionID: "tx-2", Date: "2024-03-02", Name: "two"}}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	conn := NewBankingConnector(server.URL, "client", "secret", 30*24*time.Hour, 1)

	page1, err := conn.FetchSince(context.Background(), "user-1", "tok", "")
	require.NoError(t, err)
	require.True(t, page1.HasMore)
	require.Len(t, page1.Items, 1)

	page2, err := conn.FetchSince(context.Background(), "user-1", "tok", page1.NextWatermark)
	require.NoError(t, err)
	assert.False(t, page2.HasMore)
	require.Len(t, page2.Items, 1)
	assert.Equal(t, "tx-2", page2.Items[0].ExternalID)
	assert.Equal(t, 2, call)
}

func TestBankingConnectorErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuthExpired},
		{"forbidden", http.StatusForbidden, ErrAuthExpired},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			conn := NewBankingConnector(server.URL, "client", "secret", time.Hour, 10)
			_, err := conn.FetchSince(context.Background(), "user-1", "tok", "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
