package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"aura-backend/internal/ingest/domain"

	"github.com/google/uuid"
)

// BankingConnector pulls transactions from a Plaid-style API:
// POST {base}/transactions/get with offset paging and a known total,
// one ingest item per transaction.
type BankingConnector struct {
	baseURL   string
	clientID  string
	secret    string
	lookback  time.Duration
	batchSize int
	client    *http.Client
}

func NewBankingConnector(baseURL, clientID, secret string, lookback time.Duration, batchSize int) *BankingConnector {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &BankingConnector{
		baseURL:   baseURL,
		clientID:  clientID,
		secret:    secret,
		lookback:  lookback,
		batchSize: batchSize,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *BankingConnector) SourceType() domain.SourceType {
	return domain.SourceBanking
}

type bankingTransaction struct {
	TransactionID string   `json:"transaction_id"`
	AccountID     string   `json:"account_id"`
	Amount        float64  `json:"amount"`
	ISOCurrency   string   `json:"iso_currency_code"`
	Date          string   `json:"date"`
	Name          string   `json:"name"`
	MerchantName  string   `json:"merchant_name"`
	Category      []string `json:"category"`
	Pending       bool     `json:"pending"`
}

type bankingResponse struct {
	Transactions      []bankingTransaction `json:"transactions"`
	TotalTransactions int                  `json:"total_transactions"`
}

func (b *BankingConnector) FetchSince(ctx context.Context, userID, accessToken, watermark string) (*Page, error) {
	wm := decodeMark(watermark, b.lookback)

	payload := map[string]interface{}{
		"client_id":    b.clientID,
		"secret":       b.secret,
		"access_token": accessToken,
		"start_date":   wm.Since.Format("2006-01-02"),
		"end_date":     time.Now().Format("2006-01-02"),
		"options": map[string]interface{}{
			"count":  b.batchSize,
			"offset": wm.Offset,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrTransient, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/transactions/get", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransient, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch transactions: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransient, err)
	}
	if classed := classifyStatus(resp.StatusCode); classed != nil {
		return nil, fmt.Errorf("%w: banking API returned %d: %s", classed, resp.StatusCode, truncate(respBody, 200))
	}

	var parsed bankingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrTransient, err)
	}

	items := make([]*domain.IngestItem, 0, len(parsed.Transactions))
	for _, tx := range parsed.Transactions {
		item, err := b.parseTransaction(userID, tx)
		if err != nil {
			log.Printf("[BankingConnector] skipping malformed transaction %q: %v", tx.TransactionID, err)
			continue
		}
		items = append(items, item)
	}

	fetched := wm.Offset + len(parsed.Transactions)
	page := &Page{Items: items, EstimatedTotal: parsed.TotalTransactions}
	if fetched < parsed.TotalTransactions && len(parsed.Transactions) > 0 {
		page.HasMore = true
		page.NextWatermark = mark{Since: wm.Since, Offset: fetched}.encode()
	} else {
		page.NextWatermark = mark{Since: time.Now()}.encode()
	}
	return page, nil
}

func (b *BankingConnector) parseTransaction(userID string, tx bankingTransaction) (*domain.IngestItem, error) {
	if tx.TransactionID == "" {
		return nil, fmt.Errorf("transaction has no id")
	}

	occurred, err := time.Parse("2006-01-02", tx.Date)
	if err != nil {
		return nil, fmt.Errorf("unparseable date %q", tx.Date)
	}

	rawText := tx.Name
	if tx.MerchantName != "" && !strings.EqualFold(tx.MerchantName, tx.Name) {
		rawText = tx.Name + " " + tx.MerchantName
	}

	return &domain.IngestItem{
		ID:         uuid.New().String(),
		UserID:     userID,
		SourceType: domain.SourceBanking,
		ExternalID: tx.TransactionID,
		OccurredAt: occurred,
		RawText:    rawText,
		Metadata: domain.Metadata{Banking: &domain.BankingMetadata{
			AccountID:  tx.AccountID,
			Merchant:   tx.MerchantName,
			Name:       tx.Name,
			Amount:     tx.Amount,
			Currency:   tx.ISOCurrency,
			Categories: tx.Category,
			Pending:    tx.Pending,
		}},
	}, nil
}
