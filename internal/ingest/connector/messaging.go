package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aura-backend/internal/ingest/domain"

	"github.com/google/uuid"
)

// MessagingConnector pulls chat messages from a WhatsApp-Business-style
// graph API: GET {base}/{phoneNumberID}/messages with cursor paging.
type MessagingConnector struct {
	baseURL       string
	phoneNumberID string
	lookback      time.Duration
	batchSize     int
	client        *http.Client
}

func NewMessagingConnector(baseURL, phoneNumberID string, lookback time.Duration, batchSize int) *MessagingConnector {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &MessagingConnector{
		baseURL:       baseURL,
		phoneNumberID: phoneNumberID,
		lookback:      lookback,
		batchSize:     batchSize,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *MessagingConnector) SourceType() domain.SourceType {
	return domain.SourceMessaging
}

type messagingMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      struct {
		Body string `json:"body"`
	} `json:"text"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type messagingResponse struct {
	Data   []messagingMessage `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next string `json:"next"`
	} `json:"paging"`
}

func (m *MessagingConnector) FetchSince(ctx context.Context, userID, accessToken, watermark string) (*Page, error) {
	wm := decodeMark(watermark, m.lookback)

	endpoint := fmt.Sprintf("%s/%s/messages", m.baseURL, m.phoneNumberID)
	params := url.Values{}
	params.Set("since", wm.Since.UTC().Format("2006-01-02T15:04:05"))
	params.Set("limit", strconv.Itoa(m.batchSize))
	if wm.Page != "" {
		params.Set("after", wm.Page)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransient, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch messages: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransient, err)
	}
	if classed := classifyStatus(resp.StatusCode); classed != nil {
		return nil, fmt.Errorf("%w: messaging API returned %d: %s", classed, resp.StatusCode, truncate(body, 200))
	}

	var parsed messagingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrTransient, err)
	}

	items := make([]*domain.IngestItem, 0, len(parsed.Data))
	for _, msg := range parsed.Data {
		item, err := m.parseMessage(userID, msg)
		if err != nil {
			log.Printf("[MessagingConnector] skipping malformed message %q: %v", msg.ID, err)
			continue
		}
		items = append(items, item)
	}

	page := &Page{Items: items}
	if parsed.Paging.Next != "" && parsed.Paging.Cursors.After != "" {
		page.HasMore = true
		page.NextWatermark = mark{Since: wm.Since, Page: parsed.Paging.Cursors.After}.encode()
	} else {
		page.NextWatermark = mark{Since: time.Now()}.encode()
	}
	return page, nil
}

func (m *MessagingConnector) parseMessage(userID string, msg messagingMessage) (*domain.IngestItem, error) {
	if msg.ID == "" {
		return nil, fmt.Errorf("message has no id")
	}

	occurred := time.Now()
	if msg.Timestamp != "" {
		if epoch, err := strconv.ParseInt(msg.Timestamp, 10, 64); err == nil {
			occurred = time.Unix(epoch, 0)
		} else if parsed, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
			occurred = parsed
		} else {
			return nil, fmt.Errorf("unparseable timestamp %q", msg.Timestamp)
		}
	}

	return &domain.IngestItem{
		ID:         uuid.New().String(),
		UserID:     userID,
		SourceType: domain.SourceMessaging,
		ExternalID: msg.ID,
		OccurredAt: occurred,
		RawText:    msg.Text.Body,
		Metadata: domain.Metadata{Messaging: &domain.MessagingMetadata{
			From:       msg.From,
			To:         msg.To,
			SenderName: msg.Profile.Name,
		}},
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
