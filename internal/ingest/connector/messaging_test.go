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

func messagingPayload(next, after string, messages ...messagingMessage) []byte {
	var resp messagingResponse
	resp.Data = messages
	resp.Paging.Next = next
	resp.Paging.Cursors.After = after
	raw, _ := json.Marshal(resp)
	return raw
}

func TestMessagingConnectorFetchSince(t *testing.T) {
	var gotAuth, gotAfter string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/phone-1/messages", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotAfter = r.URL.Query().Get("after")

		msg := messagingMessage{
			ID:        "msg-1",
			From:      "+15551234567",
			Timestamp: "1709290800",
			Type:      "text",
		}
		msg.Text.Body = "the plumber comes Tuesday"
		msg.Profile.Name = "Ace Plumbing Co"

		bad := messagingMessage{ID: "msg-2", Timestamp: "not-a-time"}

		w.Write(messagingPayload("", "", msg, bad))
	}))
	defer server.Close()

	conn := NewMessagingConnector(server.URL, "phone-1", 30*24*time.Hour, 50)
	page, err := conn.FetchSince(context.Background(), "user-1", "tok-123", "")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Empty(t, gotAfter)

	// the malformed timestamp message is skipped, not fatal
	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, domain.SourceMessaging, item.SourceType)
	assert.Equal(t, "msg-1", item.ExternalID)
	assert.Equal(t, "the plumber comes Tuesday", item.RawText)
	require.NotNil(t, item.Metadata.Messaging)
	assert.Equal(t, "Ace Plumbing Co", item.Metadata.Messaging.SenderName)
	assert.False(t, page.HasMore)
}

func TestMessagingConnectorCursorPaging(t *testing.T) {
	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		if r.URL.Query().Get("after") == "" {
			msg := messagingMessage{ID: "msg-1", Timestamp: "1709290800"}
			w.Write(messagingPayload("https://next", "cursor-1", msg))
			return
		}
		require.Equal(t, "cursor-1", r.URL.Query().Get("after"))
		msg := messagingMessage{ID: "msg-2", Timestamp: "1709290900"}
		w.Write(messagingPayload("", "", msg))
	}))
	defer server.Close()

	conn := NewMessagingConnector(server.URL, "phone-1", time.Hour, 50)

	page1, err := conn.FetchSince(context.Background(), "user-1", "tok", "")
	require.NoError(t, err)
	require.True(t, page1.HasMore)

	page2, err := conn.FetchSince(context.Background(), "user-1", "tok", page1.NextWatermark)
	require.NoError(t, err)
	assert.False(t, page2.HasMore)
	require.Len(t, page2.Items, 1)
	assert.Equal(t, "msg-2", page2.Items[0].ExternalID)
	assert.Equal(t, 2, call)
}

func TestMessagingConnectorAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	conn := NewMessagingConnector(server.URL, "phone-1", time.Hour, 50)
	_, err := conn.FetchSince(context.Background(), "user-1", "bad-token", "")
	assert.ErrorIs(t, err, ErrAuthExpired)
}
