package connector

import (
	"context"
	"errors"
	"net/http"

	"aura-backend/internal/ingest/domain"
)

// Failure classes a connector can report. Callers test with errors.Is;
// connectors wrap the sentinel with the underlying cause.
var (
	// ErrAuthExpired means the credential is invalid or expired. Not
	// retryable here; re-authorization happens outside the pipeline.
	ErrAuthExpired = errors.New("credential expired or invalid")
	// ErrRateLimited means the upstream asked us to back off
	ErrRateLimited = errors.New("rate limited by source")
	// ErrTransient covers network and upstream 5xx failures
	ErrTransient = errors.New("transient source failure")
)

// Page is one batch of items from a source. NextWatermark is opaque and
// restartable: feeding it back into FetchSince resumes after this page.
type Page struct {
	Items []*domain.IngestItem
	// NextWatermark must be persisted only after the page's items are.
	NextWatermark string
	HasMore       bool
	// EstimatedTotal is the source's estimate of items in the whole window,
	// 0 when the source cannot report one.
	EstimatedTotal int
}

// Connector adapts one third-party source into canonical ingest items.
//
// FetchSince must be idempotent: fetching the same window twice yields
// items with identical ExternalIDs so downstream upsert is safe. A parse
// failure on a single item is logged and skipped, never fatal to the page.
type Connector interface {
	SourceType() domain.SourceType
	FetchSince(ctx context.Context, userID, accessToken, watermark string) (*Page, error)
}

// Retryable reports whether err is worth another attempt
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}

// classifyStatus maps an HTTP status to a failure class (nil for 2xx)
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuthExpired
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrTransient
	}
}
