package connector

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"aura-backend/internal/ingest/domain"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GmailConnector pulls mail through the Gmail REST API. The access token is
// injected per call; refresh is the credential provider's job.
type GmailConnector struct {
	lookback  time.Duration
	batchSize int64
}

func NewGmailConnector(lookback time.Duration, batchSize int) *GmailConnector {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &GmailConnector{lookback: lookback, batchSize: int64(batchSize)}
}

func (g *GmailConnector) SourceType() domain.SourceType {
	return domain.SourceMail
}

func (g *GmailConnector) FetchSince(ctx context.Context, userID, accessToken, watermark string) (*Page, error) {
	m := decodeMark(watermark, g.lookback)

	srv, err := g.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := srv.Users.Messages.List("me").
		Q("after:" + m.Since.Format("2006/01/02")).
		MaxResults(g.batchSize).
		Context(ctx)
	if m.Page != "" {
		call = call.PageToken(m.Page)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, classifyGoogleError("list messages", err)
	}

	items := make([]*domain.IngestItem, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		full, err := srv.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, classifyGoogleError("get message", err)
		}

		item, err := g.parseMessage(userID, full)
		if err != nil {
			// malformed single item: skip, never fatal to the page
			log.Printf("[GmailConnector] skipping malformed message %s: %v", ref.Id, err)
			continue
		}
		items = append(items, item)
	}

	page := &Page{Items: items, EstimatedTotal: int(resp.ResultSizeEstimate)}
	if resp.NextPageToken != "" {
		page.HasMore = true
		page.NextWatermark = mark{Since: m.Since, Page: resp.NextPageToken}.encode()
	} else {
		page.NextWatermark = mark{Since: time.Now()}.encode()
	}
	return page, nil
}

func (g *GmailConnector) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	srv, err := gmail.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("%w: create gmail service: %v", ErrTransient, err)
	}
	return srv, nil
}

func (g *GmailConnector) parseMessage(userID string, msg *gmail.Message) (*domain.IngestItem, error) {
	if msg.Payload == nil {
		return nil, fmt.Errorf("message %s has no payload", msg.Id)
	}

	meta := &domain.MailMetadata{}
	for _, h := range msg.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			meta.From = h.Value
			if addr, err := mail.ParseAddress(h.Value); err == nil {
				meta.From = addr.Address
				meta.FromName = addr.Name
			}
		case "to":
			meta.To = h.Value
		case "subject":
			meta.Subject = h.Value
		case "content-language":
			meta.Locale = h.Value
		}
	}

	body := extractTextBody(msg.Payload)
	rawText := meta.Subject
	if body != "" {
		rawText = meta.Subject + "\n" + body
	}

	var attachments []domain.Attachment
	for _, part := range flattenParts(msg.Payload) {
		if part.Filename != "" && part.Body != nil {
			attachments = append(attachments, domain.Attachment{
				Filename:    part.Filename,
				ContentType: part.MimeType,
				Size:        part.Body.Size,
				ExternalRef: part.Body.AttachmentId,
			})
		}
	}

	occurred := time.UnixMilli(msg.InternalDate)
	if msg.InternalDate == 0 {
		occurred = time.Now()
	}

	return &domain.IngestItem{
		ID:          uuid.New().String(),
		UserID:      userID,
		SourceType:  domain.SourceMail,
		ExternalID:  msg.Id,
		OccurredAt:  occurred,
		RawText:     rawText,
		Metadata:    domain.Metadata{Mail: meta},
		Attachments: attachments,
	}, nil
}

// extractTextBody walks the MIME tree for the first text/plain part
func extractTextBody(payload *gmail.MessagePart) string {
	for _, part := range flattenParts(payload) {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			decoded, err := base64.URLEncoding.DecodeString(part.Body.Data)
			if err != nil {
				continue
			}
			return string(decoded)
		}
	}
	if payload.Body != nil && payload.Body.Data != "" {
		if decoded, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(decoded)
		}
	}
	return ""
}

func flattenParts(payload *gmail.MessagePart) []*gmail.MessagePart {
	if payload == nil {
		return nil
	}
	parts := []*gmail.MessagePart{payload}
	for _, p := range payload.Parts {
		parts = append(parts, flattenParts(p)...)
	}
	return parts
}

// classifyGoogleError maps googleapi errors onto the connector taxonomy
func classifyGoogleError(op string, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		if classed := classifyStatus(apiErr.Code); classed != nil {
			return fmt.Errorf("%w: %s: %v", classed, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrTransient, op, err)
}
