package connector

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"aura-backend/internal/ingest/domain"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const maxInlineContent = 64 * 1024 // cap on exported document text

// DriveConnector lists files changed since the watermark and, for Google
// Docs and plain-text files, pulls the text content for extraction.
type DriveConnector struct {
	lookback  time.Duration
	batchSize int64
}

func NewDriveConnector(lookback time.Duration, batchSize int) *DriveConnector {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &DriveConnector{lookback: lookback, batchSize: int64(batchSize)}
}

func (d *DriveConnector) SourceType() domain.SourceType {
	return domain.SourceDrive
}

func (d *DriveConnector) FetchSince(ctx context.Context, userID, accessToken, watermark string) (*Page, error) {
	m := decodeMark(watermark, d.lookback)

	srv, err := d.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("modifiedTime > '%s' and trashed = false", m.Since.UTC().Format(time.RFC3339))
	call := srv.Files.List().
		Q(query).
		PageSize(d.batchSize).
		Fields("nextPageToken, files(id, name, mimeType, modifiedTime, webViewLink, size, owners(emailAddress))").
		Context(ctx)
	if m.Page != "" {
		call = call.PageToken(m.Page)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, classifyGoogleError("list files", err)
	}

	items := make([]*domain.IngestItem, 0, len(resp.Files))
	for _, f := range resp.Files {
		item, err := d.parseFile(ctx, srv, userID, f)
		if err != nil {
			log.Printf("[DriveConnector] skipping file %s: %v", f.Id, err)
			continue
		}
		items = append(items, item)
	}

	page := &Page{Items: items}
	if resp.NextPageToken != "" {
		page.HasMore = true
		page.NextWatermark = mark{Since: m.Since, Page: resp.NextPageToken}.encode()
	} else {
		page.NextWatermark = mark{Since: time.Now()}.encode()
	}
	return page, nil
}

func (d *DriveConnector) service(ctx context.Context, accessToken string) (*drive.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	srv, err := drive.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("%w: create drive service: %v", ErrTransient, err)
	}
	return srv, nil
}

func (d *DriveConnector) parseFile(ctx context.Context, srv *drive.Service, userID string, f *drive.File) (*domain.IngestItem, error) {
	if f.Id == "" || f.Name == "" {
		return nil, fmt.Errorf("file missing id or name")
	}

	occurred := time.Now()
	if f.ModifiedTime != "" {
		if parsed, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			occurred = parsed
		}
	}

	meta := &domain.DriveMetadata{
		Filename: f.Name,
		MimeType: f.MimeType,
		WebLink:  f.WebViewLink,
	}
	if len(f.Owners) > 0 {
		meta.OwnerEmail = f.Owners[0].EmailAddress
	}

	// content fetch is best effort; the filename alone still categorizes
	rawText := f.Name
	if content := d.fetchContent(ctx, srv, f); content != "" {
		rawText = f.Name + "\n" + content
	}

	return &domain.IngestItem{
		ID:         uuid.New().String(),
		UserID:     userID,
		SourceType: domain.SourceDrive,
		ExternalID: f.Id,
		OccurredAt: occurred,
		RawText:    rawText,
		Metadata:   domain.Metadata{Drive: meta},
	}, nil
}

func (d *DriveConnector) fetchContent(ctx context.Context, srv *drive.Service, f *drive.File) string {
	var resp io.ReadCloser

	switch f.MimeType {
	case "application/vnd.google-apps.document":
		r, err := srv.Files.Export(f.Id, "text/plain").Context(ctx).Download()
		if err != nil {
			log.Printf("[DriveConnector] export failed for %s: %v", f.Id, err)
			return ""
		}
		resp = r.Body
	case "text/plain", "text/csv":
		r, err := srv.Files.Get(f.Id).Context(ctx).Download()
		if err != nil {
			log.Printf("[DriveConnector] download failed for %s: %v", f.Id, err)
			return ""
		}
		resp = r.Body
	default:
		return ""
	}
	defer resp.Close()

	content, err := io.ReadAll(io.LimitReader(resp, maxInlineContent))
	if err != nil {
		return ""
	}
	return string(content)
}
