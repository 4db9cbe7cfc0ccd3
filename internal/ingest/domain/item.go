package domain

import "time"

// SourceType identifies which third-party system an item came from
type SourceType string

const (
	SourceMail      SourceType = "mail"
	SourceDrive     SourceType = "drive"
	SourceMessaging SourceType = "messaging"
	SourceBanking   SourceType = "banking"
)

// AllSourceTypes in the order "sync all" fans out
var AllSourceTypes = []SourceType{SourceMail, SourceDrive, SourceMessaging, SourceBanking}

// Valid reports whether s is one of the known source types
func (s SourceType) Valid() bool {
	switch s {
	case SourceMail, SourceDrive, SourceMessaging, SourceBanking:
		return true
	}
	return false
}

// IngestItem is the canonical unit a connector emits. Immutable once
// created; a re-fetch with the same ExternalID upserts the stored row.
type IngestItem struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	UserID      string       `json:"user_id" gorm:"uniqueIndex:idx_item_user_source_external;not null"`
	SourceType  SourceType   `json:"source_type" gorm:"uniqueIndex:idx_item_user_source_external;not null"`
	ExternalID  string       `json:"external_id" gorm:"uniqueIndex:idx_item_user_source_external;not null"`
	OccurredAt  time.Time    `json:"occurred_at"`
	RawText     string       `json:"raw_text"`
	Metadata    Metadata     `json:"metadata" gorm:"serializer:json"`
	Attachments []Attachment `json:"attachments,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Attachment carries attachment metadata; content is fetched lazily by id
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	ExternalRef string `json:"external_ref,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

// Metadata is a tagged union keyed by the item's SourceType: exactly one
// variant is set, matching the source the item came from.
type Metadata struct {
	Mail      *MailMetadata      `json:"mail,omitempty"`
	Drive     *DriveMetadata     `json:"drive,omitempty"`
	Messaging *MessagingMetadata `json:"messaging,omitempty"`
	Banking   *BankingMetadata   `json:"banking,omitempty"`
}

type MailMetadata struct {
	From     string `json:"from"`
	FromName string `json:"from_name,omitempty"`
	To       string `json:"to,omitempty"`
	Subject  string `json:"subject"`
	Locale   string `json:"locale,omitempty"`
}

type DriveMetadata struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
	WebLink    string `json:"web_link,omitempty"`
	FolderID   string `json:"folder_id,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

type MessagingMetadata struct {
	From       string `json:"from"`
	To         string `json:"to,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

type BankingMetadata struct {
	AccountID  string   `json:"account_id"`
	Merchant   string   `json:"merchant,omitempty"`
	Name       string   `json:"name"`
	Amount     float64  `json:"amount"`
	Currency   string   `json:"currency,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Pending    bool     `json:"pending"`
}

// SenderName returns the display name of whoever produced the item, if the
// source carries one. Used to seed person/org extraction.
func (m Metadata) SenderName() string {
	switch {
	case m.Mail != nil:
		return m.Mail.FromName
	case m.Messaging != nil:
		return m.Messaging.SenderName
	}
	return ""
}

// Locale returns the source locale hint if known ("en-US", "en-GB", ...)
func (m Metadata) Locale() string {
	switch {
	case m.Mail != nil:
		return m.Mail.Locale
	case m.Messaging != nil:
		return m.Messaging.Locale
	}
	return ""
}
