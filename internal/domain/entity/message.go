package entity

import (
	"strings"
	"time"
)

// Message lifecycle statuses as observed by clients. The server only
// ever persists messages; "sending" exists purely on the client side
// until the authoritative record replaces the optimistic one.
const (
	MessageStatusSending = "sending"
	MessageStatusSent    = "sent"
	MessageStatusFailed  = "failed"
)

// Attachment constraints for chat messages.
const MaxAttachmentSize = 10 << 20 // 10 MiB per file

// AllowedAttachmentTypes is the fixed set of raster image formats
// accepted as message attachments.
var AllowedAttachmentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ChatID         string    `json:"chat_id" firestore:"chatId"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	Content        string    `json:"content,omitempty" firestore:"content,omitempty"`
	AttachmentURLs []string  `json:"attachment_urls,omitempty" firestore:"attachmentUrls,omitempty"`
	Status         string    `json:"status" firestore:"status"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}

// IsEmpty reports whether the message carries neither text nor media.
// Empty messages are rejected at admission, before any broadcast.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == "" && len(m.AttachmentURLs) == 0
}

// AllowedAttachmentType reports whether contentType is in the image
// allow-list.
func AllowedAttachmentType(contentType string) bool {
	return AllowedAttachmentTypes[strings.ToLower(contentType)]
}
