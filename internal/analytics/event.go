package analytics

import "time"

const (
	// TopicLinkCreated carries LinkCreatedEvent messages.
	TopicLinkCreated = "link.created"

	// TopicLinkClicked carries ClickEvent messages.
	TopicLinkClicked = "link.clicked"
)

// LinkCreatedEvent is emitted when a short link is created.
type LinkCreatedEvent struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	Title       string    `json:"title,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// ClickEvent is emitted when a short link is resolved, either by a
// plain redirect or a successful password verification.
type ClickEvent struct {
	Code      string    `json:"code"`
	ClickedAt time.Time `json:"clickedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
}
