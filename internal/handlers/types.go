package handlers

import (
	"net/http"
	"time"

	"github.com/linkdeck/linkdeck/internal/analytics"
)

// LinkPayload is a single link creation request body.
type LinkPayload struct {
	URL       string     `doc:"Absolute URL to shorten"                example:"https://example.com/very/long/path" json:"url"`
	ShortCode string     `doc:"Desired short code, generated if empty" example:"ab12"                               json:"shortCode,omitempty" maxLength:"50" pattern:"^[A-Za-z0-9_-]*$"`
	Title     string     `doc:"Display title"                          example:"Example landing page"               json:"title,omitempty"     maxLength:"500"`
	Password  string     `doc:"Access password for the redirect"       json:"password,omitempty"                    maxLength:"128"`
	ExpiresAt *time.Time `doc:"Expiry timestamp"                       json:"expiresAt,omitempty"`
}

// LinkSummary is the public view of a link. The password never appears.
type LinkSummary struct {
	ShortCode   string     `doc:"The short code"          example:"ab12" json:"shortCode"`
	ShortURL    string     `doc:"The full short URL"      json:"shortUrl"`
	OriginalURL string     `doc:"The original URL"        json:"originalUrl"`
	Title       string     `doc:"Display title"           json:"title,omitempty"`
	ClickCount  int64      `doc:"Total recorded clicks"   json:"clickCount"`
	CreatedAt   time.Time  `doc:"Creation timestamp"      json:"createdAt"`
	ExpiresAt   *time.Time `doc:"Expiry timestamp"        json:"expiresAt,omitempty"`
	HasPassword bool       `doc:"Whether a password gate is set" json:"hasPassword"`
}

// ListLinksRequest is the request for the paginated link list.
type ListLinksRequest struct {
	Page int `default:"1" doc:"1-based page number" minimum:"1" query:"page"`
}

// ListLinksResponse is the paginated link list.
type ListLinksResponse struct {
	Body struct {
		Items []LinkSummary `json:"items"`
		Page  int           `json:"page"`
		Total int64         `json:"total"`
	}
}

// CreateLinkRequest is the request body for creating a short link.
type CreateLinkRequest struct {
	Body LinkPayload
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkSummary
}

// DeleteLinkRequest is the request for deleting a link.
type DeleteLinkRequest struct {
	ShortCode string `doc:"The short code" example:"ab12" path:"shortCode"`
}

// BatchCreateRequest is the request for batch link creation.
type BatchCreateRequest struct {
	Body struct {
		Items []LinkPayload `doc:"Creation requests, processed independently in order" json:"items" maxItems:"100" minItems:"1"`
	}
}

// BatchItemError describes why a single batch item failed.
type BatchItemError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// BatchItemResult is the outcome of one batch item, in input order.
// Exactly one of Created and Error is set.
type BatchItemResult struct {
	Created *LinkSummary    `json:"created,omitempty"`
	Error   *BatchItemError `json:"error,omitempty"`
}

// BatchCreateResponse reports per-item outcomes preserving input order.
type BatchCreateResponse struct {
	Body struct {
		Count   int               `doc:"Number of successfully created links" json:"count"`
		Results []BatchItemResult `json:"results"`
	}
}

// CodeOptionsRequest is the request for short code autocomplete.
type CodeOptionsRequest struct {
	Q string `doc:"Case-insensitive substring matched against code and title" query:"q"`
}

// CodeOption is one autocomplete entry.
type CodeOption struct {
	Label       string `doc:"Display label: title, host, and code" json:"label"`
	Value       string `doc:"The short code"                       json:"value"`
	Host        string `json:"host,omitempty"`
	Title       string `json:"title,omitempty"`
	OriginalURL string `json:"originalUrl"`
}

// CodeOptionsResponse is the autocomplete result set.
type CodeOptionsResponse struct {
	Body struct {
		Options []CodeOption `json:"options"`
	}
}

// AnalyticsRequest is the request for link analytics.
type AnalyticsRequest struct {
	ShortCode string     `doc:"The short code" path:"shortCode"`
	Range     string     `doc:"Time range"     enum:"24h,7d,30d,custom" query:"range" required:"false"`
	Start     *time.Time `doc:"Custom range start (RFC3339)" query:"start"`
	End       *time.Time `doc:"Custom range end (RFC3339)"   query:"end"`
}

// AnalyticsResponse carries the aggregated click report.
type AnalyticsResponse struct {
	Body analytics.Report
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Body struct {
		Username  string `doc:"Unique username" json:"username"   maxLength:"150" minLength:"3"`
		Email     string `doc:"Unique email"    format:"email"    json:"email"`
		Password  string `json:"password"       maxLength:"128"   minLength:"8"`
		CaptchaID string `doc:"Id of an issued captcha challenge" json:"captcha_id"`
		Captcha   string `doc:"Captcha solution"                  json:"captcha"`
	}
}

// RegisterResponse confirms a created account.
type RegisterResponse struct {
	Body struct {
		Success  bool   `json:"success"`
		Username string `json:"username"`
	}
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Body struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		CaptchaID string `doc:"Required when login captcha is enabled" json:"captcha_id,omitempty"`
		Captcha   string `json:"captcha,omitempty"`
	}
}

// LoginResponse establishes the session cookie.
type LoginResponse struct {
	Headers struct {
		SetCookie http.Cookie `header:"Set-Cookie"`
	}
	Body struct {
		Success  bool   `json:"success"`
		Username string `json:"username"`
	}
}

// LogoutResponse clears the session cookie.
type LogoutResponse struct {
	Headers struct {
		SetCookie http.Cookie `header:"Set-Cookie"`
	}
	Body struct {
		Success bool `json:"success"`
	}
}

// MeResponse reports the caller's identity. Anonymous callers get
// authenticated=false, never an error.
type MeResponse struct {
	Body struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username,omitempty"`
	}
}

// CaptchaResponse is a freshly issued captcha challenge.
type CaptchaResponse struct {
	Body struct {
		CaptchaID string `doc:"Challenge id, single-use"       json:"captcha_id"`
		Image     string `doc:"Inline SVG data URI to display" json:"image"`
	}
}

// RedirectRequest is the request for resolving a short link.
type RedirectRequest struct {
	ShortCode string `doc:"The short code" example:"ab12" path:"shortCode"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// VerifyPasswordRequest is the request for unlocking a protected link.
type VerifyPasswordRequest struct {
	ShortCode string `doc:"The short code" path:"shortCode"`
	Body      struct {
		Password string `json:"password" maxLength:"128"`
	}
}

// VerifyPasswordResponse carries the unlocked original URL. No unlock
// state persists; a later redirect prompts again.
type VerifyPasswordResponse struct {
	Body struct {
		OriginalURL string `json:"original_url"`
	}
}
