package domain

import "time"

// Field is one labeled entry of the report embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Footer is the embed footer.
type Footer struct {
	Text string `json:"text"`
}

// Embed is the single rich block carried by a report message.
type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
	Footer      Footer  `json:"footer"`
	Color       int     `json:"color"`
}

// Payload is the webhook message body.
type Payload struct {
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Content   string  `json:"content"`
	Embeds    []Embed `json:"embeds"`
}

// Branding holds the static parts of every message.
type Branding struct {
	Username  string
	AvatarURL string
	Title     string
	Footer    string
	Color     int
}

// DefaultBranding returns the stock message identity.
func DefaultBranding() Branding {
	return Branding{
		Username: "device reporter",
		Title:    "Device Info Captured",
		Footer:   "IP provider: ipapi.co - raw fields may vary",
		Color:    0x8A2BE2,
	}
}

// NewPayload wraps fields captured at capturedAt into a single-embed message.
func NewPayload(b Branding, capturedAt time.Time, fields []Field) Payload {
	if fields == nil {
		fields = []Field{}
	}
	return Payload{
		Username:  b.Username,
		AvatarURL: b.AvatarURL,
		Content:   "",
		Embeds: []Embed{{
			Title:       b.Title,
			Description: "Captured at " + capturedAt.UTC().Format(time.RFC3339),
			Fields:      fields,
			Footer:      Footer{Text: b.Footer},
			Color:       b.Color,
		}},
	}
}
