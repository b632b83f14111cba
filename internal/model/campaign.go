package model

import "time"

// Campaign types
const (
	TypeHTML      = "html"
	TypePlaintext = "plaintext"
)

type Campaign struct {
	ID                     int        `db:"id" json:"id"`
	UserID                 int        `db:"user_id" json:"user_id"`
	ListID                 int        `db:"list_id" json:"list_id"`
	Name                   string     `db:"name" json:"name"`
	FromName               string     `db:"from_name" json:"from_name"`
	FromEmail              string     `db:"from_email" json:"from_email"`
	EmailSubject           string     `db:"email_subject" json:"email_subject"`
	EmailBody              string     `db:"email_body" json:"email_body"`
	Type                   string     `db:"type" json:"type"` // html or plaintext
	TrackLinksEnabled      bool       `db:"track_links_enabled" json:"track_links_enabled"`
	TrackingPixelEnabled   bool       `db:"tracking_pixel_enabled" json:"tracking_pixel_enabled"`
	UnsubscribeLinkEnabled bool       `db:"unsubscribe_link_enabled" json:"unsubscribe_link_enabled"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
