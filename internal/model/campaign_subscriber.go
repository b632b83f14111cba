package model

import "time"

// CampaignSubscriber statuses
const (
	StatusPending     = "pending"
	StatusAccepted    = "accepted"
	StatusFailed      = "failed"
	StatusMergeFailed = "merge_failed"
	StatusBounced     = "bounced"
)

// CampaignSubscriber is the per-(campaign, subscriber) send record. Created
// at first send attempt, updated once on transport acceptance and possibly
// again by an asynchronous bounce callback. Never deleted by the pipeline.
type CampaignSubscriber struct {
	ID            int       `db:"id" json:"id"`
	CampaignID    int       `db:"campaign_id" json:"campaign_id"`
	SubscriberID  int       `db:"subscriber_id" json:"subscriber_id"`
	Email         string    `db:"email" json:"email"`
	MessageID     string    `db:"message_id" json:"message_id"`
	Status        string    `db:"status" json:"status"`
	BounceType    string    `db:"bounce_type" json:"bounce_type,omitempty"`
	BounceSubType string    `db:"bounce_sub_type" json:"bounce_sub_type,omitempty"`
	Sent          bool      `db:"sent" json:"sent"`
	LastError     string    `db:"last_error" json:"last_error,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
