package repository

import (
	"database/sql"

	"github.com/unclebandit/mailleopard-backend/internal/model"
)

type CampaignSubscriberRepositoryInterface interface {
	// Create is idempotent: a second send attempt for the same pair
	// returns the existing row.
	Create(campaignID, subscriberID int, email string) (*model.CampaignSubscriber, error)
	Get(campaignID, subscriberID int) (*model.CampaignSubscriber, error)

	MarkAccepted(campaignID, subscriberID int, messageID string) error
	MarkFailed(campaignID, subscriberID int, status, lastError string) error

	// RecordBounce classifies a sent message as bounced. Returns the number
	// of rows touched; zero means the message id is unknown or the row was
	// never marked accepted, and the caller drops the callback.
	RecordBounce(messageID, bounceType, bounceSubType string) (int64, error)

	StatusCounts(campaignID int) (map[string]int, error)
}

type CampaignSubscriberRepository struct {
	DB *sql.DB
}

func (r *CampaignSubscriberRepository) Create(campaignID, subscriberID int, email string) (*model.CampaignSubscriber, error) {
	existing, err := r.Get(campaignID, subscriberID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	query := `
        INSERT INTO campaign_subscribers (campaign_id, subscriber_id, email, status, sent, created_at, updated_at)
        VALUES ($1, $2, $3, 'pending', FALSE, NOW(), NOW())
        RETURNING id, status, sent, created_at, updated_at
    `
	var cs model.CampaignSubscriber
	err = r.DB.QueryRow(query, campaignID, subscriberID, email).Scan(
		&cs.ID, &cs.Status, &cs.Sent, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cs.CampaignID = campaignID
	cs.SubscriberID = subscriberID
	cs.Email = email
	return &cs, nil
}

func (r *CampaignSubscriberRepository) Get(campaignID, subscriberID int) (*model.CampaignSubscriber, error) {
	query := `
        SELECT id, campaign_id, subscriber_id, email, COALESCE(message_id, ''),
               status, COALESCE(bounce_type, ''), COALESCE(bounce_sub_type, ''),
               sent, COALESCE(last_error, ''), created_at, updated_at
        FROM campaign_subscribers
        WHERE campaign_id=$1 AND subscriber_id=$2
    `
	var cs model.CampaignSubscriber
	err := r.DB.QueryRow(query, campaignID, subscriberID).Scan(
		&cs.ID, &cs.CampaignID, &cs.SubscriberID, &cs.Email, &cs.MessageID,
		&cs.Status, &cs.BounceType, &cs.BounceSubType,
		&cs.Sent, &cs.LastError, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &cs, nil
}

func (r *CampaignSubscriberRepository) MarkAccepted(campaignID, subscriberID int, messageID string) error {
	query := `
        UPDATE campaign_subscribers
        SET sent=TRUE, status=$3, message_id=$4, last_error='', updated_at=NOW()
        WHERE campaign_id=$1 AND subscriber_id=$2
    `
	_, err := r.DB.Exec(query, campaignID, subscriberID, model.StatusAccepted, messageID)
	return err
}

func (r *CampaignSubscriberRepository) MarkFailed(campaignID, subscriberID int, status, lastError string) error {
	query := `
        UPDATE campaign_subscribers
        SET status=$3, last_error=$4, updated_at=NOW()
        WHERE campaign_id=$1 AND subscriber_id=$2
    `
	_, err := r.DB.Exec(query, campaignID, subscriberID, status, lastError)
	return err
}

// RecordBounce is a single atomic read-modify-write. The sent=TRUE guard
// keeps a late "accepted" update from being overwritten the wrong way round:
// a bounce can only land on a row that already holds the accepted fact.
func (r *CampaignSubscriberRepository) RecordBounce(messageID, bounceType, bounceSubType string) (int64, error) {
	query := `
        UPDATE campaign_subscribers
        SET status=$2, bounce_type=$3, bounce_sub_type=$4, updated_at=NOW()
        WHERE message_id=$1 AND sent=TRUE
    `
	res, err := r.DB.Exec(query, messageID, model.StatusBounced, bounceType, bounceSubType)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CampaignSubscriberRepository) StatusCounts(campaignID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM campaign_subscribers WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{
		model.StatusPending:     0,
		model.StatusAccepted:    0,
		model.StatusFailed:      0,
		model.StatusMergeFailed: 0,
		model.StatusBounced:     0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

var _ CampaignSubscriberRepositoryInterface = (*CampaignSubscriberRepository)(nil)
