package repository

import (
	"database/sql"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
	"github.com/unclebandit/mailleopard-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	// GetByIDForUser resolves a campaign scoped to its owner. A campaign
	// owned by someone else is indistinguishable from one that does not
	// exist.
	GetByIDForUser(campaignID, userID int) (*model.Campaign, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) GetByIDForUser(campaignID, userID int) (*model.Campaign, error) {
	query := `
        SELECT id, user_id, list_id, name, from_name, from_email, email_subject,
               email_body, type, track_links_enabled, tracking_pixel_enabled,
               unsubscribe_link_enabled, created_at, updated_at
        FROM campaigns WHERE id=$1 AND user_id=$2
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, campaignID, userID).Scan(
		&c.ID, &c.UserID, &c.ListID, &c.Name, &c.FromName, &c.FromEmail,
		&c.EmailSubject, &c.EmailBody, &c.Type, &c.TrackLinksEnabled,
		&c.TrackingPixelEnabled, &c.UnsubscribeLinkEnabled, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(campaignID)
		}
		return nil, err
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
