package service

import (
	"log"

	"github.com/unclebandit/mailleopard-backend/internal/repository"
)

// Reconciler folds transport results and asynchronous bounce callbacks into
// per-subscriber send state. It touches only campaign_subscriber rows, never
// campaign or credential state, so it is safe to run concurrently with
// in-flight dispatches for the same campaign.
type Reconciler struct {
	Repo repository.CampaignSubscriberRepositoryInterface
}

// RecordAccepted stores the transport's acceptance of one message.
func (r *Reconciler) RecordAccepted(campaignID, subscriberID int, messageID string) error {
	return r.Repo.MarkAccepted(campaignID, subscriberID, messageID)
}

// RecordBounce classifies an accepted message as bounced. Callbacks for
// unknown message ids, and bounces arriving before the accept was recorded,
// are logged and dropped: the callback is not redeliverable from here, and
// misapplying it would lose the accepted fact.
func (r *Reconciler) RecordBounce(messageID, bounceType, bounceSubType string) error {
	affected, err := r.Repo.RecordBounce(messageID, bounceType, bounceSubType)
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Printf("⚠️ dropping bounce callback for unknown or unaccepted message %s", messageID)
	}
	return nil
}
