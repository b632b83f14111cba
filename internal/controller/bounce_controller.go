package controller

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/mailleopard-backend/internal/queue"
)

// BounceController accepts SNS-style bounce notifications over HTTP. The
// same events can arrive through the AMQP consumer; both paths end at the
// reconciler.
type BounceController struct {
	Recorder queue.BounceRecorder
}

// bounceNotification mirrors the shape of an SES bounce notification.
type bounceNotification struct {
	NotificationType string `json:"notificationType"`
	Bounce           struct {
		BounceType    string `json:"bounceType"`
		BounceSubType string `json:"bounceSubType"`
	} `json:"bounce"`
	Mail struct {
		MessageID string `json:"messageId"`
	} `json:"mail"`
}

// Handle processes POST /webhooks/bounce. Unknown message ids are accepted
// with 200 and produce no state mutation; the provider must not retry them.
func (c *BounceController) Handle(w http.ResponseWriter, r *http.Request) {
	var n bounceNotification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if n.NotificationType != "Bounce" || n.Mail.MessageID == "" {
		// Complaints and deliveries are not reconciled here.
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := c.Recorder.RecordBounce(n.Mail.MessageID, n.Bounce.BounceType, n.Bounce.BounceSubType); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
