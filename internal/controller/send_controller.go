package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
	"github.com/unclebandit/mailleopard-backend/internal/repository"
	"github.com/unclebandit/mailleopard-backend/internal/service"
)

// Sender is the orchestrator surface the controller needs.
type Sender interface {
	TestSend(ctx context.Context, req service.SendRequest, testEmail string) error
	SendCampaign(ctx context.Context, req service.SendRequest) (*service.SendCampaignResult, error)
}

type SendController struct {
	Service  Sender
	SubsRepo repository.CampaignSubscriberRepositoryInterface
}

// TestSend handles POST /campaigns/{id}/send-test. Success is an empty 200;
// failures map to 401 (denied / not found), 400 (caller-correctable or
// transport rejection) or 500.
func (c *SendController) TestSend(w http.ResponseWriter, r *http.Request) {
	req, ok := callerRequest(w, r)
	if !ok {
		return
	}

	var body struct {
		TestEmail string `json:"testEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TestEmail == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := c.Service.TestSend(r.Context(), req, body.TestEmail); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// SendCampaign handles POST /campaigns/{id}/send: the full bulk send.
func (c *SendController) SendCampaign(w http.ResponseWriter, r *http.Request) {
	req, ok := callerRequest(w, r)
	if !ok {
		return
	}

	result, err := c.Service.SendCampaign(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Stats handles GET /campaigns/{id}/stats with per-status subscriber counts.
func (c *SendController) Stats(w http.ResponseWriter, r *http.Request) {
	req, ok := callerRequest(w, r)
	if !ok {
		return
	}

	counts, err := c.SubsRepo.StatusCounts(req.CampaignID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"campaign_id": req.CampaignID,
		"stats":       counts,
	})
}

// callerRequest extracts the campaign id, caller cookie and claimed user id.
// A request with no usable identity is denied outright without touching the
// session store.
func callerRequest(w http.ResponseWriter, r *http.Request) (service.SendRequest, bool) {
	campaignID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return service.SendRequest{}, false
	}

	cookie, err := r.Cookie("user")
	if err != nil {
		http.Error(w, "permission denied", http.StatusUnauthorized)
		return service.SendRequest{}, false
	}

	claimedUserID, err := strconv.Atoi(r.Header.Get("X-User-ID"))
	if err != nil {
		http.Error(w, "permission denied", http.StatusUnauthorized)
		return service.SendRequest{}, false
	}

	return service.SendRequest{
		Cookie:        cookie.Value,
		ClaimedUserID: claimedUserID,
		CampaignID:    campaignID,
	}, true
}

func writeError(w http.ResponseWriter, err error) {
	status := appErrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		// Do not leak collaborator failures to the caller.
		log.Println("❌ send pipeline error:", err)
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
