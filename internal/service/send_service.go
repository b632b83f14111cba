package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/mailleopard-backend/internal/analytics"
	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
	"github.com/unclebandit/mailleopard-backend/internal/model"
	"github.com/unclebandit/mailleopard-backend/internal/repository"
)

// Transport submits one rendered email and returns the provider message id.
type Transport interface {
	Send(ctx context.Context, to string, campaign *model.Campaign, body string) (string, error)
}

// TransportFactory builds a transport from resolved account credentials.
// Called once per send request; the result must never be reused for another
// account.
type TransportFactory func(ctx context.Context, setting *model.Setting) (Transport, error)

// Authorizer gates a send request before any campaign or credential data is
// read.
type Authorizer interface {
	Authorize(ctx context.Context, cookie string, claimedUserID, campaignID int) (int, error)
}

// SendService runs the pipeline: gate, resolve, transform, dispatch,
// record. Stages are strictly forward; the first failure before the
// per-subscriber fan-out surfaces immediately to the caller.
type SendService struct {
	Gate         Authorizer
	Resolver     *Resolver
	ListRepo     repository.ListRepositoryInterface
	SubsRepo     repository.CampaignSubscriberRepositoryInterface
	Reconciler   *Reconciler
	Transformer  *analytics.Transformer
	NewTransport TransportFactory

	// Concurrency bounds the per-subscriber fan-out of a bulk send.
	Concurrency int
}

// SendRequest identifies the caller and the campaign to send.
type SendRequest struct {
	Cookie        string
	ClaimedUserID int
	CampaignID    int
}

// TestSend sends one preview email to the given address. No
// campaign_subscriber row is created; the transport's synchronous answer is
// the only recorded outcome.
func (s *SendService) TestSend(ctx context.Context, req SendRequest, testEmail string) error {
	userID, err := s.Gate.Authorize(ctx, req.Cookie, req.ClaimedUserID, req.CampaignID)
	if err != nil {
		return err
	}

	resolved, err := s.Resolver.Resolve(ctx, req.CampaignID, userID)
	if err != nil {
		return err
	}

	fields, err := s.ListRepo.AdditionalFields(resolved.Campaign.ListID)
	if err != nil {
		return err
	}

	trackingToken := s.Transformer.TestToken(req.CampaignID)
	unsubscribeToken := s.Transformer.TestToken(req.CampaignID)
	body := s.Transformer.Apply(resolved.Campaign, trackingToken, unsubscribeToken, resolved.Setting.WhiteLabelURL)

	// Lenient merge: previews render with EXAMPLE values for fields the
	// caller supplied no data for.
	recipient := analytics.Recipient{Email: testEmail}
	body, err = analytics.MergeFields(body, recipient, fields, false)
	if err != nil {
		return err
	}

	transport, err := s.NewTransport(ctx, resolved.Setting)
	if err != nil {
		return err
	}

	_, err = transport.Send(ctx, testEmail, resolved.Campaign, body)
	return err
}

// SendCampaignResult summarizes a bulk send once every subscriber has
// reached a terminal state.
type SendCampaignResult struct {
	CampaignID  int `json:"campaign_id"`
	Total       int `json:"total"`
	Accepted    int `json:"accepted"`
	Failed      int `json:"failed"`
	MergeFailed int `json:"merge_failed"`
}

// SendCampaign dispatches the campaign to every subscriber on its list.
// Subscriber-level failures are recorded against that subscriber only and
// never abort siblings; dispatches run concurrently bounded by Concurrency.
func (s *SendService) SendCampaign(ctx context.Context, req SendRequest) (*SendCampaignResult, error) {
	userID, err := s.Gate.Authorize(ctx, req.Cookie, req.ClaimedUserID, req.CampaignID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.Resolver.Resolve(ctx, req.CampaignID, userID)
	if err != nil {
		return nil, err
	}

	fields, err := s.ListRepo.AdditionalFields(resolved.Campaign.ListID)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.ListRepo.Subscribers(resolved.Campaign.ListID)
	if err != nil {
		return nil, err
	}

	transport, err := s.NewTransport(ctx, resolved.Setting)
	if err != nil {
		return nil, err
	}

	result := &SendCampaignResult{CampaignID: req.CampaignID, Total: len(subscribers)}
	var mu sync.Mutex

	limit := s.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, sub := range subscribers {
		sub := sub
		g.Go(func() error {
			outcome := s.sendToSubscriber(gctx, transport, resolved, fields, sub)
			mu.Lock()
			switch outcome {
			case model.StatusAccepted:
				result.Accepted++
			case model.StatusMergeFailed:
				result.MergeFailed++
			default:
				result.Failed++
			}
			mu.Unlock()
			return nil
		})
	}

	// Subscriber goroutines always return nil; the campaign is complete
	// once every one of them has reached a terminal state.
	_ = g.Wait()

	return result, nil
}

// sendToSubscriber runs transform, dispatch and record for one subscriber
// and returns the terminal status it recorded.
func (s *SendService) sendToSubscriber(ctx context.Context, transport Transport, resolved *Resolved, fields []string, sub model.Subscriber) string {
	campaign := resolved.Campaign

	if _, err := s.SubsRepo.Create(campaign.ID, sub.ID, sub.Email); err != nil {
		log.Printf("⚠️ failed to create campaign_subscriber row for subscriber %d: %v", sub.ID, err)
		return model.StatusFailed
	}

	trackingToken := s.Transformer.Token(campaign.ID, sub.ID)
	unsubscribeToken := s.Transformer.Token(campaign.ID, sub.ID)
	body := s.Transformer.Apply(campaign, trackingToken, unsubscribeToken, resolved.Setting.WhiteLabelURL)

	recipient := analytics.Recipient{Email: sub.Email, AdditionalData: sub.AdditionalData}
	body, err := analytics.MergeFields(body, recipient, fields, true)
	if err != nil {
		// No transport call for this recipient.
		var merge *appErrors.ErrMissingMergeField
		if errors.As(err, &merge) {
			s.markFailed(campaign.ID, sub.ID, model.StatusMergeFailed, err)
			return model.StatusMergeFailed
		}
		s.markFailed(campaign.ID, sub.ID, model.StatusFailed, err)
		return model.StatusFailed
	}

	messageID, err := transport.Send(ctx, sub.Email, campaign, body)
	if err != nil {
		s.markFailed(campaign.ID, sub.ID, model.StatusFailed, err)
		return model.StatusFailed
	}

	if err := s.Reconciler.RecordAccepted(campaign.ID, sub.ID, messageID); err != nil {
		log.Printf("⚠️ failed to record acceptance for subscriber %d: %v", sub.ID, err)
		return model.StatusFailed
	}
	return model.StatusAccepted
}

func (s *SendService) markFailed(campaignID, subscriberID int, status string, cause error) {
	if err := s.SubsRepo.MarkFailed(campaignID, subscriberID, status, cause.Error()); err != nil {
		log.Printf("⚠️ failed to record %s for subscriber %d: %v", status, subscriberID, err)
	}
}
