package service

import (
	"context"
	"fmt"
	"sync"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
	"github.com/unclebandit/mailleopard-backend/internal/model"
)

// fakeGate authorizes a fixed user or denies everything.
type fakeGate struct {
	userID int
	deny   bool
	calls  int
}

func (g *fakeGate) Authorize(ctx context.Context, cookie string, claimedUserID, campaignID int) (int, error) {
	g.calls++
	if g.deny {
		return 0, appErrors.NewPermissionDenied()
	}
	return g.userID, nil
}

// fakeCampaignRepo serves campaigns keyed by (campaignID, userID).
type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[[2]int]*model.Campaign
	calls     int
}

func (r *fakeCampaignRepo) GetByIDForUser(campaignID, userID int) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if c, ok := r.campaigns[[2]int{campaignID, userID}]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, appErrors.NewCampaignNotFound(campaignID)
}

type fakeSettingRepo struct {
	setting *model.Setting
	err     error
	calls   int
}

func (r *fakeSettingRepo) GetByUserID(userID int) (*model.Setting, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.setting, nil
}

type fakeListRepo struct {
	fields      []string
	subscribers []model.Subscriber
}

func (r *fakeListRepo) AdditionalFields(listID int) ([]string, error) {
	return r.fields, nil
}

func (r *fakeListRepo) Subscribers(listID int) ([]model.Subscriber, error) {
	return r.subscribers, nil
}

// memSubsRepo is an in-memory campaign_subscribers table. Row updates take
// the lock for the whole read-modify-write, mirroring the atomicity the SQL
// UPDATEs give the real repository.
type memSubsRepo struct {
	mu     sync.Mutex
	rows   map[[2]int]*model.CampaignSubscriber
	nextID int
}

func newMemSubsRepo() *memSubsRepo {
	return &memSubsRepo{rows: make(map[[2]int]*model.CampaignSubscriber)}
}

func (r *memSubsRepo) Create(campaignID, subscriberID int, email string) (*model.CampaignSubscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int{campaignID, subscriberID}
	if cs, ok := r.rows[key]; ok {
		copied := *cs
		return &copied, nil
	}
	r.nextID++
	cs := &model.CampaignSubscriber{
		ID:           r.nextID,
		CampaignID:   campaignID,
		SubscriberID: subscriberID,
		Email:        email,
		Status:       model.StatusPending,
	}
	r.rows[key] = cs
	copied := *cs
	return &copied, nil
}

func (r *memSubsRepo) Get(campaignID, subscriberID int) (*model.CampaignSubscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cs, ok := r.rows[[2]int{campaignID, subscriberID}]; ok {
		copied := *cs
		return &copied, nil
	}
	return nil, nil
}

func (r *memSubsRepo) MarkAccepted(campaignID, subscriberID int, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.rows[[2]int{campaignID, subscriberID}]
	if !ok {
		return fmt.Errorf("no row for campaign %d subscriber %d", campaignID, subscriberID)
	}
	cs.Sent = true
	cs.Status = model.StatusAccepted
	cs.MessageID = messageID
	return nil
}

func (r *memSubsRepo) MarkFailed(campaignID, subscriberID int, status, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.rows[[2]int{campaignID, subscriberID}]
	if !ok {
		return fmt.Errorf("no row for campaign %d subscriber %d", campaignID, subscriberID)
	}
	cs.Status = status
	cs.LastError = lastError
	return nil
}

func (r *memSubsRepo) RecordBounce(messageID, bounceType, bounceSubType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cs := range r.rows {
		if cs.MessageID == messageID && cs.Sent {
			cs.Status = model.StatusBounced
			cs.BounceType = bounceType
			cs.BounceSubType = bounceSubType
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memSubsRepo) StatusCounts(campaignID int) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, cs := range r.rows {
		if cs.CampaignID == campaignID {
			counts[cs.Status]++
		}
	}
	return counts, nil
}

type sentMessage struct {
	To   string
	Body string
}

// fakeTransport records sends and hands out sequential message ids.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]error
	nextID  int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{failFor: make(map[string]error)}
}

func (f *fakeTransport) Send(ctx context.Context, to string, campaign *model.Campaign, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return "", err
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	f.nextID++
	return fmt.Sprintf("mid-%d", f.nextID), nil
}

func (f *fakeTransport) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
