package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
	"github.com/unclebandit/mailleopard-backend/internal/model"
	"github.com/unclebandit/mailleopard-backend/internal/repository"
)

// Resolver loads the campaign and the account's provider credentials for an
// already-authorized user.
type Resolver struct {
	CampaignRepo repository.CampaignRepositoryInterface
	SettingRepo  repository.SettingRepositoryInterface

	// Production makes blank credential fields a hard error. Outside
	// production blanks are tolerated so the sandbox transport can run.
	Production bool
}

// Resolved is the immutable input to the transform stage.
type Resolved struct {
	Campaign *model.Campaign
	Setting  *model.Setting
}

// Resolve runs the two independent reads concurrently and joins them: both
// must have succeeded before any content is transformed or any transport
// client is constructed. The first failure wins and cancels the sibling.
func (r *Resolver) Resolve(ctx context.Context, campaignID, userID int) (*Resolved, error) {
	var (
		campaign *model.Campaign
		setting  *model.Setting
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := r.CampaignRepo.GetByIDForUser(campaignID, userID)
		if err != nil {
			return err
		}
		campaign = c
		return nil
	})
	g.Go(func() error {
		s, err := r.SettingRepo.GetByUserID(userID)
		if err != nil {
			return err
		}
		if r.Production && !s.Complete() {
			return appErrors.NewIncompleteSettings()
		}
		setting = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Resolved{Campaign: campaign, Setting: setting}, nil
}
