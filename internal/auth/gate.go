package auth

import (
	"context"
	"strconv"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
)

// Gate decides whether a send request may proceed. It only reads session
// state; campaign and credential data must not be touched before Authorize
// has returned.
type Gate struct {
	Sessions SessionStore
}

func NewGate(sessions SessionStore) *Gate {
	return &Gate{Sessions: sessions}
}

// Authorize resolves the caller's cookie and returns the verified user id.
// It succeeds only when the session belongs to the claimed user and grants
// exactly write permission on the target campaign. Any other outcome —
// missing session, lookup failure, user mismatch, weaker permission — is
// ErrPermissionDenied with no further detail.
func (g *Gate) Authorize(ctx context.Context, cookie string, claimedUserID, campaignID int) (int, error) {
	if cookie == "" {
		return 0, appErrors.NewPermissionDenied()
	}

	sess, err := g.Sessions.Get(ctx, cookie)
	if err != nil {
		return 0, appErrors.NewPermissionDenied()
	}

	if sess.UserID != claimedUserID {
		return 0, appErrors.NewPermissionDenied()
	}

	permission := sess.Campaigns
	if override, ok := sess.Overrides[strconv.Itoa(campaignID)]; ok {
		permission = override
	}
	if permission != PermissionWrite {
		return 0, appErrors.NewPermissionDenied()
	}

	return sess.UserID, nil
}
