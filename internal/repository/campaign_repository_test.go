package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
)

var campaignColumns = []string{
	"id", "user_id", "list_id", "name", "from_name", "from_email",
	"email_subject", "email_body", "type", "track_links_enabled",
	"tracking_pixel_enabled", "unsubscribe_link_enabled", "created_at", "updated_at",
}

func TestGetByIDForUserScopesToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &CampaignRepository{DB: db}

	mock.ExpectQuery("SELECT id, user_id, list_id").
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows(campaignColumns).AddRow(
			1, 2, 3, "Welcome", "Sender", "s@example.com",
			"Subject", "<p>body</p>", "html", true, true, false, time.Now(), nil,
		))

	c, err := repo.GetByIDForUser(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, 2, c.UserID)
	assert.True(t, c.TrackLinksEnabled)
	assert.False(t, c.UnsubscribeLinkEnabled)

	require.NoError(t, mock.ExpectationsWereMet())
}

// A campaign owned by another user must be indistinguishable from one that
// does not exist.
func TestGetByIDForUserForeignCampaignIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &CampaignRepository{DB: db}

	mock.ExpectQuery("SELECT id, user_id, list_id").
		WithArgs(1, 99).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByIDForUser(1, 99)
	require.Error(t, err)

	var notFound *appErrors.ErrCampaignNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 1, notFound.CampaignID)

	require.NoError(t, mock.ExpectationsWereMet())
}
