package repository

import (
	"database/sql"
	"fmt"

	"github.com/unclebandit/mailleopard-backend/internal/model"
)

type SettingRepositoryInterface interface {
	GetByUserID(userID int) (*model.Setting, error)
}

type SettingRepository struct {
	DB *sql.DB
}

// GetByUserID fetches the user's provider credentials. Settings rows are
// created with the account, so a missing row is an internal inconsistency,
// not a caller error.
func (r *SettingRepository) GetByUserID(userID int) (*model.Setting, error) {
	query := `
        SELECT id, user_id, access_key, secret_key, region, white_label_url
        FROM settings WHERE user_id=$1
    `
	var s model.Setting
	err := r.DB.QueryRow(query, userID).Scan(
		&s.ID, &s.UserID, &s.AccessKey, &s.SecretKey, &s.Region, &s.WhiteLabelURL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no settings row for user %d", userID)
		}
		return nil, err
	}
	return &s, nil
}

var _ SettingRepositoryInterface = (*SettingRepository)(nil)
