package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/unclebandit/mailleopard-backend/internal/model"
)

type ListRepositoryInterface interface {
	AdditionalFields(listID int) ([]string, error)
	Subscribers(listID int) ([]model.Subscriber, error)
}

type ListRepository struct {
	DB *sql.DB
}

// AdditionalFields returns the merge-field names the list declares.
func (r *ListRepository) AdditionalFields(listID int) ([]string, error) {
	query := `SELECT additional_fields FROM lists WHERE id=$1`

	var fields []string
	err := r.DB.QueryRow(query, listID).Scan(pq.Array(&fields))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("list %d not found", listID)
		}
		return nil, err
	}
	return fields, nil
}

// Subscribers returns the list's recipients in insertion order.
func (r *ListRepository) Subscribers(listID int) ([]model.Subscriber, error) {
	query := `
        SELECT id, list_id, email, additional_data
        FROM subscribers WHERE list_id=$1 ORDER BY id
    `
	rows, err := r.DB.Query(query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := []model.Subscriber{}
	for rows.Next() {
		var s model.Subscriber
		var data []byte
		if err := rows.Scan(&s.ID, &s.ListID, &s.Email, &data); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &s.AdditionalData); err != nil {
				return nil, fmt.Errorf("subscriber %d additional_data: %w", s.ID, err)
			}
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, rows.Err()
}

var _ ListRepositoryInterface = (*ListRepository)(nil)
