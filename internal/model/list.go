package model

// List is a recipient list. AdditionalFields declares the custom column
// names usable for mail merge (e.g. "firstName").
type List struct {
	ID               int      `db:"id" json:"id"`
	UserID           int      `db:"user_id" json:"user_id"`
	Name             string   `db:"name" json:"name"`
	AdditionalFields []string `db:"additional_fields" json:"additional_fields"`
}

// Subscriber is one recipient on a list. AdditionalData holds the values
// for the list's declared additional fields.
type Subscriber struct {
	ID             int               `db:"id" json:"id"`
	ListID         int               `db:"list_id" json:"list_id"`
	Email          string            `db:"email" json:"email"`
	AdditionalData map[string]string `db:"additional_data" json:"additional_data"`
}
