package model

// Setting holds a user's email provider credentials. One row per user,
// created with the account. Secret values must never be logged or echoed
// back in error payloads.
type Setting struct {
	ID            int    `db:"id" json:"-"`
	UserID        int    `db:"user_id" json:"-"`
	AccessKey     string `db:"access_key" json:"-"`
	SecretKey     string `db:"secret_key" json:"-"`
	Region        string `db:"region" json:"-"`
	WhiteLabelURL string `db:"white_label_url" json:"-"`
}

// Complete reports whether all required credential fields are present.
// WhiteLabelURL is optional.
func (s *Setting) Complete() bool {
	return s.AccessKey != "" && s.SecretKey != "" && s.Region != ""
}
