package appErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrPermissionDenied is returned when the caller's session does not grant
// write access to campaigns. Deliberately carries no detail.
type ErrPermissionDenied struct{}

func (e *ErrPermissionDenied) Error() string {
	return "permission denied"
}

func NewPermissionDenied() error {
	return &ErrPermissionDenied{}
}

// ErrCampaignNotFound is a sentinel error. Campaigns owned by another user
// are reported with this same error, so ownership is never leaked.
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrIncompleteSettings is returned when a required provider credential
// field is blank. The message is caller-correctable and never includes the
// credential values themselves.
type ErrIncompleteSettings struct{}

func (e *ErrIncompleteSettings) Error() string {
	return `please provide your details for your Amazon account under "Settings"`
}

func NewIncompleteSettings() error {
	return &ErrIncompleteSettings{}
}

// ErrMissingMergeField is returned on bulk sends when a subscriber has no
// value for a field the list declares. Test sends substitute a placeholder
// instead.
type ErrMissingMergeField struct {
	Field string
}

func (e *ErrMissingMergeField) Error() string {
	return fmt.Sprintf("no value for merge field %q", e.Field)
}

func NewMissingMergeField(field string) error {
	return &ErrMissingMergeField{Field: field}
}

// ErrTransport wraps the email provider's rejection. Reason is the
// provider's raw message (rate limit, invalid address, auth failure) and is
// surfaced to the caller verbatim; credentials are never part of it.
type ErrTransport struct {
	Reason  string
	Timeout bool
}

func (e *ErrTransport) Error() string {
	if e.Timeout {
		return "transport timeout: " + e.Reason
	}
	return "transport rejected message: " + e.Reason
}

func NewTransport(reason string, timeout bool) error {
	return &ErrTransport{Reason: reason, Timeout: timeout}
}

// HTTPStatus maps a pipeline error to its response status class. Every
// taxonomy entry gets a distinct class so callers can discriminate causes;
// anything unrecognized is an internal failure.
func HTTPStatus(err error) int {
	var (
		denied     *ErrPermissionDenied
		notFound   *ErrCampaignNotFound
		incomplete *ErrIncompleteSettings
		merge      *ErrMissingMergeField
		transport  *ErrTransport
	)
	switch {
	case errors.As(err, &denied), errors.As(err, &notFound):
		return http.StatusUnauthorized
	case errors.As(err, &incomplete), errors.As(err, &merge), errors.As(err, &transport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
