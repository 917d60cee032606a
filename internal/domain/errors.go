package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy means another action is still in flight for this session.
	ErrBusy = errors.New("another action is in progress")
	// ErrCredentialParse means the service-account secret could not be decoded.
	ErrCredentialParse = errors.New("malformed service account credential")
	// ErrNotConnected means a write-capable action ran before a successful connect.
	ErrNotConnected = errors.New("not connected to the Business Profile API")
	// ErrNoAPIKey means the key-based fetch mode has no API key configured.
	ErrNoAPIKey = errors.New("no Places API key configured")
	// ErrNoCredential means no service-account credential is available, so
	// the write-capable flow is disabled.
	ErrNoCredential = errors.New("no Business Profile service account configured")
)

// FetchError carries the provider-level status of a failed read from either
// backend (HTTP status or API status field, plus any message).
type FetchError struct {
	Provider string // "places" | "business_profile"
	Status   string
	Message  string
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s API error: %s - %s", e.Provider, e.Status, e.Message)
}

// SubmitStatus is the outcome class of one reply submission attempt.
type SubmitStatus string

const (
	SubmitPosted  SubmitStatus = "posted"
	SubmitSkipped SubmitStatus = "skipped"
	SubmitFailed  SubmitStatus = "failed"
)

// SubmitResult records one per-review submission outcome. Submissions are
// independent; a failed one never blocks or rolls back the rest.
type SubmitResult struct {
	Status   SubmitStatus   `json:"status"`
	ReviewID string         `json:"reviewId,omitempty"`
	Reason   string         `json:"reason,omitempty"`   // skipped
	Error    string         `json:"error,omitempty"`    // failed
	Response map[string]any `json:"response,omitempty"` // posted
}
