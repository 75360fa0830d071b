package service

import "errors"

var (
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrNoBotID         = errors.New("meeting has no bot id")
	ErrNoTranscript    = errors.New("no transcript available")
	// ErrProviderNotConfigured is returned when the recording provider key is missing.
	ErrProviderNotConfigured = errors.New("recording provider not configured")
	ErrEnrichmentInFlight    = errors.New("enrichment already in progress")
	// ErrMalformedNotification wraps decode failures and lifecycle notifications without a bot id.
	ErrMalformedNotification = errors.New("malformed notification")
	ErrInvalidInput          = errors.New("invalid input")
)

var (
	ErrActionItemNotFound  = errors.New("action item not found")
	ErrSpeakerStatNotFound = errors.New("speaker stat not found")
)
