package domain

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrBackendNotConfigured = errors.New("backend url is not configured")
	ErrRemoteStatus         = errors.New("remote returned non-success status")
	ErrMalformedResponse    = errors.New("malformed response")
	ErrEmptyTranscription   = errors.New("transcription returned no text")
	ErrBlobNotFound         = errors.New("blob not found")
	ErrEmptyBlob            = errors.New("empty blob")
)
