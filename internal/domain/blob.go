package domain

import (
	"time"
)

// AudioClip is a recorded voice message waiting to be transcribed.
type AudioClip struct {
	Name        string
	ContentType string
	Data        []byte
}

type BlobObject struct {
	Category    string
	Name        string
	ContentType string
	Size        int64
	URL         string
	CreatedAt   time.Time
}
