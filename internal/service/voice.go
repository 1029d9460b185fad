package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
)

// BlobStore keeps uploaded binaries and hands out retrievable URLs.
type BlobStore interface {
	Upload(ctx context.Context, clip domain.AudioClip, category string) (string, error)
	List(ctx context.Context, category string) ([]domain.BlobObject, error)
	Delete(ctx context.Context, category, name string) error
	Open(ctx context.Context, category, name string) (domain.BlobObject, []byte, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
	// Configured reports whether there is a backend to call at all.
	Configured() bool
}

// VoicePipeline uploads a recording, transcribes it and sends the text as
// if it had been typed.
type VoicePipeline struct {
	blobs       BlobStore
	transcriber Transcriber
	dispatcher  *Dispatcher
	category    string

	uploadTimeout     time.Duration
	transcribeTimeout time.Duration
}

func NewVoicePipeline(blobs BlobStore, transcriber Transcriber, dispatcher *Dispatcher) *VoicePipeline {
	return &VoicePipeline{
		blobs:             blobs,
		transcriber:       transcriber,
		dispatcher:        dispatcher,
		category:          config.VoiceCategory,
		uploadTimeout:     config.UploadTimeout,
		transcribeTimeout: config.TranscriptionTimeout,
	}
}

// Process runs one recording through upload, transcription and dispatch.
// Failures are reported through fb and never retried.
func (p *VoicePipeline) Process(ctx context.Context, store *SessionStore, sessionID string, clip domain.AudioClip, fb Feedback) (domain.Message, bool) {
	if fb == nil {
		fb = noFeedback{}
	}

	text, err := p.transcribe(ctx, clip)
	if err != nil {
		slog.Error("voice pipeline failed",
			"session_id", sessionID,
			"clip", clip.Name,
			"size", len(clip.Data),
			"error", err,
		)
		fb.Failed(err)
		return domain.Message{}, false
	}

	slog.Debug("voice transcribed", "session_id", sessionID, "chars", len(text))
	return p.dispatcher.Send(ctx, store, sessionID, text, fb)
}

func (p *VoicePipeline) transcribe(ctx context.Context, clip domain.AudioClip) (string, error) {
	if len(clip.Data) == 0 {
		return "", domain.ErrEmptyBlob
	}
	if !p.transcriber.Configured() {
		return "", domain.ErrBackendNotConfigured
	}
	if clip.Name == "" {
		clip.Name = RecordingName(clip.ContentType)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, p.uploadTimeout)
	url, err := p.blobs.Upload(uploadCtx, clip, p.category)
	cancel()
	if err != nil {
		return "", fmt.Errorf("upload recording: %w", err)
	}

	transcribeCtx, cancel := context.WithTimeout(ctx, p.transcribeTimeout)
	text, err := p.transcriber.Transcribe(transcribeCtx, url)
	cancel()
	if err != nil {
		return "", fmt.Errorf("transcribe recording: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyTranscription
	}
	return text, nil
}

// RecordingName generates a unique object name for a clip of the given type.
func RecordingName(contentType string) string {
	ext := ".ogg"
	if contentType != "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return "voice-" + uuid.Must(uuid.NewV7()).String() + ext
}

// CleanName strips any directory part from a client supplied file name.
func CleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
