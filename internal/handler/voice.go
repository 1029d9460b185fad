package handler

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
	"github.com/set-night/shopassist/internal/middleware"
	"github.com/set-night/shopassist/internal/service"
	tg "github.com/set-night/shopassist/internal/telegram"
)

// voiceAttachment describes the audio carried by a message, if any.
type voiceAttachment struct {
	FileID      string
	Name        string
	ContentType string
	Size        int64
}

func audioOf(msg *models.Message) (voiceAttachment, bool) {
	switch {
	case msg == nil:
		return voiceAttachment{}, false
	case msg.Voice != nil:
		return voiceAttachment{
			FileID:      msg.Voice.FileID,
			ContentType: msg.Voice.MimeType,
			Size:        int64(msg.Voice.FileSize),
		}, true
	case msg.Audio != nil:
		return voiceAttachment{
			FileID:      msg.Audio.FileID,
			Name:        service.CleanName(msg.Audio.FileName),
			ContentType: msg.Audio.MimeType,
			Size:        int64(msg.Audio.FileSize),
		}, true
	default:
		return voiceAttachment{}, false
	}
}

// HandleVoice downloads a voice or audio message and feeds it through the
// transcription pipeline into the current session.
func (h *Handler) HandleVoice(ctx context.Context, b *bot.Bot, update *models.Update) {
	att, ok := audioOf(update.Message)
	if !ok {
		return
	}
	ws := middleware.GetWorkspace(ctx)
	if ws == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sessionID := ws.Sessions.CurrentID()
	fb := h.feedback(ctx, b, chatID, ws, sessionID)
	fb.voice = true

	if att.Size > config.MaxVoiceUploadBytes {
		tg.SendText(ctx, b, chatID, fmt.Sprintf("❌ Recording is too large (max %d MB).", config.MaxVoiceUploadBytes>>20))
		return
	}

	// The indicator covers download and transcription too, before the
	// dispatcher takes over.
	fb.Busy(true)
	clip, err := h.downloadClip(ctx, b, att)
	if err != nil {
		fb.Busy(false)
		slog.Error("download voice", "chat_id", chatID, "error", err)
		fb.Failed(err)
		return
	}

	reply, ok := h.voice.Process(ctx, ws.Sessions, sessionID, clip, fb)
	fb.Busy(false)
	if !ok {
		return
	}
	h.sendReply(ctx, b, chatID, reply)
}

func (h *Handler) downloadClip(ctx context.Context, b *bot.Bot, att voiceAttachment) (domain.AudioClip, error) {
	data, filePath, err := tg.DownloadFile(ctx, b, att.FileID, config.MaxVoiceUploadBytes)
	if err != nil {
		return domain.AudioClip{}, err
	}

	clip := domain.AudioClip{Name: att.Name, ContentType: att.ContentType, Data: data}
	if clip.Name == "" {
		clip.Name = service.RecordingName(clip.ContentType)
		if clip.ContentType == "" && path.Ext(filePath) != "" {
			clip.Name = clip.Name[:len(clip.Name)-len(path.Ext(clip.Name))] + path.Ext(filePath)
		}
	}
	return clip, nil
}
