package config

import "time"

const (
	// External call timeouts
	ChatRequestTimeout   = 90 * time.Second
	TranscriptionTimeout = 60 * time.Second
	UploadTimeout        = 30 * time.Second

	// Session defaults
	DefaultTitle = "New Chat"
	Greeting     = "Hello! I'm your AI shopping assistant. How can I help you today?"

	// Title auto-derivation
	TitleWords  = 4
	TitleSuffix = "..."

	// Assistant turn appended when an exchange fails
	ErrorReply = "Sorry, I couldn't get a response right now. Please try again."

	// Blob storage
	VoiceCategory       = "product-voice"
	VoiceRetention      = 24 * time.Hour
	VoiceCleanupPeriod  = 30 * time.Minute
	MaxVoiceUploadBytes = 20 << 20

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Sessions per page in the sidebar
	SessionsPerPage = 8

	// HTTP server
	ServerShutdownTimeout = 10 * time.Second
)
