package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/shopassist/internal/service"
)

type ctxKey string

const WorkspaceKey ctxKey = "workspace"

// GetWorkspace extracts the chat workspace from context.
func GetWorkspace(ctx context.Context) *service.Workspace {
	ws, ok := ctx.Value(WorkspaceKey).(*service.Workspace)
	if !ok {
		return nil
	}
	return ws
}

// WithWorkspace stores ws in ctx.
func WithWorkspace(ctx context.Context, ws *service.Workspace) context.Context {
	return context.WithValue(ctx, WorkspaceKey, ws)
}

// WorkspaceLoader returns middleware that attaches the chat's workspace to
// the context, creating it on the chat's first update.
func WorkspaceLoader(workspaces *service.Workspaces) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if chatID, ok := ChatID(update); ok {
				ctx = WithWorkspace(ctx, workspaces.Get(chatID))
			}
			next(ctx, b, update)
		}
	}
}
