package app

import (
	"context"
	"log/slog"
	"net/http"
)

type sessionKey string

const (
	SessionKeyHoldId = sessionKey("holdID")
)

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const loggerContextKey = contextKey("logger")

func (app *Application) contextSetLogger(r *http.Request, logger *slog.Logger) *http.Request {
	ctx := context.WithValue(r.Context(), loggerContextKey, logger)
	return r.WithContext(ctx)
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}

// sessionHoldId returns the hold id remembered for the caller, if any.
func (app *Application) sessionHoldId(r *http.Request) string {
	return app.sessionManager.GetString(r.Context(), SessionKeyHoldId.String())
}

func (app *Application) rememberHold(r *http.Request, holdId string) {
	app.sessionManager.Put(r.Context(), SessionKeyHoldId.String(), holdId)
}

// forgetHold clears the session hold when it is the given one.
func (app *Application) forgetHold(r *http.Request, holdId string) {
	if app.sessionHoldId(r) == holdId {
		app.sessionManager.Remove(r.Context(), SessionKeyHoldId.String())
	}
}
