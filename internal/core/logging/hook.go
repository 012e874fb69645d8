package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts issue_key and request_id from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if key := GetIssueKey(ctx); key != "" {
		e.Str("issue_key", key)
	}

	if id := GetRequestID(ctx); id != 0 {
		e.Uint64("request_id", id)
	}
}
