package logging

import "context"

type contextKey string

const (
	issueKeyKey  contextKey = "issue_key"
	requestIDKey contextKey = "request_id"
)

// WithIssueKey adds the JIRA issue key being worked on to the context.
func WithIssueKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, issueKeyKey, key)
}

// WithRequestID adds a lookup request sequence number to the context.
func WithRequestID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetIssueKey retrieves the issue key from the context.
// Returns empty string if not present.
func GetIssueKey(ctx context.Context) string {
	if key, ok := ctx.Value(issueKeyKey).(string); ok {
		return key
	}
	return ""
}

// GetRequestID retrieves the lookup request sequence number from the context.
// Returns 0 if not present.
func GetRequestID(ctx context.Context) uint64 {
	if id, ok := ctx.Value(requestIDKey).(uint64); ok {
		return id
	}
	return 0
}
