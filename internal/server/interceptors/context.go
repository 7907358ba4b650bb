package interceptors

import (
	"context"

	policydomain "taskflow/backend/internal/policy/domain"
)

type contextKey struct{ name string }

var (
	principalKey = contextKey{"principal"}
	sessionIDKey = contextKey{"session_id"}
	callInfoKey  = contextKey{"call_info"}
)

// callInfo lets an outer interceptor see who the inner auth interceptor authenticated.
type callInfo struct {
	principalID string
}

func withCallInfo(ctx context.Context) (context.Context, *callInfo) {
	ci := &callInfo{}
	return context.WithValue(ctx, callInfoKey, ci), ci
}

// WithPrincipal returns a context carrying the authenticated principal and its session id.
func WithPrincipal(ctx context.Context, p policydomain.Principal, sessionID string) context.Context {
	if ci, ok := ctx.Value(callInfoKey).(*callInfo); ok {
		ci.principalID = p.ID.String()
	}
	ctx = context.WithValue(ctx, principalKey, p)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return ctx
}

// GetPrincipal returns the principal from context and true if set; otherwise the zero value, false.
func GetPrincipal(ctx context.Context) (policydomain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(policydomain.Principal)
	return p, ok
}

// GetSessionID returns the session_id from context and true if set; otherwise "", false.
func GetSessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok
}
