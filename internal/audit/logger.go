// Package audit records state-changing RPCs (team changes, invitations, task deletions)
// to an append-only audit log.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskflow/backend/internal/audit/domain"
	auditrepo "taskflow/backend/internal/audit/repository"
	"taskflow/backend/internal/platform/ident"
)

// Event is the caller-supplied part of an audit entry.
type Event struct {
	TeamID   ident.ID
	UserID   ident.ID
	Action   string
	Resource string
	Code     string
	IP       string
}

// AuditLogger writes a single audit event. LogEvent is best-effort: failures are logged
// and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, ev Event)
}

// Logger implements AuditLogger using the audit repository.
type Logger struct {
	repo auditrepo.Repository
	now  func() time.Time
}

// NewLogger returns an AuditLogger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// LogEvent writes one audit entry. An empty IP is recorded as "unknown".
func (l *Logger) LogEvent(ctx context.Context, ev Event) {
	if l == nil || l.repo == nil {
		return
	}
	if ev.IP == "" {
		ev.IP = "unknown"
	}
	entry := &domain.Entry{
		ID:        ident.New(),
		TeamID:    ev.TeamID,
		UserID:    ev.UserID,
		Action:    ev.Action,
		Resource:  ev.Resource,
		Code:      ev.Code,
		IP:        ev.IP,
		CreatedAt: l.now(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		zap.L().Warn("audit: failed to log event",
			zap.String("action", ev.Action), zap.String("resource", ev.Resource), zap.Error(err))
	}
}
