package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskflow/backend/internal/audit/domain"
)

// mockAuditRepo implements the audit repository for tests.
type mockAuditRepo struct {
	entries   []*domain.Entry
	createErr error
}

func (m *mockAuditRepo) Create(_ context.Context, e *domain.Entry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, e)
	return nil
}

func TestLogger_LogEvent(t *testing.T) {
	repo := &mockAuditRepo{}
	l := NewLogger(repo)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.LogEvent(context.Background(), Event{TeamID: "t1", UserID: "u1", Action: "delete", Resource: "task", Code: "OK"})

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID.IsZero() {
		t.Error("entry ID should be generated")
	}
	if e.TeamID != "t1" || e.UserID != "u1" || e.Action != "delete" || e.Resource != "task" || e.Code != "OK" {
		t.Errorf("entry = %+v", e)
	}
	if e.IP != "unknown" {
		t.Errorf("IP = %q, want unknown", e.IP)
	}
	if !e.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, fixed)
	}
}

func TestLogger_RepoErrorIsSwallowed(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	NewLogger(repo).LogEvent(context.Background(), Event{Action: "create", Resource: "team"})
	if len(repo.entries) != 0 {
		t.Error("no entry should be stored when the repository fails")
	}
}

func TestLogger_NilSafe(t *testing.T) {
	var l *Logger
	l.LogEvent(context.Background(), Event{Action: "create"})
	NewLogger(nil).LogEvent(context.Background(), Event{Action: "create"})
}
