package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	testCases := []struct {
		name    string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{"default", "", zapcore.InfoLevel, false},
		{"debug", "debug", zapcore.DebugLevel, false},
		{"upper case", " WARN ", zapcore.WarnLevel, false},
		{"invalid", "loud", zapcore.InfoLevel, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New("taskflow", "development", tc.level)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error for invalid level")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if !l.Core().Enabled(tc.want) {
				t.Errorf("level %s should be enabled", tc.want)
			}
			if tc.want > zapcore.DebugLevel && l.Core().Enabled(tc.want-1) {
				t.Errorf("level %s should be disabled", tc.want-1)
			}
		})
	}
}

func TestNew_ProductionUsesJSON(t *testing.T) {
	l, err := New("taskflow", "production", "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l == nil {
		t.Fatal("logger is nil")
	}
}
