package logger

import (
	"context"
	"log/slog"
	"testing"
)

// Component loggers are package globals consumed by code that may run before
// InitLogger (package setup, tests). They must never be nil.
func TestComponentLoggersUsableWithoutInit(t *testing.T) {
	components := map[string]*slog.Logger{
		"L":     L,
		"DB":    DB,
		"TG":    TG,
		"MIG":   MIG,
		"TWire": TWire,
		"LLM":   LLM,
		"RES":   RES,
	}
	for name, lg := range components {
		if lg == nil {
			t.Fatalf("logger.%s is nil", name)
		}
	}

	// Must not panic.
	RES.LogAttrs(context.Background(), slog.LevelInfo, "lookup",
		slog.String("key", "main_menu"),
	)
	Warn(context.Background(), "guard", "retry.attempt",
		slog.String("op", "complete"),
	)
}
