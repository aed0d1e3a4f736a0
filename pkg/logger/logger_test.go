package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextWithRequestID(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "test-id")
	if got := RequestIDFromContext(ctx); got != "test-id" {
		t.Fatalf("expected request ID %q, got %q", "test-id", got)
	}
}

func TestWithContextAddsRequestIDField(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	original := log
	log = zap.New(core)
	defer func() { log = original }()

	ctx := ContextWithRequestID(context.Background(), "context-id")

	WithContext(ctx).Info("test message")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	requestID, ok := entries[0].ContextMap()["request_id"]
	if !ok {
		t.Fatalf("expected request_id field to be present")
	}

	if requestID != "context-id" {
		t.Fatalf("expected request_id %q, got %v", "context-id", requestID)
	}
}

func TestSetNopSilencesGlobalLogger(t *testing.T) {
	original := log
	defer func() { log = original }()

	SetNop()
	if Get() == nil {
		t.Fatal("expected a logger after SetNop")
	}
	// Must not panic.
	Info("dropped")
}
