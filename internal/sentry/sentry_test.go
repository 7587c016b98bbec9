package sentry

import (
	"testing"
	"time"
)

func TestInitializeDisabledWithoutDSN(t *testing.T) {
	if err := Initialize(Config{}); err != nil {
		t.Fatalf("Initialize with empty DSN should be a no-op, got %v", err)
	}
	if IsEnabled() {
		t.Error("Sentry must stay disabled without a DSN")
	}
}

func TestInitializeInvalidDSN(t *testing.T) {
	if err := Initialize(Config{DSN: "not-a-dsn"}); err == nil {
		t.Error("expected an error for a malformed DSN")
	}
}

func TestFlushWhenDisabled(t *testing.T) {
	if !Flush(10 * time.Millisecond) {
		t.Error("Flush should succeed immediately when Sentry is disabled")
	}
}
