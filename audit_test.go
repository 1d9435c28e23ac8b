package authgate

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDispatcherDisabled(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NewChannelSink(1))
	if d != nil {
		t.Fatal("expected nil dispatcher when audit is disabled")
	}
}

func TestDispatcherDeliversToSink(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink)

	d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginSuccess, Username: "devon", Success: true})
	d.Close()

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventLoginSuccess || event.Username != "devon" || !event.Success {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestDispatcherStampsContextMetadata(t *testing.T) {
	sink := NewChannelSink(4)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4}, sink)

	ctx := WithClientIP(context.Background(), "10.0.0.1")
	d.Emit(ctx, AuditEvent{EventType: auditEventLoginFailure})
	d.Close()

	select {
	case event := <-sink.Events():
		if event.Timestamp.IsZero() {
			t.Fatal("expected the dispatcher to stamp a timestamp")
		}
		if event.IP != "10.0.0.1" {
			t.Fatalf("event IP = %q, want 10.0.0.1", event.IP)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestDispatcherKeepsExplicitTimestamp(t *testing.T) {
	sink := NewChannelSink(4)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 4}, sink)

	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure, Timestamp: stamp})
	d.Close()

	select {
	case event := <-sink.Events():
		if !event.Timestamp.Equal(stamp) {
			t.Fatalf("timestamp = %v, want %v", event.Timestamp, stamp)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure})
	}
	d.Close()

	for i := 0; i < 5; i++ {
		select {
		case <-sink.Events():
		case <-time.After(time.Second):
			t.Fatalf("only %d of 5 events delivered before close", i)
		}
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// A sink that never consumes: the dispatcher buffer fills and DropIfFull
	// kicks in on the emitter side.
	sink := NewChannelSink(1)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	for i := 0; i < 50; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped counter to advance")
	}

	// Unblock the dispatcher goroutine so Close can finish.
	go func() {
		for range sink.Events() {
		}
	}()
	d.Close()
}

func TestDispatcherEmitAfterClose(t *testing.T) {
	sink := NewChannelSink(1)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1}, sink)
	d.Close()

	// Must not panic or block.
	d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure})
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: auditEventRegisterSuccess,
		AccountID: 7,
		Username:  "devon",
		Success:   true,
	})

	line := strings.TrimSpace(buf.String())
	var decoded AuditEvent
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if decoded.EventType != auditEventRegisterSuccess || decoded.AccountID != 7 {
		t.Fatalf("unexpected event: %+v", decoded)
	}
}

func TestAuditErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want AuditErrorCode
	}{
		{nil, ""},
		{ErrInvalidInput, auditErrInvalidInput},
		{ErrInvalidCredentials, auditErrInvalidCredentials},
		{ErrLoginRateLimited, auditErrRateLimited},
		{ErrRegistrationRateLimited, auditErrRateLimited},
		{ErrUsernameTaken, auditErrDuplicate},
		{ErrTokenInvalid, auditErrInvalidToken},
		{ErrStoreUnavailable, auditErrUnavailable},
		{context.DeadlineExceeded, auditErrInternal},
	}

	for _, tt := range tests {
		if got := auditErrorCode(tt.err); got != tt.want {
			t.Fatalf("auditErrorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
