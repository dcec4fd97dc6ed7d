package apperror

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_DefaultMessage(t *testing.T) {
	err := New(CodeUnresolvedRate)
	if err.Message != "dex usd rate invalid" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Class != ClassInput {
		t.Errorf("Class = %s", err.Class)
	}
}

func TestError_IncludesContextAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := New(CodeInvalidInput, WithMessage("amount_in invalid"), WithContext("amount_in"), WithCause(cause))

	got := err.Error()
	for _, want := range []string{"INVALID_INPUT", "amount_in invalid", "(amount_in)", "boom"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(CodeNonFiniteAggregate, WithContext("total_cost"))
	wrapped := fmt.Errorf("route r1: %w", a)

	if !errors.Is(wrapped, New(CodeNonFiniteAggregate)) {
		t.Error("expected match by code through wrapping")
	}
	if errors.Is(wrapped, New(CodeInvalidInput)) {
		t.Error("different codes must not match")
	}
	if GetCode(wrapped) != CodeNonFiniteAggregate {
		t.Errorf("GetCode = %s", GetCode(wrapped))
	}
	if !HasCode(wrapped, CodeNonFiniteAggregate) {
		t.Error("HasCode should be true")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, CodeTelemetrySetupFailed, "x") != nil {
		t.Fatal("Wrap(nil) must be nil")
	}

	plain := errors.New("disk")
	w := Wrap(plain, CodeFeedOpenFailed, "feed.jsonl")
	if w.Code != CodeFeedOpenFailed || w.Context != "feed.jsonl" {
		t.Errorf("unexpected wrap: %+v", w)
	}

	orig := New(CodeInvalidQuote)
	if again := Wrap(orig, CodeTelemetrySetupFailed, "ctx"); again != orig || again.Context != "ctx" {
		t.Errorf("existing AppError should be returned with context filled")
	}
}

func TestGetCode_PlainError(t *testing.T) {
	if GetCode(errors.New("x")) != CodeUnknownError {
		t.Error("plain errors map to UNKNOWN_ERROR")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(CodeNotifySendFailed), true},
		{fmt.Errorf("send: %w", New(CodeRateLimitExceeded)), true},
		{New(CodeNotifyRejected), false},
		{New(CodeCircuitOpen), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestLogValue(t *testing.T) {
	v := New(CodeCircuitOpen, WithContext("telegram")).LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("kind = %s", v.Kind())
	}
	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}
	if got["code"] != string(CodeCircuitOpen) || got["class"] != "upstream" || got["context"] != "telegram" {
		t.Errorf("group = %v", got)
	}
	if _, ok := got["stack"]; ok {
		t.Error("only internal errors carry a stack")
	}

	internal := New(CodeTelemetrySetupFailed).LogValue()
	var hasStack bool
	for _, a := range internal.Group() {
		hasStack = hasStack || a.Key == "stack"
	}
	if !hasStack {
		t.Error("internal errors should carry a stack")
	}
}
