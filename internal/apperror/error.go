package apperror

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// Class groups codes by who has to act on the failure.
type Class uint8

const (
	// ClassInternal is a bug or an unexpected state.
	ClassInternal Class = iota
	// ClassInput is bad data in the feed or the config.
	ClassInput
	// ClassUpstream is a remote service that is down or throttling.
	ClassUpstream
	// ClassDelivery is a notification that will never go through as sent.
	ClassDelivery
)

func (c Class) String() string {
	switch c {
	case ClassInput:
		return "input"
	case ClassUpstream:
		return "upstream"
	case ClassDelivery:
		return "delivery"
	default:
		return "internal"
	}
}

// AppError is a coded error. Two AppErrors match under errors.Is when their
// codes are equal.
type AppError struct {
	Code      Code
	Class     Class
	Message   string
	Context   string
	Timestamp time.Time

	cause error
	stack []uintptr
}

func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Context != "" {
		fmt.Fprintf(&sb, " (%s)", e.Context)
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func (e *AppError) Unwrap() error { return e.cause }

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// LogValue renders the error as a slog group. Internal errors carry the
// stack they were created at.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(e.Code)),
		slog.String("class", e.Class.String()),
		slog.String("message", e.Message),
	}
	if e.Context != "" {
		attrs = append(attrs, slog.String("context", e.Context))
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	if e.Class == ClassInternal && len(e.stack) > 0 {
		attrs = append(attrs, slog.String("stack", e.trace()))
	}
	return slog.GroupValue(attrs...)
}

func (e *AppError) trace() string {
	var sb strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for more := true; more; {
		var f runtime.Frame
		f, more = frames.Next()
		if strings.Contains(f.File, "runtime/") {
			continue
		}
		fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
	}
	return sb.String()
}

// Option customizes an AppError built by New.
type Option func(*AppError)

func WithMessage(message string) Option {
	return func(e *AppError) { e.Message = message }
}

func WithContext(context string) Option {
	return func(e *AppError) { e.Context = context }
}

func WithCause(cause error) Option {
	return func(e *AppError) { e.cause = cause }
}

// New builds an AppError with the registered message and class for code.
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:      code,
		Class:     classOf(code),
		Message:   messages[code],
		Timestamp: time.Now(),
	}
	if err.Class == ClassInternal {
		var pcs [32]uintptr
		n := runtime.Callers(2, pcs[:])
		err.stack = pcs[:n]
	}
	for _, opt := range opts {
		opt(err)
	}
	if err.Message == "" {
		err.Message = string(code)
	}
	return err
}

// Wrap returns the AppError already inside err, filling its context if
// empty, or a new one with code around err.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}
	return New(code, WithContext(context), WithCause(err))
}

// GetCode returns the code of the first AppError in err's chain, or
// CodeUnknownError.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

func HasCode(err error, code Code) bool {
	return GetCode(err) == code
}

// Retryable reports whether repeating the failed call may succeed.
func Retryable(err error) bool {
	switch GetCode(err) {
	case CodeNotifySendFailed, CodeRateLimitExceeded, CodeServiceUnavailable:
		return true
	}
	return false
}

func classOf(code Code) Class {
	switch code {
	case CodeInvalidInput, CodeConfigurationError, CodeUnresolvedRate, CodeNonFiniteAggregate,
		CodeFeedDecodeFailed, CodeInvalidQuote, CodeInvalidOrderbook, CodeNoCredentials:
		return ClassInput
	case CodeServiceUnavailable, CodeRateLimitExceeded,
		CodeNotifySendFailed, CodeCircuitOpen, CodeFeedOpenFailed:
		return ClassUpstream
	case CodeNotifyRejected, CodeWebSocketSendError, CodeWebSocketClosed:
		return ClassDelivery
	}
	return ClassInternal
}
