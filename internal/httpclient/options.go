// Package httpclient provides an instrumented HTTP client with OTEL tracing and metrics.
package httpclient

import (
	"net/http"
	"time"
)

// Options configures NewInstrumentedClient.
type Options struct {
	provider  string
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	redact    func(string) string
	reqBody   bool
	respBody  bool
}

// ClientOption configures Options.
type ClientOption func(*Options)

// WithProviderName labels spans and the request counter.
func WithProviderName(name string) ClientOption {
	return func(o *Options) { o.provider = name }
}

// WithBaseURL is prepended to relative request paths.
func WithBaseURL(url string) ClientOption {
	return func(o *Options) { o.baseURL = url }
}

// WithRequestTimeout bounds each call including retries of the transport.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(o *Options) { o.timeout = timeout }
}

// WithRoundTripper replaces the pooled default transport.
func WithRoundTripper(rt http.RoundTripper) ClientOption {
	return func(o *Options) { o.transport = rt }
}

// WithURLRedactor rewrites URLs before they reach spans and errors. The Bot
// API carries the token in the path.
func WithURLRedactor(fn func(string) string) ClientOption {
	return func(o *Options) { o.redact = fn }
}

// WithBodyEvents records request and/or response bodies as span events.
func WithBodyEvents(request, response bool) ClientOption {
	return func(o *Options) {
		o.reqBody = request
		o.respBody = response
	}
}

// ResponseErrorHandler turns a completed response into an error, or nil.
type ResponseErrorHandler func(statusCode int, body []byte) error

// RequestOption configures a single request.
type RequestOption func(*call)

// WithResponseErrorHandler sets the handler for one request.
func WithResponseErrorHandler(handler ResponseErrorHandler) RequestOption {
	return func(r *call) { r.onError = handler }
}
