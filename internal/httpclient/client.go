package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultTimeout  = 10 * time.Second
	instrumentation = "arbscan/httpclient"
	requestCounter  = "arbscan_http_client_requests_total"
)

// Client creates requests against one upstream API.
type Client interface {
	NewRequest() Request
	NewRequestWithOptions(opts ...RequestOption) Request
}

// InstrumentedClient is an http.Client with OTEL transport spans, per-request
// spans and a request counter labelled by provider and status.
type InstrumentedClient struct {
	http    *http.Client
	counter metric.Int64Counter
	opts    Options
}

// NewInstrumentedClient creates a client. With a redactor installed, spans
// see the redacted URL while the request on the wire keeps the real one.
func NewInstrumentedClient(opts ...ClientOption) (Client, error) {
	o := Options{provider: "default", timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.transport
	if base == nil {
		// one upstream, few concurrent calls
		base = &http.Transport{
			DialContext:           (&net.Dialer{KeepAlive: 30 * time.Second}).DialContext,
			MaxConnsPerHost:       4,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: time.Second,
		}
	}

	var rt http.RoundTripper
	if o.redact != nil {
		rt = redactTransport{
			redact: o.redact,
			next:   otelhttp.NewTransport(restoreTransport{next: base}, clientTrace()),
		}
	} else {
		rt = otelhttp.NewTransport(base, clientTrace())
	}

	counter, err := otel.Meter(instrumentation).Int64Counter(requestCounter,
		metric.WithDescription("Outbound HTTP requests by provider and status"))
	if err != nil {
		return nil, err
	}

	return &InstrumentedClient{
		http:    &http.Client{Transport: rt, Timeout: o.timeout},
		counter: counter,
		opts:    o,
	}, nil
}

func clientTrace() otelhttp.Option {
	return otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
		return otelhttptrace.NewClientTrace(ctx)
	})
}

// NewRequest starts a request with no per-request options.
func (c *InstrumentedClient) NewRequest() Request {
	return c.NewRequestWithOptions()
}

// NewRequestWithOptions starts a request.
func (c *InstrumentedClient) NewRequestWithOptions(opts ...RequestOption) Request {
	r := &call{
		c:      c,
		tracer: otel.Tracer(instrumentation),
		header: make(http.Header),
		query:  make(url.Values),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type realURLKey struct{}

// redactTransport hands the next transport a copy of the request whose URL
// is redacted, stashing the real URL in the context.
type redactTransport struct {
	redact func(string) string
	next   http.RoundTripper
}

func (t redactTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	shown, err := url.Parse(t.redact(req.URL.String()))
	if err != nil {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(context.WithValue(req.Context(), realURLKey{}, req.URL))
	r.URL = shown
	return t.next.RoundTrip(r)
}

// restoreTransport puts the real URL back before the request is sent.
type restoreTransport struct {
	next http.RoundTripper
}

func (t restoreTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if u, ok := req.Context().Value(realURLKey{}).(*url.URL); ok {
		r := req.WithContext(req.Context())
		r.URL = u
		req = r
	}
	return t.next.RoundTrip(req)
}
