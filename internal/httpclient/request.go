package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Request is a one-shot builder for a call against the client's base URL.
type Request interface {
	SetBody(body any) Request
	SetHeader(key, value string) Request
	SetQueryParam(key, value string) Request
	SetResult(result any) Request

	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string) (*Response, error)
}

// Response is an http.Response whose body has been drained.
type Response struct {
	*http.Response
	body   []byte
	result any
}

func (r *Response) Body() []byte   { return r.body }
func (r *Response) String() string { return string(r.body) }
func (r *Response) IsError() bool  { return r.StatusCode >= http.StatusBadRequest }

// Result is the SetResult target when the body decoded into it, else nil.
func (r *Response) Result() any { return r.result }

type call struct {
	c       *InstrumentedClient
	tracer  trace.Tracer
	header  http.Header
	query   url.Values
	body    any
	result  any
	onError ResponseErrorHandler
}

func (c *call) SetBody(body any) Request {
	c.body = body
	return c
}

func (c *call) SetResult(result any) Request {
	c.result = result
	return c
}

func (c *call) SetHeader(key, value string) Request {
	c.header.Set(key, value)
	return c
}

func (c *call) SetQueryParam(key, value string) Request {
	c.query.Set(key, value)
	return c
}

func (c *call) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path)
}

func (c *call) Post(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodPost, path)
}

func (c *call) target(path string) string {
	u := path
	if base := c.c.opts.baseURL; base != "" && !strings.HasPrefix(path, "http") {
		u = strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	if len(c.query) == 0 {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + c.query.Encode()
	}
	return u + "?" + c.query.Encode()
}

// payload encodes the body. []byte, string and io.Reader pass through;
// anything else becomes JSON.
func (c *call) payload() (io.Reader, []byte, error) {
	switch b := c.body.(type) {
	case nil:
		return nil, nil, nil
	case io.Reader:
		return b, nil, nil
	case []byte:
		return bytes.NewReader(b), b, nil
	case string:
		return strings.NewReader(b), []byte(b), nil
	}
	raw, err := json.Marshal(c.body)
	if err != nil {
		return nil, nil, fmt.Errorf("httpclient: encode body: %w", err)
	}
	if c.header.Get("Content-Type") == "" {
		c.header.Set("Content-Type", "application/json")
	}
	return bytes.NewReader(raw), raw, nil
}

func (c *call) do(ctx context.Context, method, path string) (*Response, error) {
	target := c.target(path)
	shown := target
	if c.c.opts.redact != nil {
		shown = c.c.opts.redact(target)
	}

	ctx, span := c.tracer.Start(ctx, c.c.opts.provider+" "+method, trace.WithAttributes(
		attribute.String("provider", c.c.opts.provider),
		attribute.String("http.method", method),
		attribute.String("http.url", shown),
	))
	defer span.End()

	body, raw, err := c.payload()
	if err != nil {
		return nil, c.fail(ctx, span, 0, err)
	}
	if c.c.opts.reqBody && raw != nil {
		span.AddEvent("request.body", trace.WithAttributes(attribute.String("body", string(raw))))
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, c.fail(ctx, span, 0, fmt.Errorf("httpclient: build request: %w", err))
	}
	req.Header = c.header

	resp, err := c.c.http.Do(req)
	if err != nil {
		// url.Error carries the URL it was given
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = shown
		}
		return nil, c.fail(ctx, span, 0, err)
	}
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, c.fail(ctx, span, resp.StatusCode, fmt.Errorf("httpclient: read body: %w", err))
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if c.c.opts.respBody {
		span.AddEvent("response.body", trace.WithAttributes(attribute.String("body", string(data))))
	}

	out := &Response{Response: resp, body: data}
	if c.result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, c.result); err != nil {
			span.RecordError(err)
		} else {
			out.result = c.result
		}
	}

	if c.onError != nil {
		if err := c.onError(resp.StatusCode, data); err != nil {
			return out, c.fail(ctx, span, resp.StatusCode, err)
		}
	}
	c.count(ctx, resp.StatusCode, !out.IsError())
	return out, nil
}

// fail marks the span, counts the failure and returns err.
func (c *call) fail(ctx context.Context, span trace.Span, status int, err error) error {
	span.RecordError(err)
	if errors.Is(err, context.Canceled) {
		span.SetAttributes(attribute.Bool("context.cancelled", true))
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		span.SetAttributes(attribute.Bool("request.timeout", true))
	}
	span.SetStatus(codes.Error, err.Error())
	c.count(ctx, status, false)
	return err
}

func (c *call) count(ctx context.Context, status int, ok bool) {
	c.c.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.c.opts.provider),
		attribute.Int("status", status),
		attribute.Bool("success", ok),
	))
}
