package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInstrumentedClient_PostJSON(t *testing.T) {
	var gotPath, gotQuery, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, err := NewInstrumentedClient(WithBaseURL(srv.URL), WithProviderName("test"))
	require.NoError(t, err)

	var out struct {
		OK bool `json:"ok"`
	}
	resp, err := client.NewRequest().
		SetBody(map[string]string{"text": "hi"}).
		SetQueryParam("q", "a b").
		SetResult(&out).
		Post(context.Background(), "/bot123/sendMessage")
	require.NoError(t, err)

	assert.False(t, resp.IsError())
	assert.True(t, out.OK)
	assert.Equal(t, "/bot123/sendMessage", gotPath)
	assert.Equal(t, "q=a+b", gotQuery)
	assert.Equal(t, "application/json", gotType)
}

func TestInstrumentedClient_ErrorHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	client, err := NewInstrumentedClient(WithBaseURL(srv.URL))
	require.NoError(t, err)

	errRateLimited := errors.New("rate limited")
	resp, err := client.NewRequestWithOptions(WithResponseErrorHandler(func(status int, _ []byte) error {
		if status == http.StatusTooManyRequests {
			return errRateLimited
		}
		return nil
	})).Get(context.Background(), "/x")

	require.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestInstrumentedClient_RedactsTransportErrors(t *testing.T) {
	client, err := NewInstrumentedClient(
		WithBaseURL("http://127.0.0.1:1"),
		WithURLRedactor(func(u string) string { return strings.ReplaceAll(u, "secret", "***") }),
	)
	require.NoError(t, err)

	_, err = client.NewRequest().Get(context.Background(), "/botsecret/getMe")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}

func TestInstrumentedClient_SpansNeverSeeSecret(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, err := NewInstrumentedClient(
		WithBaseURL(srv.URL),
		WithURLRedactor(func(u string) string { return strings.ReplaceAll(u, "secret", "redacted") }),
	)
	require.NoError(t, err)

	_, err = client.NewRequest().Post(context.Background(), "/botsecret/sendMessage")
	require.NoError(t, err)
	assert.Equal(t, "/botsecret/sendMessage", gotPath)

	spans := rec.Ended()
	require.NotEmpty(t, spans)
	for _, s := range spans {
		for _, kv := range s.Attributes() {
			assert.NotContains(t, kv.Value.Emit(), "secret", "span %s attribute %s", s.Name(), kv.Key)
		}
	}
}
