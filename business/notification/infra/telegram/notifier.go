// Package telegram sends signals through the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/arbscan/business/notification/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/circuitbreaker"
	"github.com/fd1az/arbscan/internal/httpclient"
	"github.com/fd1az/arbscan/internal/keyring"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/ratelimit"
)

// DefaultBaseURL is the Telegram Bot API endpoint used when Config.BaseURL is empty.
const DefaultBaseURL = "https://api.telegram.org"

// Config holds notifier settings.
type Config struct {
	BaseURL       string
	Tokens        []string // rotated round-robin per message
	ChatID        string
	RatePerMinute int
	Burst         int
	MaxRetries    uint
	Timeout       time.Duration
	Breaker       circuitbreaker.Config
}

// Notifier is a notification channel backed by the Bot API sendMessage call.
type Notifier struct {
	cfg     Config
	client  httpclient.Client
	keys    *keyring.Ring
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[struct{}]
	logger  logger.LoggerInterface
	retry   func() backoff.BackOff
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// tokenInPath matches the bot credential segment of API URLs.
var tokenInPath = regexp.MustCompile(`/bot[^/]+/`)

// RedactURL hides the bot token in a request URL.
func RedactURL(u string) string {
	return tokenInPath.ReplaceAllString(u, "/bot<redacted>/")
}

// New creates a Notifier.
func New(cfg Config, log logger.LoggerInterface) (*Notifier, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.DefaultConfig("telegram")
	}

	keys := keyring.New(cfg.Tokens...)
	if keys.Len() == 0 {
		return nil, apperror.New(apperror.CodeNoCredentials, apperror.WithContext("telegram"))
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("telegram"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithURLRedactor(RedactURL),
	)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.Unlimited()
	if cfg.RatePerMinute > 0 {
		limiter = ratelimit.New(cfg.RatePerMinute, cfg.Burst)
	}

	n := &Notifier{
		cfg:     cfg,
		client:  client,
		keys:    keys,
		limiter: limiter,
		logger:  log,
		retry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			return b
		},
	}

	breaker := cfg.Breaker
	breaker.IsSuccessful = func(err error) bool {
		// a rejected message says nothing about the API's health
		return err == nil || apperror.HasCode(err, apperror.CodeNotifyRejected)
	}
	userHook := breaker.OnStateChange
	breaker.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
		if userHook != nil {
			userHook(name, from, to)
		}
	}
	n.cb = circuitbreaker.New[struct{}](breaker)
	return n, nil
}

// Name implements the notification channel.
func (n *Notifier) Name() string { return "telegram" }

// BreakerOpen reports whether the breaker currently rejects sends.
func (n *Notifier) BreakerOpen() bool { return n.cb.IsOpen() }

// Send delivers sig, retrying transient failures with exponential backoff.
func (n *Notifier) Send(ctx context.Context, sig domain.Signal) error {
	text := sig.FormatHTML()

	if err := n.limiter.Wait(ctx); err != nil {
		return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext("telegram"), apperror.WithCause(err))
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		_, err := n.cb.Execute(func() (struct{}, error) {
			return struct{}{}, n.sendMessage(ctx, text)
		})
		switch {
		case err == nil:
			return struct{}{}, nil
		case circuitbreaker.IsRejection(err):
			return struct{}{}, backoff.Permanent(apperror.New(apperror.CodeCircuitOpen,
				apperror.WithContext("telegram"), apperror.WithCause(err)))
		case !apperror.Retryable(err):
			return struct{}{}, backoff.Permanent(err)
		}
		var retryAfter *retryAfterError
		if errors.As(err, &retryAfter) {
			return struct{}{}, backoff.RetryAfter(retryAfter.seconds)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(n.retry()),
		backoff.WithMaxTries(n.cfg.MaxRetries+1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			n.logger.Debug(ctx, "telegram send retry", "signal", sig.ID, "wait", wait, "error", err)
		}),
	)
	return err
}

type retryAfterError struct {
	seconds int
	cause   error
}

func (e *retryAfterError) Error() string { return e.cause.Error() }
func (e *retryAfterError) Unwrap() error { return e.cause }

func (n *Notifier) sendMessage(ctx context.Context, text string) error {
	token, _ := n.keys.Next()

	var result apiResponse
	resp, err := n.client.NewRequest().
		SetBody(sendMessageRequest{
			ChatID:                n.cfg.ChatID,
			Text:                  text,
			ParseMode:             "HTML",
			DisableWebPagePreview: true,
		}).
		SetResult(&result).
		Post(ctx, "/bot"+token+"/sendMessage")
	if err != nil {
		return apperror.New(apperror.CodeNotifySendFailed, apperror.WithContext("telegram"), apperror.WithCause(err))
	}

	if resp.StatusCode == http.StatusOK && result.OK {
		return nil
	}

	desc := strings.TrimSpace(result.Description)
	if desc == "" {
		desc = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		cause := apperror.New(apperror.CodeRateLimitExceeded, apperror.WithContext("telegram: "+desc))
		if result.Parameters != nil && result.Parameters.RetryAfter > 0 {
			return &retryAfterError{seconds: result.Parameters.RetryAfter, cause: cause}
		}
		return cause
	case resp.StatusCode >= 500:
		return apperror.New(apperror.CodeNotifySendFailed, apperror.WithContext("telegram: "+desc))
	default:
		// 4xx other than 429: bad chat, bad token, malformed HTML
		return apperror.New(apperror.CodeNotifyRejected, apperror.WithContext("telegram: "+desc))
	}
}
