package apperror

// messages maps error codes to human-readable defaults
var messages = map[Code]string{
	CodeInvalidInput:       "Invalid input provided",
	CodeConfigurationError: "Configuration error",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",
	CodeUnknownError:       "An unknown error occurred",

	CodeUnresolvedRate:     "dex usd rate invalid",
	CodeNonFiniteAggregate: "aggregate is not finite",

	CodeFeedOpenFailed:   "Failed to open scan feed",
	CodeFeedDecodeFailed: "Failed to decode scan feed entry",
	CodeInvalidQuote:     "Invalid quote payload",
	CodeInvalidOrderbook: "Invalid orderbook data",

	CodeNotifySendFailed:     "Failed to deliver notification",
	CodeNotifyRejected:       "Notification rejected by remote",
	CodeNoCredentials:        "No credentials configured",
	CodeWebSocketSendError:   "Failed to send WebSocket message",
	CodeWebSocketClosed:      "WebSocket connection closed",
	CodeCircuitOpen:          "Circuit breaker is open",
	CodeStreamServerFailed:   "Signal stream server failed",
	CodeTelemetrySetupFailed: "Telemetry setup failed",
}
