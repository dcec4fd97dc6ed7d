package apperror

// Code identifies an error class across the application.
type Code string

// General error codes
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// PNL engine codes. All of them are recoverable per route.
const (
	CodeUnresolvedRate     Code = "UNRESOLVED_RATE"
	CodeNonFiniteAggregate Code = "NON_FINITE_AGGREGATE"
)

// Scan feed and quote ingestion
const (
	CodeFeedOpenFailed   Code = "FEED_OPEN_FAILED"
	CodeFeedDecodeFailed Code = "FEED_DECODE_FAILED"
	CodeInvalidQuote     Code = "INVALID_QUOTE"
	CodeInvalidOrderbook Code = "INVALID_ORDERBOOK"
)

// Notification delivery
const (
	CodeNotifySendFailed     Code = "NOTIFY_SEND_FAILED"
	CodeNotifyRejected       Code = "NOTIFY_REJECTED"
	CodeNoCredentials        Code = "NO_CREDENTIALS"
	CodeWebSocketSendError   Code = "WEBSOCKET_SEND_ERROR"
	CodeWebSocketClosed      Code = "WEBSOCKET_CLOSED"
	CodeCircuitOpen          Code = "CIRCUIT_OPEN"
	CodeStreamServerFailed   Code = "STREAM_SERVER_FAILED"
	CodeTelemetrySetupFailed Code = "TELEMETRY_SETUP_FAILED"
)
