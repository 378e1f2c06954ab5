package errors

import "errors"

var (
	// ErrMissingCredentials means a gateway's required credentials were absent
	// at startup. The gateway stays not-ready until the process restarts.
	ErrMissingCredentials = errors.New("required credentials are missing")

	// ErrGatewayNotReady is returned when an operation is invoked on a gateway
	// that never finished initializing. Not retryable without intervention.
	ErrGatewayNotReady = errors.New("gateway not initialized")

	// ErrRemoteService wraps failures coming back from Reddit, GitHub or the
	// AI service. Isolated per item or per channel, never fatal.
	ErrRemoteService = errors.New("remote service failure")

	// ErrMalformedResponse means the AI service returned output that is not
	// JSON or violates the expected schema.
	ErrMalformedResponse = errors.New("malformed response from AI service")

	ErrValidation = errors.New("invalid request")
)
