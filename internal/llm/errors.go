package llm

import "errors"

var (
	// ErrUnavailable indicates the model endpoint could not be reached.
	ErrUnavailable = errors.New("llm endpoint unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrEmptyResponse indicates the model answered without any text.
	ErrEmptyResponse = errors.New("llm returned an empty response")

	// ErrMissingAPIKey indicates a hosted provider was configured without a key.
	ErrMissingAPIKey = errors.New("llm api key not configured")

	// ErrUnknownProvider indicates a provider name with no client implementation.
	ErrUnknownProvider = errors.New("unknown llm provider")
)
