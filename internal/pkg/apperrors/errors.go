package apperrors

import "strings"

// Code is a machine-readable error code from the closed taxonomy.
type Code string

// Input error codes. Always fatal to the request, always HTTP 400.
const (
	CodeMissingParams  Code = "missing_params"
	CodeInvalidChain   Code = "invalid_chain"
	CodeInvalidAddress Code = "invalid_address"
)

// Upstream error codes.
const (
	CodeMissingAPIKey         Code = "missing_api_key"
	CodeRateLimited           Code = "rate_limited"
	CodeUnavailableOnFreePlan Code = "unavailable_on_free_plan"
	CodeNotSupported          Code = "not_supported"
	CodeTimeout               Code = "timeout"
	CodeUpstreamError         Code = "upstream_error"
	CodeInvalidResponse       Code = "invalid_response"
	CodeReverted              Code = "reverted"
	CodeMissingRPCURL         Code = "missing_rpc_url"
)

// CodeNotFound is surfaced by the HTTP layer for unknown routes.
const CodeNotFound Code = "not_found"

// UpstreamError is a taxonomy-normalized failure from an external provider.
type UpstreamError struct {
	Code     Code
	Message  string
	Upstream string
	Status   int
}

func (e *UpstreamError) Error() string {
	if e.Upstream != "" {
		return e.Upstream + ": " + string(e.Code) + ": " + e.Message
	}
	return string(e.Code) + ": " + e.Message
}

// blockingCodes abort the pipeline when present on a core fact group.
var blockingCodes = map[Code]bool{
	CodeMissingAPIKey: true,
	CodeRateLimited:   true,
	CodeUpstreamError: true,
	CodeTimeout:       true,
}

// IsBlocking reports whether an upstream code must abort the pipeline when
// it affects the source or creation fact groups.
func IsBlocking(code Code) bool {
	return blockingCodes[code]
}

// ErrorDetail is optional machine-readable context on a client-visible error.
type ErrorDetail struct {
	Provider string `json:"provider,omitempty"`
	Hint     string `json:"hint,omitempty"`
	Status   int    `json:"status,omitempty"`
}

// InspectError is a client-visible failure: a taxonomy code, a message safe
// to echo, and the HTTP status to serve it with. No upstream payloads or
// stack traces are ever carried here.
type InspectError struct {
	Code       Code         `json:"code"`
	Message    string       `json:"message"`
	Detail     *ErrorDetail `json:"detail,omitempty"`
	HTTPStatus int          `json:"-"`
}

func (e *InspectError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewInputError builds a 400 error for malformed request input.
func NewInputError(code Code, message string) *InspectError {
	return &InspectError{Code: code, Message: message, HTTPStatus: 400}
}

// NewRateLimitError builds the 429 returned when a client exceeds its
// request budget.
func NewRateLimitError() *InspectError {
	return &InspectError{
		Code:       CodeRateLimited,
		Message:    "Too many requests.",
		Detail:     &ErrorDetail{Hint: "Please try again later."},
		HTTPStatus: 429,
	}
}

var invalidResponseKeywords = []string{"invalid", "parse", "schema", "json"}

// MapUpstreamError converts a normalized upstream failure into the
// client-visible error and the HTTP status to serve it with.
func MapUpstreamError(err *UpstreamError) *InspectError {
	var detail *ErrorDetail
	if err.Upstream != "" {
		detail = &ErrorDetail{Provider: err.Upstream}
	}

	switch err.Code {
	case CodeMissingAPIKey:
		return &InspectError{
			Code:       CodeMissingAPIKey,
			Message:    "Upstream API key is missing or rejected.",
			Detail:     detail,
			HTTPStatus: 503,
		}
	case CodeRateLimited:
		if detail == nil {
			detail = &ErrorDetail{}
		}
		detail.Hint = "Please try again later."
		return &InspectError{
			Code:       CodeRateLimited,
			Message:    "Upstream provider rate limit reached.",
			Detail:     detail,
			HTTPStatus: 429,
		}
	case CodeTimeout:
		return &InspectError{
			Code:       CodeUpstreamError,
			Message:    "Upstream request failed.",
			Detail:     detail,
			HTTPStatus: 504,
		}
	}

	lowered := strings.ToLower(err.Message)
	for _, keyword := range invalidResponseKeywords {
		if strings.Contains(lowered, keyword) {
			return &InspectError{
				Code:       CodeInvalidResponse,
				Message:    "Upstream returned an invalid response.",
				Detail:     detail,
				HTTPStatus: 502,
			}
		}
	}

	return &InspectError{
		Code:       CodeUpstreamError,
		Message:    "Upstream request failed.",
		Detail:     detail,
		HTTPStatus: 502,
	}
}
