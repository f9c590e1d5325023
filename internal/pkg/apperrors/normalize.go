package apperrors

import "strings"

// UpstreamEtherscan tags errors originating from the block explorer.
const UpstreamEtherscan = "etherscan"

// NewExplorerError builds an explorer-tagged upstream error.
func NewExplorerError(code Code, message string) *UpstreamError {
	return &UpstreamError{Code: code, Message: message, Upstream: UpstreamEtherscan}
}

// NormalizeExplorerMessage maps a provider-side logical error message onto
// the closed explorer taxonomy. The explorer signals plan and key problems
// only through free-text result strings, so this is substring matching by
// design of the upstream.
func NormalizeExplorerMessage(message string) *UpstreamError {
	lowered := strings.ToLower(message)

	if strings.Contains(lowered, "rate limit") || strings.Contains(lowered, "max rate limit") {
		return NewExplorerError(CodeRateLimited, "Explorer rate limit reached.")
	}

	if strings.Contains(lowered, "missing api key") {
		return NewExplorerError(CodeMissingAPIKey, "Explorer API key is missing.")
	}

	for _, keyword := range []string{"upgrade", "not available", "pro", "premium"} {
		if strings.Contains(lowered, keyword) {
			return NewExplorerError(CodeUnavailableOnFreePlan, "Explorer feature is unavailable on the free plan.")
		}
	}

	return NewExplorerError(CodeUpstreamError, "Explorer returned an error response.")
}

// ClassifyRPCHTTPError maps a non-2xx RPC transport outcome onto the RPC
// taxonomy.
func ClassifyRPCHTTPError(status int, message string) *UpstreamError {
	lowered := strings.ToLower(message)

	if status == 429 || strings.Contains(lowered, "rate limit") {
		return &UpstreamError{Code: CodeRateLimited, Message: "RPC rate limit reached.", Status: status}
	}

	if strings.Contains(lowered, "revert") {
		return &UpstreamError{Code: CodeReverted, Message: "RPC call reverted.", Status: status}
	}

	return &UpstreamError{Code: CodeUpstreamError, Message: "RPC responded with an error status.", Status: status}
}

// ClassifyRPCPayloadError maps a JSON-RPC error object's message onto the
// RPC taxonomy.
func ClassifyRPCPayloadError(message string) *UpstreamError {
	lowered := strings.ToLower(message)

	if strings.Contains(lowered, "rate limit") {
		return &UpstreamError{Code: CodeRateLimited, Message: "RPC rate limit reached."}
	}

	if strings.Contains(lowered, "revert") {
		return &UpstreamError{Code: CodeReverted, Message: "RPC call reverted."}
	}

	return &UpstreamError{Code: CodeUpstreamError, Message: message}
}
