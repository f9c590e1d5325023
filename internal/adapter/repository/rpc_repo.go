package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"token-inspector/internal/config"
	"token-inspector/internal/entity"
	"token-inspector/internal/pkg/apperrors"
	"token-inspector/internal/usecase"
)

// Compile-time check
var _ usecase.RPCCaller = (*rpcClient)(nil)

type rpcClient struct {
	client  *fasthttp.Client
	cfg     config.RPCConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewRPCClient builds the JSON-RPC eth_call client.
func NewRPCClient(cfg config.RPCConfig, logger *zap.Logger) usecase.RPCCaller {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &rpcClient{
		client:  &fasthttp.Client{},
		cfg:     cfg,
		timeout: timeout,
		logger:  logger.Named("RPCClient"),
	}
}

type ethCallRequest struct {
	ID      int    `json:"id"`
	Jsonrpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// jsonRPCResponse defines the basic structure for a JSON-RPC response.
type jsonRPCResponse struct {
	ID      any             `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// EthCall issues eth_call with the given calldata against the chain's
// configured endpoint and returns the raw hex result.
func (c *rpcClient) EthCall(ctx context.Context, chain entity.Chain, address, data string) (string, *apperrors.UpstreamError) {
	rpcURL := c.cfg.URLFor(string(chain))
	if rpcURL == "" {
		return "", &apperrors.UpstreamError{
			Code:    apperrors.CodeMissingRPCURL,
			Message: "RPC URL is not configured for this chain.",
		}
	}

	payload, err := json.Marshal(ethCallRequest{
		ID:      1,
		Jsonrpc: "2.0",
		Method:  "eth_call",
		Params: []any{
			map[string]string{"to": address, "data": data},
			"latest",
		},
	})
	if err != nil {
		return "", &apperrors.UpstreamError{
			Code:    apperrors.CodeUpstreamError,
			Message: "RPC request could not be encoded.",
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rpcURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return "", &apperrors.UpstreamError{
				Code:    apperrors.CodeTimeout,
				Message: "RPC request timed out.",
			}
		}
		c.logger.Debug("RPC request failed", zap.String("chain", string(chain)), zap.Error(err))
		return "", &apperrors.UpstreamError{
			Code:    apperrors.CodeUpstreamError,
			Message: "RPC request failed.",
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return "", apperrors.ClassifyRPCHTTPError(resp.StatusCode(), string(resp.Body()))
	}

	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return "", &apperrors.UpstreamError{
			Code:    apperrors.CodeInvalidResponse,
			Message: "RPC response is not an object.",
		}
	}

	if rpcResp.Error != nil {
		return "", apperrors.ClassifyRPCPayloadError(rpcResp.Error.Message)
	}

	var result string
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return "", &apperrors.UpstreamError{
			Code:    apperrors.CodeInvalidResponse,
			Message: "RPC response is missing a hex result.",
		}
	}

	return result, nil
}
