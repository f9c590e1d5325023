package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"token-inspector/internal/config"
	"token-inspector/internal/entity"
	"token-inspector/internal/pkg/apperrors"
)

func TestEthCall_MissingRPCURL(t *testing.T) {
	client := NewRPCClient(config.RPCConfig{URLs: map[string]string{"eth": "http://localhost:8545"}}, zap.NewNop())

	_, err := client.EthCall(context.Background(), entity.ChainBsc, "0xabc", "0x06fdde03")

	require.NotNil(t, err)
	assert.Equal(t, apperrors.CodeMissingRPCURL, err.Code)
}

func TestEthCallRequestShape(t *testing.T) {
	payload, err := json.Marshal(ethCallRequest{
		ID:      1,
		Jsonrpc: "2.0",
		Method:  "eth_call",
		Params: []any{
			map[string]string{"to": "0xabc", "data": "0x95d89b41"},
			"latest",
		},
	})
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"id":1,"jsonrpc":"2.0","method":"eth_call","params":[{"to":"0xabc","data":"0x95d89b41"},"latest"]}`,
		string(payload))
}
