package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"token-inspector/internal/config"
	"token-inspector/internal/entity"
	"token-inspector/internal/pkg/apperrors"
	"token-inspector/internal/usecase"
)

// Compile-time check
var _ usecase.ExplorerRepository = (*etherscanRepo)(nil)

type etherscanRepo struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewEtherscanRepo builds the block-explorer client. One repo serves both
// chains; the explorer selects the network via the chainid parameter.
func NewEtherscanRepo(cfg config.ExplorerConfig, logger *zap.Logger) usecase.ExplorerRepository {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &etherscanRepo{
		client:  &fasthttp.Client{},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		logger:  logger.Named("EtherscanRepo"),
	}
}

// FetchFacts issues the three explorer calls concurrently. Each group
// fails independently; a failed group still carries default facts.
func (r *etherscanRepo) FetchFacts(ctx context.Context, chain entity.Chain, address string) entity.ExplorerFacts {
	var facts entity.ExplorerFacts
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		facts.Source = r.fetchSourceFacts(chain, address)
	}()
	go func() {
		defer wg.Done()
		facts.Creation = r.fetchCreationFacts(chain, address)
	}()
	go func() {
		defer wg.Done()
		facts.Holders = r.fetchHolderFacts(chain, address)
	}()
	wg.Wait()

	return facts
}

func (r *etherscanRepo) guard(chain entity.Chain) (int64, *apperrors.UpstreamError) {
	if r.apiKey == "" {
		return 0, apperrors.NewExplorerError(apperrors.CodeMissingAPIKey, "Explorer API key is missing.")
	}
	chainID, ok := chain.ExplorerChainID()
	if !ok {
		return 0, apperrors.NewExplorerError(apperrors.CodeNotSupported, "Explorer does not support this chain.")
	}
	return chainID, nil
}

func (r *etherscanRepo) buildURL(chainID int64, params map[string]string) string {
	values := url.Values{}
	values.Set("chainid", strconv.FormatInt(chainID, 10))
	values.Set("apikey", r.apiKey)
	for key, value := range params {
		values.Set(key, value)
	}
	return r.baseURL + "?" + values.Encode()
}

// fetchJSON performs one explorer GET with the per-call timeout and maps
// transport symptoms onto the explorer taxonomy.
func (r *etherscanRepo) fetchJSON(requestURL string) ([]byte, *apperrors.UpstreamError) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := r.client.DoTimeout(req, resp, r.timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, apperrors.NewExplorerError(apperrors.CodeTimeout, "Explorer request timed out.")
		}
		r.logger.Debug("Explorer request failed", zap.Error(err))
		return nil, apperrors.NewExplorerError(apperrors.CodeUpstreamError, "Explorer request failed.")
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, apperrors.NewExplorerError(apperrors.CodeUpstreamError,
			fmt.Sprintf("Explorer responded with status %d.", resp.StatusCode()))
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

type etherscanEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// parseEnvelope unwraps the explorer's status/result envelope, normalizing
// provider-side logical errors onto the taxonomy.
func parseEnvelope(body []byte) (json.RawMessage, *apperrors.UpstreamError) {
	var envelope etherscanEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewExplorerError(apperrors.CodeUpstreamError, "Explorer response was not an object.")
	}

	switch envelope.Status {
	case "1":
		return envelope.Result, nil
	case "0":
		message := "Unknown error"
		var resultMessage string
		if err := json.Unmarshal(envelope.Result, &resultMessage); err == nil && resultMessage != "" {
			message = resultMessage
		}
		return nil, apperrors.NormalizeExplorerMessage(message)
	default:
		return nil, apperrors.NewExplorerError(apperrors.CodeUpstreamError, "Explorer response had an unexpected status.")
	}
}

func (r *etherscanRepo) call(chain entity.Chain, params map[string]string) (json.RawMessage, *apperrors.UpstreamError) {
	chainID, guardErr := r.guard(chain)
	if guardErr != nil {
		return nil, guardErr
	}

	body, fetchErr := r.fetchJSON(r.buildURL(chainID, params))
	if fetchErr != nil {
		return nil, fetchErr
	}
	return parseEnvelope(body)
}

type sourceCodeEntry struct {
	SourceCode string `json:"SourceCode"`
	ABI        string `json:"ABI"`
	Proxy      string `json:"Proxy"`
}

func (r *etherscanRepo) fetchSourceFacts(chain entity.Chain, address string) entity.SourceResult {
	result, callErr := r.call(chain, map[string]string{
		"module":  "contract",
		"action":  "getsourcecode",
		"address": address,
	})
	if callErr != nil {
		return entity.SourceResult{Err: callErr}
	}

	var entries []sourceCodeEntry
	if err := json.Unmarshal(result, &entries); err != nil || len(entries) == 0 {
		return entity.SourceResult{
			Err: apperrors.NewExplorerError(apperrors.CodeUpstreamError, "Explorer returned an empty result."),
		}
	}

	entry := entries[0]
	facts := entity.SourceFacts{
		SourceAvailable: entity.TriFromBool(strings.TrimSpace(entry.SourceCode) != ""),
		SourceCode:      entry.SourceCode,
		ABI:             entry.ABI,
	}
	switch entry.Proxy {
	case "1":
		facts.IsProxy = entity.TriTrue
	case "0":
		facts.IsProxy = entity.TriFalse
	}

	return entity.SourceResult{Facts: facts}
}

type creationEntry struct {
	ContractCreator string `json:"contractCreator"`
	TxHash          string `json:"txHash"`
}

func (r *etherscanRepo) fetchCreationFacts(chain entity.Chain, address string) entity.CreationResult {
	result, callErr := r.call(chain, map[string]string{
		"module":            "contract",
		"action":            "getcontractcreation",
		"contractaddresses": address,
	})
	if callErr != nil {
		return entity.CreationResult{Err: callErr}
	}

	var entries []creationEntry
	if err := json.Unmarshal(result, &entries); err != nil || len(entries) == 0 {
		return entity.CreationResult{
			Err: apperrors.NewExplorerError(apperrors.CodeUpstreamError, "Explorer returned an empty result."),
		}
	}

	return entity.CreationResult{Facts: entity.CreationFacts{
		CreatorAddress: entries[0].ContractCreator,
		CreationTxHash: entries[0].TxHash,
	}}
}

func (r *etherscanRepo) fetchHolderFacts(chain entity.Chain, address string) entity.HolderResult {
	result, callErr := r.call(chain, map[string]string{
		"module":          "token",
		"action":          "tokenholderlist",
		"contractaddress": address,
		"page":            "1",
		"offset":          strconv.Itoa(entity.TopHolderCount),
	})
	if callErr != nil {
		return entity.HolderResult{Err: callErr}
	}

	var entries []map[string]any
	if err := json.Unmarshal(result, &entries); err != nil || len(entries) == 0 {
		return entity.HolderResult{
			Err: apperrors.NewExplorerError(apperrors.CodeUpstreamError, "Explorer returned an empty holder list."),
		}
	}

	if len(entries) > entity.TopHolderCount {
		entries = entries[:entity.TopHolderCount]
	}
	if len(entries) < entity.TopHolderCount {
		return entity.HolderResult{
			Facts: entity.HolderFacts{HolderListAvailable: entity.TriTrue},
			Err: apperrors.NewExplorerError(apperrors.CodeUpstreamError,
				fmt.Sprintf("Explorer returned fewer than %d holders.", entity.TopHolderCount)),
		}
	}

	percents, holderErr := r.holderPercents(chain, address, entries)
	if holderErr != nil {
		return entity.HolderResult{
			Facts: entity.HolderFacts{HolderListAvailable: entity.TriTrue},
			Err:   holderErr,
		}
	}

	return entity.HolderResult{Facts: entity.HolderFacts{
		HolderListAvailable: entity.TriTrue,
		TopHolderPercents:   percents,
	}}
}

// holderPercents extracts a percentage per entry, falling back to
// balance/totalSupply scaling when the explorer does not pre-compute them.
// Scaled division truncates at two decimals.
func (r *etherscanRepo) holderPercents(chain entity.Chain, address string, entries []map[string]any) ([]float64, *apperrors.UpstreamError) {
	var totalSupply *big.Int
	percents := make([]float64, 0, len(entries))

	for _, entry := range entries {
		if percent, ok := findPercentInEntry(entry); ok {
			percents = append(percents, percent)
			continue
		}

		if totalSupply == nil {
			supply, supplyErr := r.fetchTokenSupply(chain, address)
			if supplyErr != nil {
				return nil, supplyErr
			}
			totalSupply = supply
		}

		quantity, ok := findQuantityInEntry(entry)
		if !ok {
			return nil, apperrors.NewExplorerError(apperrors.CodeUpstreamError,
				"Explorer holder list did not include balances.")
		}

		percents = append(percents, scalePercent(quantity, totalSupply))
	}

	return percents, nil
}

func (r *etherscanRepo) fetchTokenSupply(chain entity.Chain, address string) (*big.Int, *apperrors.UpstreamError) {
	result, callErr := r.call(chain, map[string]string{
		"module":          "stats",
		"action":          "tokensupply",
		"contractaddress": address,
	})
	if callErr != nil {
		return nil, callErr
	}

	var raw any
	if err := json.Unmarshal(result, &raw); err != nil {
		raw = nil
	}

	supply, ok := parseBigInt(raw)
	if !ok || supply.Sign() <= 0 {
		return nil, apperrors.NewExplorerError(apperrors.CodeUpstreamError,
			"Explorer returned an invalid total supply.")
	}
	return supply, nil
}

// scalePercent computes quantity/totalSupply as a percentage truncated at
// two decimals, using integer math to stay exact at token-supply scale.
func scalePercent(quantity, totalSupply *big.Int) float64 {
	scaled := new(big.Int).Mul(quantity, big.NewInt(10000))
	scaled.Quo(scaled, totalSupply)
	return float64(scaled.Int64()) / 100
}

func findPercentInEntry(entry map[string]any) (float64, bool) {
	for key, value := range entry {
		lowered := strings.ToLower(key)
		if !strings.Contains(lowered, "percent") && !strings.Contains(lowered, "percentage") && !strings.Contains(lowered, "share") {
			continue
		}
		if parsed, ok := parseNumeric(value); ok {
			return parsed, true
		}
	}
	return 0, false
}

func findQuantityInEntry(entry map[string]any) (*big.Int, bool) {
	for key, value := range entry {
		lowered := strings.ToLower(key)
		if !strings.Contains(lowered, "quantity") && !strings.Contains(lowered, "balance") &&
			!strings.Contains(lowered, "amount") && !strings.Contains(lowered, "value") {
			continue
		}
		if parsed, ok := parseBigInt(value); ok {
			return parsed, true
		}
	}
	return nil, false
}

var numericCleaner = strings.NewReplacer("%", "", " ", "", ",", "", "\t", "")

func parseNumeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(numericCleaner.Replace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func parseBigInt(value any) (*big.Int, bool) {
	switch v := value.(type) {
	case float64:
		return big.NewInt(int64(v)), true
	case string:
		for _, c := range v {
			if c < '0' || c > '9' {
				return nil, false
			}
		}
		if v == "" {
			return nil, false
		}
		parsed, ok := new(big.Int).SetString(v, 10)
		return parsed, ok
	}
	return nil, false
}
