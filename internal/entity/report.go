package entity

// CheckResult is the bounded verdict of a single risk check.
type CheckResult string

// Check results.
const (
	ResultOK      CheckResult = "ok"
	ResultWarn    CheckResult = "warn"
	ResultHigh    CheckResult = "high"
	ResultUnknown CheckResult = "unknown"
)

// RiskLevel is the aggregated overall risk classification.
type RiskLevel string

// Overall risk levels.
const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// Fixed identities of the seven risk checks, in report order.
const (
	CheckSellRestriction      = "sell_restriction"
	CheckOwnerPrivileges      = "owner_privileges"
	CheckMintCapability       = "mint_capability"
	CheckLiquidityLock        = "liquidity_lock"
	CheckHolderConcentration  = "holder_concentration"
	CheckContractVerification = "contract_verification"
	CheckTradingEnableControl = "trading_enable_control"
)

// RiskCheck is one evaluator's verdict with human-readable backing.
type RiskCheck struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Result      CheckResult `json:"result"`
	Short       string      `json:"short"`
	Detail      string      `json:"detail"`
	Evidence    []string    `json:"evidence"`
	HowToVerify []string    `json:"howToVerify"`
}

// InspectInput echoes the validated request parameters.
type InspectInput struct {
	Chain   Chain  `json:"chain"`
	Address string `json:"address"`
}

// InspectResult is the aggregated outcome of a full inspection.
type InspectResult struct {
	OverallRisk RiskLevel      `json:"overallRisk"`
	Summary     string         `json:"summary"`
	TopReasons  []string       `json:"topReasons"`
	Token       *TokenIdentity `json:"token,omitempty"`
}

// ReportMeta carries freshness metadata. Only Cached, Stale and TS change
// when a cached report is replayed; GeneratedAt is the pipeline run time.
type ReportMeta struct {
	GeneratedAt string `json:"generatedAt"`
	Cached      bool   `json:"cached"`
	Stale       bool   `json:"stale"`
	TS          int64  `json:"ts"`
}

// InspectReport is the full response body for a successful inspection.
// It is immutable once built; the cache stores this exact shape.
type InspectReport struct {
	OK     bool          `json:"ok"`
	Input  InspectInput  `json:"input"`
	Result InspectResult `json:"result"`
	Checks []RiskCheck   `json:"checks"`
	Meta   ReportMeta    `json:"meta"`
}
